package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

// EnvVar names the file Log appends to.
const EnvVar = "DIFFPANELS_LOG_FILE"

var (
	mu  sync.Mutex
	now = time.Now
)

// Enabled reports whether Log currently has a destination.
func Enabled() bool {
	return os.Getenv(EnvVar) != ""
}

// Log is a minimal printf-style logger. It appends one timestamped line to the file named by DIFFPANELS_LOG_FILE.
//
// If DIFFPANELS_LOG_FILE is unset/empty or the path can't be opened as a file, Log is a no-op. Log never writes to stdout or stderr, so it is safe to
// call while output is being rendered there.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	b.WriteString(now().UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}
