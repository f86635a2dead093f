package comparison

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrTextMismatch is wrapped by CheckText when tokens do not reconstruct the original document.
var ErrTextMismatch = errors.New("tokens do not reconstruct the original text")

// excerptLen bounds (in runes) the deleted/inserted excerpts quoted in a mismatch error.
const excerptLen = 24

// CheckText verifies that concatenating side's token texts yields original exactly. On mismatch, the returned error wraps ErrTextMismatch and names the byte
// offset in original of the first divergence along with what the tokens dropped and added there.
func CheckText(c *Comparison, side Side, original string) error {
	got := c.Text(side)
	if got == original {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, got, false)

	offset := 0
	for i, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			offset += len(d.Text)
			continue
		}

		var removed, added string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed = d.Text
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				added = diffs[i+1].Text
			}
		case diffmatchpatch.DiffInsert:
			added = d.Text
		}
		return fmt.Errorf("%w: %s side diverges at byte %d: original has %s, tokens have %s", ErrTextMismatch, side, offset, excerpt(removed), excerpt(added))
	}

	// No edit located; fall back to the lengths.
	return fmt.Errorf("%w: %s side has %d bytes, original has %d", ErrTextMismatch, side, len(got), len(original))
}

func excerpt(s string) string {
	if s == "" {
		return "nothing"
	}
	if utf8.RuneCountInString(s) > excerptLen {
		r := []rune(s)
		s = string(r[:excerptLen]) + "..."
	}
	return strconv.Quote(s)
}
