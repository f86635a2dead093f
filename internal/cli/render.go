package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/config"
	"github.com/codalotl/diffpanels/internal/render"
	"github.com/codalotl/diffpanels/internal/render/htmlview"
	"github.com/codalotl/diffpanels/internal/render/termview"
	"github.com/codalotl/diffpanels/internal/simplelogger"
)

// fallbackWidth is used for terminal output when no width is configured and stdout is not a terminal.
const fallbackWidth = 120

type renderOptions struct {
	out       string
	leftText  string
	rightText string
}

func runRender(cmd *cobra.Command, args []string, cfg config.Config, ro renderOptions) error {
	c, err := readComparison(cmd, args, cfg.Strict)
	if err != nil {
		return err
	}
	if err := checkOriginal(c, comparison.SideLeft, ro.leftText); err != nil {
		return err
	}
	if err := checkOriginal(c, comparison.SideRight, ro.rightText); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if ro.out != "" {
		// Render fully before creating the file.
		var buf bytes.Buffer
		if err := renderTo(&buf, nil, c, cfg); err != nil {
			return err
		}
		if err := os.WriteFile(ro.out, buf.Bytes(), 0o644); err != nil {
			return err
		}
		simplelogger.Log("render: wrote %d bytes to %s", buf.Len(), ro.out)
		return nil
	}
	return renderTo(w, w, c, cfg)
}

// renderTo renders c in cfg.Format to w. tty is the writer that ends up on screen, if any; it drives width and color detection.
func renderTo(w io.Writer, tty io.Writer, c *comparison.Comparison, cfg config.Config) error {
	switch cfg.Format {
	case config.FormatTerm:
		width, isTerm := terminalWidth(tty)
		if cfg.Width > 0 {
			width = cfg.Width
		}
		color := cfg.Color == config.ColorAlways || (cfg.Color == config.ColorAuto && isTerm)

		screen := termview.NewScreen(termview.Options{
			Width:          width,
			Color:          color,
			Theme:          termview.Theme(cfg.Theme),
			EastAsianWidth: cfg.EastAsianWidth,
		})
		render.New(screen.Sinks()).Render(c)
		_, err := io.WriteString(w, screen.String()+"\n")
		return err
	default:
		page := htmlview.NewPage(cfg.Title)
		render.New(page.Sinks()).Render(c)
		_, err := page.WriteTo(w)
		return err
	}
}

// terminalWidth reports w's width in cells when w is a terminal, and fallbackWidth otherwise.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallbackWidth, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth, true
	}
	return width, true
}

// checkOriginal compares side's reconstructed text with the file at path. An empty path skips the check.
func checkOriginal(c *comparison.Comparison, side comparison.Side, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s text: %w", side, err)
	}
	return comparison.CheckText(c, side, string(b))
}
