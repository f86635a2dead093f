package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "diffpanels",
		Short:         "Render a precomputed text comparison as two side-by-side panels",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})
	root.SetVersionTemplate("diffpanels {{.Version}}\n")

	root.AddCommand(newRenderCmd(), newStatsCmd(), newConfigCmd())
	return root
}

// usageArgs wraps an argument validator so its failures map to exit code 2.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

// overridableKeys are config keys that render accepts as flags of the same name.
var overridableKeys = []string{"format", "width", "strict", "color", "title", "eastasianwidth"}

// loadConfig loads the cascade for the working directory and applies any changed flags in fs on top of it.
func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	cfg, err := config.DefaultLoader(wd).Load()
	if err != nil {
		return config.Config{}, err
	}
	if fs == nil {
		return cfg, nil
	}
	for _, key := range overridableKeys {
		f := fs.Lookup(key)
		if f == nil || !f.Changed {
			continue
		}
		if err := cfg.Set(key, f.Value.String()); err != nil {
			return config.Config{}, usageError{err: fmt.Errorf("--%s: %w", key, err)}
		}
	}
	return cfg, nil
}

// openInput returns the reader for a FILE|- argument. The returned close func is always non-nil.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func() error, error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func readComparison(cmd *cobra.Command, args []string, strict bool) (*comparison.Comparison, error) {
	r, closeFn, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	if !strict {
		return comparison.Decode(r)
	}
	c, err := comparison.DecodeStrict(r)
	if err != nil {
		return nil, err
	}
	if err := comparison.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func newRenderCmd() *cobra.Command {
	var ro renderOptions
	cmd := &cobra.Command{
		Use:   "render [FILE|-]",
		Short: "Render a comparison as HTML or as terminal panels",
		Long: `The render command reads a comparison as JSON (from FILE, or stdin when FILE is absent or "-"),
classifies every token, and writes both panels plus the summary.

Example:
  diffpanels render comparison.json --out diff.html
  diffpanels render --format term --width 100 < comparison.json
  diffpanels render comparison.json --strict --left-text a.txt --right-text b.txt`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runRender(cmd, args, cfg, ro)
		},
	}

	d := config.Default()
	fs := cmd.Flags()
	fs.String("format", d.Format, "Output format: html or term")
	fs.Int("width", d.Width, "Terminal width in cells (0 detects it)")
	fs.Bool("strict", d.Strict, "Validate the comparison before rendering")
	fs.String("color", d.Color, "Terminal colors: auto, always, or never")
	fs.String("title", d.Title, "HTML page title")
	fs.Bool("eastasianwidth", d.EastAsianWidth, "Treat ambiguous-width characters as wide")
	fs.StringVarP(&ro.out, "out", "o", "", "Write output to this file instead of stdout")
	fs.StringVar(&ro.leftText, "left-text", "", "Original left document; its text must equal the left tokens joined")
	fs.StringVar(&ro.rightText, "right-text", "", "Original right document; its text must equal the right tokens joined")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "stats [FILE|-]",
		Short: "Print summary values and per-category token counts",
		Long: `The stats command reads a comparison and prints its two summary values and how many tokens
on each side fall into each category.

Example:
  diffpanels stats comparison.json
  diffpanels stats --strict < comparison.json`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}
			c, err := readComparison(cmd, args, strict || cfg.Strict)
			if err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), c)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Validate the comparison first")
	return cmd
}

func writeStats(w io.Writer, c *comparison.Comparison) error {
	tally := comparison.TallyOf(c)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		}).
		Headers("category", "left", "right")
	for _, cat := range comparison.Categories {
		t.Row(string(cat), strconv.Itoa(tally.Count(comparison.SideLeft, cat)), strconv.Itoa(tally.Count(comparison.SideRight, cat)))
	}
	t.Row("total", strconv.Itoa(tally.Total(comparison.SideLeft)), strconv.Itoa(tally.Total(comparison.SideRight)))

	_, err := fmt.Fprintf(w, "added words: %s\nword count score: %s\n%s\n", c.AddedWords, c.WordCountScore, t.String())
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration and where each value came from",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}
			b, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
