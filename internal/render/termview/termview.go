// Package termview renders comparisons for a terminal as two framed, side-by-side columns.
//
// Each category gets a 256-color background (see Theme). Token text is laid out exactly: newlines in a token break the line, tabs advance to the next tab
// stop, and other control characters are shown escaped. Lines longer than a column wrap without splitting grapheme clusters.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/render"
)

// ANSI sequences.
const (
	reset    = "\x1b[0m"
	blackFG  = "\x1b[30m"
	cyanBold = "\x1b[1;36m"
)

// Theme maps each category to a 256-color background. A value <= 0 leaves the category unstyled.
type Theme struct {
	Matched int `yaml:"matched"`
	Moved   int `yaml:"moved"`
	Removed int `yaml:"removed"`
	Added   int `yaml:"added"`
}

func (t Theme) color(cat comparison.Category) int {
	switch cat {
	case comparison.CategoryMatched:
		return t.Matched
	case comparison.CategoryMoved:
		return t.Moved
	case comparison.CategoryRemoved:
		return t.Removed
	case comparison.CategoryAdded:
		return t.Added
	}
	return 0
}

// Options control the layout of a Screen.
type Options struct {
	Width          int   // total width in cells; at least minWidth is used
	Color          bool  // emit ANSI colors
	Theme          Theme // used when Color
	TabWidth       int   // tab stop interval; 4 if <= 0
	EastAsianWidth bool  // treat ambiguous East Asian code points as wide
}

const (
	minWidth        = 25
	defaultTabWidth = 4
)

// Panel collects units for one column. It implements render.Panel.
type Panel struct {
	title string
	units []render.Unit
}

// Clear removes all units.
func (p *Panel) Clear() {
	p.units = nil
}

// Append adds u at the end.
func (p *Panel) Append(u render.Unit) {
	p.units = append(p.units, u)
}

// Units returns the units appended since the last Clear.
func (p *Panel) Units() []render.Unit {
	return p.units
}

// Overlay implements render.Overlay. Terminals have no connector layer, so it only records that it was cleared.
type Overlay struct {
	Clears int
}

func (o *Overlay) Clear() {
	o.Clears++
}

// Text holds one summary value. It implements render.TextTarget.
type Text struct {
	Value string
}

func (t *Text) SetText(s string) {
	t.Value = s
}

// Screen holds the sinks of a render.Renderer and lays them out as text.
type Screen struct {
	Left           *Panel
	Right          *Panel
	Overlay        *Overlay
	AddedWords     *Text
	WordCountScore *Text

	opts Options
}

// NewScreen returns an empty screen laid out according to opts.
func NewScreen(opts Options) *Screen {
	if opts.TabWidth <= 0 {
		opts.TabWidth = defaultTabWidth
	}
	if opts.Width < minWidth {
		opts.Width = minWidth
	}
	return &Screen{
		Left:           &Panel{title: "Original"},
		Right:          &Panel{title: "Revised"},
		Overlay:        &Overlay{},
		AddedWords:     &Text{},
		WordCountScore: &Text{},
		opts:           opts,
	}
}

// Sinks returns s's sinks for use with render.New.
func (s *Screen) Sinks() render.Sinks {
	return render.Sinks{
		Left:           s.Left,
		Right:          s.Right,
		Overlay:        s.Overlay,
		AddedWords:     s.AddedWords,
		WordCountScore: s.WordCountScore,
	}
}

// ColumnWidth is the number of text cells inside each framed column.
func (s *Screen) ColumnWidth() int {
	// Two borders per column plus a one-cell gap between columns.
	return (s.opts.Width - 5) / 2
}

// String lays out the summary line followed by both columns. Lines are joined with "\n" and there is no trailing newline.
func (s *Screen) String() string {
	colWidth := s.ColumnWidth()
	cond := newCondition(s.opts.EastAsianWidth)

	left := s.column(s.Left, colWidth, cond)
	right := s.column(s.Right, colWidth, cond)
	for len(left) < len(right) {
		left = append(left, strings.Repeat(" ", colWidth))
	}
	for len(right) < len(left) {
		right = append(right, strings.Repeat(" ", colWidth))
	}

	// Framed by hand: columns are padded using cond, and lipgloss measures ambiguous-width runes without it.
	b := lipgloss.NormalBorder()
	left = frame(left, colWidth, b)
	right = frame(right, colWidth, b)

	var sb strings.Builder
	sb.WriteString(s.summary())
	for i := range left {
		sb.WriteByte('\n')
		sb.WriteString(left[i])
		sb.WriteByte(' ')
		sb.WriteString(right[i])
	}
	return sb.String()
}

// frame surrounds lines, each exactly width cells wide, with b.
func frame(lines []string, width int, b lipgloss.Border) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, b.TopLeft+strings.Repeat(b.Top, width)+b.TopRight)
	for _, l := range lines {
		out = append(out, b.Left+l+b.Right)
	}
	return append(out, b.BottomLeft+strings.Repeat(b.Bottom, width)+b.BottomRight)
}

func (s *Screen) summary() string {
	line := fmt.Sprintf("Added words: %s   Word count score: %s", s.AddedWords.Value, s.WordCountScore.Value)
	if s.opts.Color {
		return cyanBold + line + reset
	}
	return line + "   (colors off: categories not marked)"
}

// run is a maximal stretch of one category on one output line.
type run struct {
	cat  comparison.Category
	text strings.Builder
}

// column lays out p's title and units into lines exactly colWidth cells wide.
func (s *Screen) column(p *Panel, colWidth int, cond *runewidth.Condition) []string {
	var lines []string
	var runs []*run
	used := 0

	flush := func() {
		var b strings.Builder
		for _, r := range runs {
			b.WriteString(s.style(r.cat, r.text.String()))
		}
		if pad := colWidth - used; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		lines = append(lines, b.String())
		runs = runs[:0]
		used = 0
	}
	write := func(cat comparison.Category, text string, width int) {
		if used > 0 && used+width > colWidth {
			flush()
		}
		if len(runs) == 0 || runs[len(runs)-1].cat != cat {
			runs = append(runs, &run{cat: cat})
		}
		runs[len(runs)-1].text.WriteString(text)
		used += width
	}

	title := runewidth.Truncate(p.title, colWidth, "")
	titlePad := strings.Repeat(" ", colWidth-runewidth.StringWidth(title))
	if s.opts.Color {
		title = cyanBold + title + reset
	}
	lines = append(lines, title+titlePad)

	tabWidth := min(s.opts.TabWidth, colWidth)

	for _, u := range p.units {
		for _, c := range cells(u.Text, cond) {
			switch {
			case c.newline:
				flush()
			case c.tab:
				n := tabWidth - used%tabWidth
				if used+n > colWidth {
					n = colWidth - used
				}
				if n <= 0 {
					flush()
					n = tabWidth
				}
				write(u.Category, strings.Repeat(" ", n), n)
			default:
				write(u.Category, c.text, c.width)
			}
		}
	}
	if used > 0 || len(runs) > 0 {
		flush()
	}
	return lines
}

func (s *Screen) style(cat comparison.Category, text string) string {
	if !s.opts.Color {
		return text
	}
	bg := s.opts.Theme.color(cat)
	if bg <= 0 {
		return text
	}
	return fmt.Sprintf("%s\x1b[48;5;%dm%s%s", blackFG, bg, text, reset)
}
