package termview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/config"
	"github.com/codalotl/diffpanels/internal/render"
)

func toks(texts ...string) []comparison.Token {
	out := make([]comparison.Token, len(texts))
	for i, s := range texts {
		out[i] = comparison.Token{Text: s, Index: i}
	}
	return out
}

// leftColumn renders c onto a 25-cell screen (10-cell columns) and returns the laid-out left column.
func leftColumn(t *testing.T, opts Options, c *comparison.Comparison) []string {
	t.Helper()
	opts.Width = 25
	s := NewScreen(opts)
	require.Equal(t, 10, s.ColumnWidth())
	render.New(s.Sinks()).Render(c)
	return s.column(s.Left, s.ColumnWidth(), newCondition(opts.EastAsianWidth))
}

func TestColumn_WrapsAtWidth(t *testing.T) {
	lines := leftColumn(t, Options{}, &comparison.Comparison{LeftTokens: toks("hello", " ", "world")})
	assert.Equal(t, []string{
		"Original  ",
		"hello worl",
		"d         ",
	}, lines)
}

func TestColumn_NewlinesAndTabs(t *testing.T) {
	lines := leftColumn(t, Options{}, &comparison.Comparison{LeftTokens: toks("if x {\n", "\treturn\r\n", "}", "\n")})
	assert.Equal(t, []string{
		"Original  ",
		"if x {    ",
		"    return",
		"}         ",
	}, lines)
}

func TestColumn_TabAtColumnEdgeWraps(t *testing.T) {
	lines := leftColumn(t, Options{TabWidth: 4}, &comparison.Comparison{LeftTokens: toks("abcdefghij", "\t", "k")})
	assert.Equal(t, []string{
		"Original  ",
		"abcdefghij",
		"    k     ",
	}, lines)
}

func TestColumn_ControlCharactersEscaped(t *testing.T) {
	lines := leftColumn(t, Options{}, &comparison.Comparison{LeftTokens: toks("a\x07b", "\r")})
	assert.Equal(t, []string{
		"Original  ",
		`a\x07b\x0D`,
	}, lines)
}

func TestColumn_WideGraphemesNotSplit(t *testing.T) {
	lines := leftColumn(t, Options{}, &comparison.Comparison{LeftTokens: toks("界界界界界界")})
	assert.Equal(t, []string{
		"Original  ",
		"界界界界界",
		"界        ",
	}, lines)
}

func TestColumn_ColorRunsMerge(t *testing.T) {
	lines := leftColumn(t, Options{Color: true, Theme: Theme(config.Default().Theme)}, &comparison.Comparison{
		LeftTokens:  toks("keep", " ", "drop", " ", "it"),
		RightTokens: toks("keep", " ", "it"),
		Matches:     []comparison.Match{{LeftStart: 0, RightStart: 0, Length: 2}, {LeftStart: 4, RightStart: 2, Length: 1}},
	})
	require.Len(t, lines, 3)
	assert.Equal(t, "keep \x1b[30m\x1b[48;5;224mdrop \x1b[0m", lines[1])
	assert.Equal(t, "\x1b[30m\x1b[48;5;229mit\x1b[0m        ", lines[2])
}

func TestColumn_ThemeZeroLeavesUnstyled(t *testing.T) {
	lines := leftColumn(t, Options{Color: true, Theme: Theme{}}, &comparison.Comparison{LeftTokens: toks("gone")})
	assert.Equal(t, "gone      ", lines[1])
}

func TestScreen_String(t *testing.T) {
	s := NewScreen(Options{Width: 25})
	render.New(s.Sinks()).Render(&comparison.Comparison{
		LeftTokens:     toks("hello", " ", "world"),
		RightTokens:    toks("hi"),
		AddedWords:     "1",
		WordCountScore: "2",
	})

	out := s.String()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Added words: 1   Word count score: 2   (colors off: categories not marked)", lines[0])
	assert.Equal(t, "┌──────────┐ ┌──────────┐", lines[1])
	assert.Equal(t, "└──────────┘ └──────────┘", lines[5])
	assert.Contains(t, lines[2], "│Original  │")
	assert.Contains(t, lines[2], "│Revised   │")
	assert.Contains(t, lines[3], "│hello worl│")
	assert.Contains(t, lines[3], "│hi        │")
	assert.Contains(t, lines[4], "│d         │")
}

func TestScreen_ResetClears(t *testing.T) {
	s := NewScreen(Options{})
	r := render.New(s.Sinks())
	r.Render(&comparison.Comparison{LeftTokens: toks("a"), RightTokens: toks("b")})
	require.Len(t, s.Left.Units(), 1)

	r.Reset()
	r.Reset()
	assert.Empty(t, s.Left.Units())
	assert.Empty(t, s.Right.Units())
	assert.Equal(t, 4, s.Overlay.Clears) // Render clears twice (reset and connectors), then two resets
}

func TestNewScreen_MinimumWidth(t *testing.T) {
	s := NewScreen(Options{Width: 3})
	assert.Equal(t, 10, s.ColumnWidth())
}

func TestScreen_SummaryWithColor(t *testing.T) {
	s := NewScreen(Options{Color: true})
	render.New(s.Sinks()).Render(&comparison.Comparison{AddedWords: "3", WordCountScore: "0.5"})

	first := strings.SplitN(s.String(), "\n", 2)[0]
	assert.Equal(t, cyanBold+"Added words: 3   Word count score: 0.5"+reset, first)
}

func TestScreen_EastAsianFrameAligned(t *testing.T) {
	s := NewScreen(Options{Width: 25, EastAsianWidth: true})
	render.New(s.Sinks()).Render(&comparison.Comparison{
		LeftTokens:  toks("αβ"),
		RightTokens: toks("ab"),
	})

	lines := strings.Split(s.String(), "\n")
	require.Len(t, lines, 5)
	// α and β are two cells each here, so the left column pads with six spaces.
	assert.Equal(t, "│αβ      │ │ab        │", lines[3])
}
