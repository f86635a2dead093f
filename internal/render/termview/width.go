package termview

import (
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

const hexDigits = "0123456789ABCDEF"

func newCondition(eastAsian bool) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	cond.StrictEmojiNeutral = true
	return cond
}

// cell is one displayable grapheme cluster of a token, already made safe for a terminal.
type cell struct {
	text    string
	width   int
	newline bool // a line break; text is empty
	tab     bool // a tab; expanded at layout time
}

// cells splits s into grapheme clusters. Line breaks and tabs are reported as such, other control characters are escaped as "\xXX", and invalid UTF-8
// becomes U+FFFD.
func cells(s string, cond *runewidth.Condition) []cell {
	var out []cell
	iter := graphemes.FromString(s)
	for iter.Next() {
		g := iter.Value()
		switch {
		case g == "\n" || g == "\r\n":
			out = append(out, cell{newline: true})
		case g == "\t":
			out = append(out, cell{tab: true})
		case !utf8.ValidString(g):
			out = append(out, cell{text: "�", width: 1})
		case len(g) == 1 && (g[0] < 0x20 || g[0] == 0x7F):
			out = append(out, cell{text: `\x` + string(hexDigits[g[0]>>4]) + string(hexDigits[g[0]&0x0F]), width: 4})
		default:
			out = append(out, cell{text: g, width: cond.StringWidth(g)})
		}
	}
	return out
}
