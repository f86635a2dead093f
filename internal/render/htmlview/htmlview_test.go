package htmlview

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/render"
)

func toks(texts ...string) []comparison.Token {
	out := make([]comparison.Token, len(texts))
	for i, s := range texts {
		out[i] = comparison.Token{Text: s, Index: i}
	}
	return out
}

// renderPage runs a full cycle on a fresh page and parses the written document back.
func renderPage(t *testing.T, c *comparison.Comparison) (*Page, *goquery.Document) {
	t.Helper()
	page := NewPage("Comparison")
	render.New(page.Sinks()).Render(c)
	return page, reparse(t, page)
}

func reparse(t *testing.T, page *Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	n, err := page.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestNewPage_Skeleton(t *testing.T) {
	doc := reparse(t, NewPage("a & b"))

	assert.Equal(t, "a & b", doc.Find("title").Text())
	for _, id := range []string{LeftPanelID, RightPanelID, OverlayID, AddedWordsID, WordCountScoreID} {
		sel := doc.Find("#" + id)
		require.Equalf(t, 1, sel.Length(), "#%s", id)
		assert.Equalf(t, 0, sel.Children().Length(), "#%s", id)
	}
	assert.Contains(t, doc.Find("style").Text(), ".token.moved")
}

func TestRender_MatchedScenario(t *testing.T) {
	_, doc := renderPage(t, &comparison.Comparison{
		LeftTokens:     toks("hello"),
		RightTokens:    toks("hello"),
		Matches:        []comparison.Match{{LeftStart: 0, RightStart: 0, Length: 1}},
		AddedWords:     "0",
		WordCountScore: "1",
	})

	left := doc.Find("#" + LeftPanelID + " > span")
	require.Equal(t, 1, left.Length())
	class, _ := left.Attr("class")
	assert.Equal(t, "token matched", class)
	idx, _ := left.Attr("data-index")
	assert.Equal(t, "0", idx)
	_, hasStyle := left.Attr("style")
	assert.False(t, hasStyle)

	right := doc.Find("#" + RightPanelID + " > span")
	require.Equal(t, 1, right.Length())
	assert.True(t, right.HasClass("matched"))

	assert.Equal(t, "0", doc.Find("#"+AddedWordsID).Text())
	assert.Equal(t, "1", doc.Find("#"+WordCountScoreID).Text())
}

func TestRender_MovedAndRemoved(t *testing.T) {
	_, doc := renderPage(t, &comparison.Comparison{
		LeftTokens:  toks("hello"),
		RightTokens: toks("hello"),
		Matches:     []comparison.Match{{LeftStart: 0, RightStart: 2, Length: 1}},
	})
	assert.True(t, doc.Find("#"+LeftPanelID+" > span").HasClass("moved"))

	_, doc = renderPage(t, &comparison.Comparison{LeftTokens: toks("foo"), RightTokens: nil, Matches: nil})
	assert.True(t, doc.Find("#"+LeftPanelID+" > span").HasClass("removed"))
	assert.Equal(t, 0, doc.Find("#"+RightPanelID).Children().Length())
}

func TestRender_ExactTextAndWhitespace(t *testing.T) {
	left := toks("if", " ", "a", " < ", "b", " &&", "\n", "\t", "c")
	right := toks("if", " ", "a")
	_, doc := renderPage(t, &comparison.Comparison{
		LeftTokens:  left,
		RightTokens: right,
		Matches:     []comparison.Match{{LeftStart: 0, RightStart: 0, Length: 3}},
	})

	spans := doc.Find("#" + LeftPanelID + " > span")
	require.Equal(t, len(left), spans.Length())
	spans.Each(func(i int, s *goquery.Selection) {
		assert.Equal(t, left[i].Text, s.Text())
		idx, _ := s.Attr("data-index")
		assert.Equal(t, strconv.Itoa(i), idx)

		style, hasStyle := s.Attr("style")
		if i == 1 || i == 3 || i == 5 || i == 6 || i == 7 {
			assert.Truef(t, hasStyle, "unit %d %q", i, left[i].Text)
			assert.Equal(t, "white-space: pre", style)
		} else {
			assert.Falsef(t, hasStyle, "unit %d %q", i, left[i].Text)
		}
	})
	assert.Equal(t, "if a < b &&\n\tc", doc.Find("#"+LeftPanelID).Text())
}

func TestRender_ResetBetweenCycles(t *testing.T) {
	page := NewPage("")
	r := render.New(page.Sinks())

	r.Render(&comparison.Comparison{LeftTokens: toks("a", "b"), RightTokens: toks("c"), AddedWords: "1"})
	r.Render(&comparison.Comparison{LeftTokens: []comparison.Token{}, RightTokens: []comparison.Token{}, Matches: []comparison.Match{}})

	assert.Equal(t, 0, page.Left.Len())
	assert.Equal(t, 0, page.Right.Len())
	assert.Equal(t, 0, page.Overlay.Len())
	assert.Equal(t, "", reparse(t, page).Find("#"+AddedWordsID).Text())

	r.Reset()
	r.Reset()
	assert.Equal(t, 0, page.Left.Len())
}

func TestDrawConnectors_ClearsOverlay(t *testing.T) {
	page := NewPage("")
	page.Overlay.Node().AppendChild(&html.Node{Type: html.ElementNode, Data: "line", Namespace: "svg"})
	require.Equal(t, 1, page.Overlay.Len())

	render.New(page.Sinks()).DrawConnectors([]comparison.Match{{LeftStart: 0, RightStart: 1, Length: 1}})
	assert.Equal(t, 0, page.Overlay.Len())
}

func TestPage_Unit(t *testing.T) {
	page, _ := renderPage(t, &comparison.Comparison{
		LeftTokens:  toks("x", "y", "z"),
		RightTokens: toks("y"),
		Matches:     []comparison.Match{{LeftStart: 1, RightStart: 0, Length: 1}},
	})

	u := page.Unit(comparison.SideLeft, 1)
	require.Equal(t, 1, u.Length())
	assert.Equal(t, "y", u.Text())
	assert.True(t, u.HasClass("moved"))

	assert.True(t, page.Unit(comparison.SideRight, 0).HasClass("moved"))
	assert.Equal(t, 0, page.Unit(comparison.SideRight, 1).Length())
}

func TestContainer_SetTextReplaces(t *testing.T) {
	page := NewPage("")
	page.AddedWords.SetText("3")
	page.AddedWords.SetText("<4>")
	assert.Equal(t, 1, page.AddedWords.Len())
	assert.Equal(t, "<4>", reparse(t, page).Find("#"+AddedWordsID).Text())
}
