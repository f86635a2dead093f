// Package htmlview renders comparisons as an HTML page with two side-by-side panels.
//
// The page mirrors a DOM: each sink is a Container wrapping an element node, and each unit is a <span class="token CATEGORY" data-index="N">. Units
// whose text holds a space, tab or newline also get style="white-space: pre" so browsers do not collapse it.
package htmlview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/render"
)

// Element ids of the page's sinks.
const (
	LeftPanelID      = "left-panel"
	RightPanelID     = "right-panel"
	OverlayID        = "arrows"
	AddedWordsID     = "added-words"
	WordCountScoreID = "word-count-score"
)

const stylesheet = `
body { font-family: sans-serif; margin: 1em; }
.stats { margin-bottom: 1em; }
.stat { margin-right: 2em; }
.comparison { display: flex; position: relative; gap: 2em; }
.panel { flex: 1; font-family: monospace; border: 1px solid #ccc; padding: 0.5em; overflow-wrap: anywhere; }
#arrows { position: absolute; inset: 0; width: 100%; height: 100%; pointer-events: none; }
.token.matched { }
.token.moved { background: #fff3bf; }
.token.removed { background: #ffd6d6; text-decoration: line-through; }
.token.added { background: #d3f9d8; }
`

const skeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title></title>
<style></style>
</head>
<body>
<div class="stats">
<span class="stat">Added words: <span id="` + AddedWordsID + `"></span></span>
<span class="stat">Word count score: <span id="` + WordCountScoreID + `"></span></span>
</div>
<div class="comparison">
<div id="` + LeftPanelID + `" class="panel"></div>
<svg id="` + OverlayID + `"></svg>
<div id="` + RightPanelID + `" class="panel"></div>
</div>
</body>
</html>
`

// Container is an element node used as a sink. It implements render.Panel, render.Overlay and render.TextTarget.
type Container struct {
	node *html.Node
}

var (
	_ render.Panel      = (*Container)(nil)
	_ render.Overlay    = (*Container)(nil)
	_ render.TextTarget = (*Container)(nil)
)

// NewContainer wraps n, which must be an element node.
func NewContainer(n *html.Node) *Container {
	if n == nil || n.Type != html.ElementNode {
		panic("htmlview: NewContainer requires an element node")
	}
	return &Container{node: n}
}

// Node returns the wrapped element.
func (c *Container) Node() *html.Node {
	return c.node
}

// Clear removes all of c's children.
func (c *Container) Clear() {
	for c.node.FirstChild != nil {
		c.node.RemoveChild(c.node.FirstChild)
	}
}

// Append adds a span for u as c's last child.
func (c *Container) Append(u render.Unit) {
	c.node.AppendChild(unitNode(u))
}

// SetText replaces c's children with one text node holding s.
func (c *Container) SetText(s string) {
	c.Clear()
	c.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// Len returns the number of child nodes of c.
func (c *Container) Len() int {
	n := 0
	for ch := c.node.FirstChild; ch != nil; ch = ch.NextSibling {
		n++
	}
	return n
}

func unitNode(u render.Unit) *html.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Span.String(),
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: "token " + string(u.Category)},
			{Key: "data-index", Val: strconv.Itoa(u.Index)},
		},
	}
	if u.PreserveWhitespace {
		span.Attr = append(span.Attr, html.Attribute{Key: "style", Val: "white-space: pre"})
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: u.Text})
	return span
}

// Page is a complete HTML document holding the five sinks of a render.Renderer.
type Page struct {
	doc *goquery.Document

	Left           *Container
	Right          *Container
	Overlay        *Container
	AddedWords     *Container
	WordCountScore *Container
}

// NewPage returns an empty page titled title.
func NewPage(title string) *Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(skeleton))
	if err != nil {
		panic(fmt.Sprintf("htmlview: parse skeleton: %v", err)) // skeleton is a constant
	}
	doc.Find("title").SetText(title)
	doc.Find("style").SetText(stylesheet)

	byID := func(id string) *Container {
		return NewContainer(doc.Find("#" + id).Get(0))
	}
	return &Page{
		doc:            doc,
		Left:           byID(LeftPanelID),
		Right:          byID(RightPanelID),
		Overlay:        byID(OverlayID),
		AddedWords:     byID(AddedWordsID),
		WordCountScore: byID(WordCountScoreID),
	}
}

// Sinks returns p's containers for use with render.New.
func (p *Page) Sinks() render.Sinks {
	return render.Sinks{
		Left:           p.Left,
		Right:          p.Right,
		Overlay:        p.Overlay,
		AddedWords:     p.AddedWords,
		WordCountScore: p.WordCountScore,
	}
}

// Panel returns the container of side.
func (p *Page) Panel(side comparison.Side) *Container {
	if side == comparison.SideLeft {
		return p.Left
	}
	return p.Right
}

// Unit returns the unit rendered for token index on side. The selection is empty if there is none.
func (p *Page) Unit(side comparison.Side, index int) *goquery.Selection {
	panel := p.doc.FindNodes(p.Panel(side).Node())
	return panel.ChildrenFiltered(fmt.Sprintf(`span.token[data-index="%d"]`, index))
}

// WriteTo writes p as an HTML document.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := html.Render(cw, p.doc.Get(0))
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
