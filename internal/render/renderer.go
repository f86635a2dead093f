package render

import (
	"github.com/codalotl/diffpanels/internal/comparison"
	"github.com/codalotl/diffpanels/internal/simplelogger"
)

// Sinks are the display targets a Renderer writes to. All fields are required.
type Sinks struct {
	Left           Panel
	Right          Panel
	Overlay        Overlay
	AddedWords     TextTarget
	WordCountScore TextTarget
}

// Renderer draws comparisons onto a fixed set of sinks.
type Renderer struct {
	sinks Sinks
}

// New returns a Renderer writing to sinks. It panics if any sink is nil.
func New(sinks Sinks) *Renderer {
	if sinks.Left == nil || sinks.Right == nil || sinks.Overlay == nil || sinks.AddedWords == nil || sinks.WordCountScore == nil {
		panic("render: New called with a nil sink")
	}
	return &Renderer{sinks: sinks}
}

// Render runs a full cycle for c: reset, both panels, the summary, and connectors.
func (r *Renderer) Render(c *comparison.Comparison) {
	r.Reset()
	r.RenderLeft(c)
	r.RenderRight(c)
	r.UpdateSummary(c)
	r.DrawConnectors(c.Matches)
	simplelogger.Log("render: %d left units, %d right units, %d matches", len(c.LeftTokens), len(c.RightTokens), len(c.Matches))
}

// Reset clears both panels and the overlay. It is idempotent.
func (r *Renderer) Reset() {
	r.sinks.Left.Clear()
	r.sinks.Right.Clear()
	r.sinks.Overlay.Clear()
}

// RenderLeft appends one unit per left token to the left panel. Uncovered tokens are CategoryRemoved. The panel is assumed to be empty (see Reset).
func (r *Renderer) RenderLeft(c *comparison.Comparison) {
	renderSide(r.sinks.Left, comparison.SideLeft, c)
}

// RenderRight appends one unit per right token to the right panel. Uncovered tokens are CategoryAdded. The panel is assumed to be empty (see Reset).
func (r *Renderer) RenderRight(c *comparison.Comparison) {
	renderSide(r.sinks.Right, comparison.SideRight, c)
}

// UpdateSummary writes c's summary scalars, verbatim, to their targets.
func (r *Renderer) UpdateSummary(c *comparison.Comparison) {
	r.sinks.AddedWords.SetText(c.AddedWords.String())
	r.sinks.WordCountScore.SetText(c.WordCountScore.String())
}

// DrawConnectors clears any connectors on the overlay. Connectors between matched spans are not drawn yet; matches is accepted so that drawing them does
// not change callers.
//
// TODO: draw one connector per match once panels expose unit geometry.
func (r *Renderer) DrawConnectors(matches []comparison.Match) {
	r.sinks.Overlay.Clear()
}

// renderSide is the one routine both panels are rendered with: side only selects the token sequence and the category of uncovered tokens.
func renderSide(p Panel, side comparison.Side, c *comparison.Comparison) {
	toks := c.Tokens(side)
	idx := comparison.NewIndex(side, len(toks), c.Matches)
	for i, tok := range toks {
		p.Append(NewUnit(tok.Text, i, idx.Category(i)))
	}
}
