package render

import (
	"strings"

	"github.com/codalotl/diffpanels/internal/comparison"
)

// Unit is the visual unit produced for one token.
type Unit struct {
	Text               string              // exact token text
	Index              int                 // token index, published for lookup by interactive features
	Category           comparison.Category // exactly one style marker
	PreserveWhitespace bool                // display Text without collapsing whitespace
}

// Panel is a container of units for one document.
type Panel interface {
	// Clear removes every unit. Clearing an empty panel is a no-op.
	Clear()

	// Append adds u after all units appended since the last Clear.
	Append(u Unit)
}

// Overlay is the layer connectors between the panels are drawn on.
type Overlay interface {
	// Clear removes every connector. Clearing an empty overlay is a no-op.
	Clear()
}

// TextTarget displays a single text value.
type TextTarget interface {
	SetText(s string)
}

// needsPreserve reports whether text holds a character a display would otherwise collapse.
func needsPreserve(text string) bool {
	return strings.ContainsAny(text, " \n\t")
}

// NewUnit builds the unit for the token text at index with category cat.
func NewUnit(text string, index int, cat comparison.Category) Unit {
	return Unit{
		Text:               text,
		Index:              index,
		Category:           cat,
		PreserveWhitespace: needsPreserve(text),
	}
}
