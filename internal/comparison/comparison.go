package comparison

// Side selects one of the two documents.
type Side int

const (
	SideLeft  Side = iota // origin document
	SideRight             // destination document
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Category is the classification of one token. Its value doubles as the style marker a view applies to the token's unit.
type Category string

const (
	CategoryMatched Category = "matched" // inside a match whose left and right starts are equal
	CategoryMoved   Category = "moved"   // inside a match whose left and right starts differ
	CategoryRemoved Category = "removed" // left token covered by no match
	CategoryAdded   Category = "added"   // right token covered by no match
)

// Categories lists every category in display order.
var Categories = []Category{CategoryMatched, CategoryMoved, CategoryRemoved, CategoryAdded}

// Token is an atomic unit of one document's text.
type Token struct {
	Text  string // Exact source substring, including any whitespace. Rendered byte-for-byte.
	Index int    // 0-based position within its document's token sequence.
	Start int    // Character offset of Text in the source document, if the producer supplied one; otherwise 0.
}

// Match asserts that left tokens [LeftStart, LeftStart+Length) correspond to right tokens [RightStart, RightStart+Length).
type Match struct {
	LeftStart  int `json:"left_start" validate:"gte=0"`
	RightStart int `json:"right_start" validate:"gte=0"`
	Length     int `json:"length" validate:"gte=1"`
}

// Start returns the match's start on side.
func (m Match) Start(side Side) int {
	if side == SideLeft {
		return m.LeftStart
	}
	return m.RightStart
}

// Contains reports whether index falls inside m's span on side.
func (m Match) Contains(side Side, index int) bool {
	start := m.Start(side)
	if m.Length <= 0 || index < start {
		return false
	}
	if start >= 0 {
		return index-start < m.Length
	}
	return index < start+m.Length
}

// Moved reports whether the span shifted position between the two documents.
func (m Match) Moved() bool {
	return m.LeftStart != m.RightStart
}

// Comparison is the complete externally-computed result. It is treated as read-only by everything in this module.
type Comparison struct {
	LeftTokens     []Token `validate:"dive"`
	RightTokens    []Token `validate:"dive"`
	Matches        []Match `validate:"dive"`
	AddedWords     Scalar  // displayed verbatim, never derived
	WordCountScore Scalar  // displayed verbatim, never derived
}

// Tokens returns the token sequence of side.
func (c *Comparison) Tokens(side Side) []Token {
	if side == SideLeft {
		return c.LeftTokens
	}
	return c.RightTokens
}

// Text returns the concatenation of side's token texts. For a faithful tokenization, this is the original document.
func (c *Comparison) Text(side Side) string {
	toks := c.Tokens(side)
	n := 0
	for _, t := range toks {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range toks {
		b = append(b, t.Text...)
	}
	return string(b)
}
