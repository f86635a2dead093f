package comparison

// Tally counts tokens per category on each side.
type Tally struct {
	Left  map[Category]int
	Right map[Category]int
}

// Count returns the number of tokens of cat on side.
func (t Tally) Count(side Side, cat Category) int {
	if side == SideLeft {
		return t.Left[cat]
	}
	return t.Right[cat]
}

// Total returns the number of tokens on side.
func (t Tally) Total(side Side) int {
	m := t.Left
	if side == SideRight {
		m = t.Right
	}
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// TallyOf classifies every token of c and counts the results.
func TallyOf(c *Comparison) Tally {
	t := Tally{
		Left:  make(map[Category]int),
		Right: make(map[Category]int),
	}
	for _, side := range []Side{SideLeft, SideRight} {
		m := t.Left
		if side == SideRight {
			m = t.Right
		}
		n := len(c.Tokens(side))
		idx := NewIndex(side, n, c.Matches)
		for i := 0; i < n; i++ {
			m[idx.Category(i)]++
		}
	}
	return t
}
