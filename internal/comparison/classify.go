package comparison

// unmatched returns the category of a token on side that no match covers.
func unmatched(side Side) Category {
	if side == SideLeft {
		return CategoryRemoved
	}
	return CategoryAdded
}

func categoryOf(m Match) Category {
	if m.Moved() {
		return CategoryMoved
	}
	return CategoryMatched
}

// Classify returns the category of the token at index on side.
//
// matches are scanned in order and the first one whose span on side contains index decides: CategoryMoved if its left and right starts differ, CategoryMatched
// if they are equal. If none contains index, the token is CategoryRemoved (left) or CategoryAdded (right).
//
// Overlapping spans on one side are not detected; the earliest in matches wins.
func Classify(index int, side Side, matches []Match) Category {
	for _, m := range matches {
		if m.Contains(side, index) {
			return categoryOf(m)
		}
	}
	return unmatched(side)
}

// Index is a per-side lookup table equivalent to calling Classify for each index in [0, Len()).
type Index struct {
	side       Side
	categories []Category
}

// NewIndex builds an Index for the n tokens of side. For every i in [0, n), idx.Category(i) == Classify(i, side, matches).
//
// Parts of spans outside [0, n) are ignored.
func NewIndex(side Side, n int, matches []Match) *Index {
	if n < 0 {
		n = 0
	}
	cats := make([]Category, n)
	for _, m := range matches {
		start := m.Start(side)
		end := n
		if start < 0 || m.Length < n-start {
			end = start + m.Length
		}
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		cat := categoryOf(m)
		for i := start; i < end; i++ {
			if cats[i] == "" { // first match in scan order wins
				cats[i] = cat
			}
		}
	}
	def := unmatched(side)
	for i := range cats {
		if cats[i] == "" {
			cats[i] = def
		}
	}
	return &Index{side: side, categories: cats}
}

// Side returns the side idx was built for.
func (idx *Index) Side() Side {
	return idx.side
}

// Len is the number of indices idx covers.
func (idx *Index) Len() int {
	return len(idx.categories)
}

// Category returns the category at i. Indices outside [0, Len()) get the unmatched category of idx's side.
func (idx *Index) Category(i int) Category {
	if i < 0 || i >= len(idx.categories) {
		return unmatched(idx.side)
	}
	return idx.categories[i]
}
