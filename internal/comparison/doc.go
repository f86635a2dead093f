// Package comparison holds a precomputed comparison between two tokenized documents and classifies each token against the set of aligned spans.
//
// Representation: A Comparison carries the left (origin) and right (destination) token sequences, a set of Matches, and two opaque summary scalars. A Match
// asserts that a contiguous run of left tokens corresponds to a contiguous run of right tokens of the same length.
//
// Invariants (assumed, not enforced; see Validate):
//   - Token.Index is the token's 0-based position in its sequence.
//   - No two matches claim the same left index, and no two claim the same right index.
//
// Classification: Classify is the reference algorithm. It scans matches in order and the first match whose span on the queried side contains the index
// wins. Equal left/right starts mean CategoryMatched, differing starts mean CategoryMoved. An uncovered left token is CategoryRemoved; an uncovered right
// token is CategoryAdded. Index precomputes the same answer for every index of one side.
//
// Nothing in this package computes tokens or matches. They come from an external diff engine, typically as JSON (see Decode).
package comparison
