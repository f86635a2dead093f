package comparison

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Scalar is a summary value carried verbatim from the producer. It holds the text a display shows for the value: JSON strings unquoted, numbers and
// booleans as their literal text, and null as "".
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("comparison: summary value must be a scalar, got %s", data)
	default:
		*s = Scalar(data)
	}
	return nil
}

// MarshalJSON writes numeric and boolean values as JSON literals and everything else as a JSON string.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s == "true" || s == "false" {
		return []byte(s), nil
	}
	if _, err := strconv.ParseFloat(string(s), 64); err == nil && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s Scalar) String() string {
	return string(s)
}

type wireToken struct {
	Text  string `json:"text"`
	Index *int   `json:"index,omitempty"`
	Start int    `json:"start"`
}

type wireComparison struct {
	AddedWords     Scalar      `json:"added_words"`
	WordCountScore Scalar      `json:"word_count_score"`
	LeftTokens     []wireToken `json:"left_tokens"`
	RightTokens    []wireToken `json:"right_tokens"`
	Matches        []Match     `json:"matches"`
}

// Decode reads one JSON comparison from r.
//
// Tokens may omit "index"; Decode always sets Token.Index to the token's position in its sequence, so a producer-supplied index is only checked by Validate
// via DecodeStrict. "start" is kept as Token.Start. Unknown fields are ignored.
func Decode(r io.Reader) (*Comparison, error) {
	c, _, err := decode(r)
	return c, err
}

// DecodeStrict is like Decode, but also reports producer-supplied indices that disagree with token positions, wrapped in ErrInvalid.
func DecodeStrict(r io.Reader) (*Comparison, error) {
	c, mismatches, err := decode(r)
	if err != nil {
		return nil, err
	}
	if len(mismatches) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, mismatches[0])
	}
	return c, nil
}

func decode(r io.Reader) (*Comparison, []string, error) {
	var w wireComparison
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, nil, fmt.Errorf("decode comparison: %w", err)
	}

	var mismatches []string
	convert := func(side Side, in []wireToken) []Token {
		out := make([]Token, len(in))
		for i, wt := range in {
			if wt.Index != nil && *wt.Index != i {
				mismatches = append(mismatches, fmt.Sprintf("%s token at position %d has index %d", side, i, *wt.Index))
			}
			out[i] = Token{Text: wt.Text, Index: i, Start: wt.Start}
		}
		return out
	}

	c := &Comparison{
		LeftTokens:     convert(SideLeft, w.LeftTokens),
		RightTokens:    convert(SideRight, w.RightTokens),
		Matches:        w.Matches,
		AddedWords:     w.AddedWords,
		WordCountScore: w.WordCountScore,
	}
	if c.Matches == nil {
		c.Matches = []Match{}
	}
	return c, mismatches, nil
}

// Encode writes c in the same JSON shape Decode reads.
func Encode(w io.Writer, c *Comparison) error {
	wc := wireComparison{
		AddedWords:     c.AddedWords,
		WordCountScore: c.WordCountScore,
		LeftTokens:     make([]wireToken, len(c.LeftTokens)),
		RightTokens:    make([]wireToken, len(c.RightTokens)),
		Matches:        c.Matches,
	}
	for i, t := range c.LeftTokens {
		idx := t.Index
		wc.LeftTokens[i] = wireToken{Text: t.Text, Index: &idx, Start: t.Start}
	}
	for i, t := range c.RightTokens {
		idx := t.Index
		wc.RightTokens[i] = wireToken{Text: t.Text, Index: &idx, Start: t.Start}
	}
	if wc.Matches == nil {
		wc.Matches = []Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wc)
}
