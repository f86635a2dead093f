package comparison

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid comparison")

var (
	validateOnce    sync.Once
	structValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValidator
}

// Validate checks the invariants renderers assume but never check themselves:
//   - match starts are non-negative and lengths are positive
//   - every span lies within its side's token sequence
//   - spans on one side do not overlap
//   - each Token.Index equals its position
//
// All violations are reported, joined, and wrapped in ErrInvalid. A nil return means classification is independent of match order.
func Validate(c *Comparison) error {
	var errs []error

	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: must be %s %s, got %v", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		}
	}

	for _, side := range []Side{SideLeft, SideRight} {
		toks := c.Tokens(side)
		for i, t := range toks {
			if t.Index != i {
				errs = append(errs, fmt.Errorf("%s token at position %d has index %d", side, i, t.Index))
			}
		}

		owner := make([]int, len(toks)) // 1-based match number claiming each index; 0 is unclaimed
		for mi, m := range c.Matches {
			start := m.Start(side)
			if start < 0 || m.Length <= 0 {
				continue // reported by the struct tags
			}
			// Compared without adding start and Length, which may overflow.
			if m.Length > len(toks)-start {
				errs = append(errs, fmt.Errorf("match[%d]: %s span [%d, %d+%d) exceeds %d tokens", mi, side, start, start, m.Length, len(toks)))
				continue
			}
			end := start + m.Length
			for i := start; i < end; i++ {
				if owner[i] != 0 {
					errs = append(errs, fmt.Errorf("match[%d]: %s span overlaps match[%d] at index %d", mi, side, owner[i]-1, i))
					break
				}
				owner[i] = mi + 1
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
