package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maulas/quiniela/internal/domain/model"
)

// Reduction-shape limits for doubles predictions: across the fourteen
// non-Pleno slots a member plays either doubles or triples, never both,
// and the Pleno slot stays single-sign.
const (
	MaxDoubles = 7
	MaxTriples = 4
)

// Sentinel kinds for reduction validation.
var (
	ErrMixedReduction   = errors.New("doubles and triples cannot be mixed")
	ErrTooManyDoubles   = errors.New("too many double slots")
	ErrTooManyTriples   = errors.New("too many triple slots")
	ErrMultiSignPleno   = errors.New("pleno slot must carry a single sign")
	ErrSelectionLength  = errors.New("selection must carry fifteen slots")
	ErrInvalidSignCount = errors.New("slot carries more than three signs")
)

// ValidateReduction checks the shape of a doubles selection before it may
// be persisted. This is the one hard precondition the core enforces.
func ValidateReduction(selection []string) error {
	if len(selection) != model.MatchCount {
		return fmt.Errorf("%w: got %d", ErrSelectionLength, len(selection))
	}

	doubles, triples := 0, 0
	for i := 0; i < model.PlenoIndex; i++ {
		switch n := signCount(selection[i]); n {
		case 0, 1:
		case 2:
			doubles++
		case 3:
			triples++
		default:
			return fmt.Errorf("%w: slot %d", ErrInvalidSignCount, i+1)
		}
	}

	if doubles > 0 && triples > 0 {
		return fmt.Errorf("%w: %d doubles, %d triples", ErrMixedReduction, doubles, triples)
	}
	if doubles > MaxDoubles {
		return fmt.Errorf("%w: %d > %d", ErrTooManyDoubles, doubles, MaxDoubles)
	}
	if triples > MaxTriples {
		return fmt.Errorf("%w: %d > %d", ErrTooManyTriples, triples, MaxTriples)
	}
	if signCount(selection[model.PlenoIndex]) > 1 {
		return ErrMultiSignPleno
	}
	return nil
}

// signCount counts the candidate signs in one slot. Pleno literals like
// "2-1" count as a single sign.
func signCount(slot string) int {
	s := strings.ToUpper(strings.TrimSpace(slot))
	if s == "" {
		return 0
	}
	if strings.Contains(s, "-") {
		return 1
	}
	return len(s)
}
