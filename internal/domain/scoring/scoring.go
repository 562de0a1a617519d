// Package scoring evaluates a member's fifteen-sign prediction against
// the official results of a round.
package scoring

import (
	"strconv"
	"strings"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/rules"
)

// highMargin stands in for the "M"/"M+" goal marker on Pleno scores.
// Any concrete goal count compares below it.
const highMargin = 3

// Evaluation is the result of scoring one prediction.
type Evaluation struct {
	Hits   int `json:"hits"`
	Points int `json:"points"`
	Bonus  int `json:"bonus"`
}

// NormalizeSign maps an official result to its sign: literal scores like
// "2-1" compare home/away goals, with "M"/"M+" treated as an arbitrarily
// large winning margin; plain "1"/"X"/"2" pass through.
func NormalizeSign(result string) string {
	r := strings.ToUpper(strings.TrimSpace(result))
	if r == "1" || r == "X" || r == "2" {
		return r
	}
	if home, away, ok := splitScore(r); ok {
		switch {
		case home > away:
			return "1"
		case home < away:
			return "2"
		default:
			return "X"
		}
	}
	return r
}

func splitScore(r string) (home, away int, ok bool) {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	return goals(parts[0]), goals(parts[1]), true
}

func goals(s string) int {
	s = strings.TrimSpace(s)
	if s == "M" || s == "M+" {
		return highMargin
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Evaluate scores a selection against official results under the given
// rule set. Slots with pending results are skipped entirely. Indices
// 0..13 hit when the selection's sign string contains the normalized
// official sign (this is what makes multi-sign reduced slots work); the
// Pleno slot hits on an exact literal match or on the normalized sign.
func Evaluate(selection, officialResults []string, rs rules.Set) Evaluation {
	hits := 0
	limit := min(model.MatchCount, min(len(selection), len(officialResults)))

	for i := 0; i < limit; i++ {
		result := officialResults[i]
		if model.ResultPending(result) {
			continue
		}
		pred := strings.ToUpper(strings.TrimSpace(selection[i]))
		if pred == "" {
			continue
		}

		if i == model.PlenoIndex {
			literal := strings.ToUpper(strings.TrimSpace(result))
			if literal == pred || NormalizeSign(result) == pred {
				hits++
			}
			continue
		}

		if strings.Contains(pred, NormalizeSign(result)) {
			hits++
		}
	}

	points := Score(hits, rs)
	return Evaluation{Hits: hits, Points: points, Bonus: points - hits}
}

// NotSubmitted is the evaluation for a member without a prediction.
func NotSubmitted() Evaluation {
	return Evaluation{Hits: model.NotSubmittedHits}
}

// Score maps a hit count to points: hits plus the rule-table adjustment.
// The "not submitted" sentinel (negative hits) short-circuits to zero
// without consulting the table.
func Score(hits int, rs rules.Set) int {
	if hits < 0 {
		return 0
	}
	return hits + Bonus(hits, rs)
}

// Bonus is the rule-table adjustment for a hit count. Hit counts outside
// the tiers {0,1,2,3,10,11,12,13,14,15} contribute zero.
func Bonus(hits int, rs rules.Set) int {
	switch {
	case hits >= 15:
		return rs.Bonus15
	case hits == 14:
		return rs.Bonus14
	case hits == 13:
		return rs.Bonus13
	case hits == 12:
		return rs.Bonus12
	case hits == 11:
		return rs.Bonus11
	case hits == 10:
		return rs.Bonus10
	case hits == 3:
		return rs.Penalty3
	case hits == 2:
		return rs.Penalty2
	case hits == 1:
		return rs.Penalty1
	case hits == 0:
		return rs.Penalty0
	default:
		return 0
	}
}
