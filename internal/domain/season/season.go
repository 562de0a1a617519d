// Package season folds per-round evaluations into running per-member
// totals across every played round of the season.
package season

import (
	"cmp"
	"slices"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/outcome"
	"github.com/maulas/quiniela/internal/domain/prize"
	"github.com/maulas/quiniela/internal/domain/rules"
	"github.com/maulas/quiniela/internal/domain/scoring"
)

// MemberTotals is one member's season aggregate.
type MemberTotals struct {
	MemberID   int     `json:"memberId"`
	Name       string  `json:"name"`
	Points     int     `json:"points"`
	Hits       int     `json:"hits"`
	Bonus      int     `json:"bonus"`
	PrizeMoney float64 `json:"prizeMoney"`
}

// RoundSummary is one played round's evaluations, resolved outcome and
// the running cumulative points per member after the round.
type RoundSummary struct {
	RoundID    string               `json:"roundId"`
	Number     int                  `json:"number"`
	Date       string               `json:"date"`
	Evals      []outcome.MemberEval `json:"-"`
	Outcome    outcome.Result       `json:"outcome"`
	Cumulative map[int]int          `json:"cumulative"`
}

// Summary is the season-wide accumulation. Totals are in standings
// order, rounds in ascending number order.
type Summary struct {
	Totals []MemberTotals `json:"totals"`
	Rounds []RoundSummary `json:"rounds"`
}

// Accumulate folds the played rounds in strictly ascending number order
// into per-member season totals, resolving each round's outcome against
// the history accumulated so far. The fold is pure: running it twice
// over the same snapshot yields identical results.
func Accumulate(members []model.Member, rounds []model.Round, predictions []model.Prediction, history *rules.History) Summary {
	ordered := make([]model.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.Played() {
			ordered = append(ordered, r)
		}
	}
	slices.SortFunc(ordered, func(a, b model.Round) int {
		return cmp.Compare(a.Number, b.Number)
	})

	byID := make(map[string]map[int]model.Prediction)
	for _, p := range predictions {
		if byID[p.RoundID] == nil {
			byID[p.RoundID] = make(map[int]model.Prediction)
		}
		byID[p.RoundID][p.MemberID] = p
	}

	totals := make(map[int]*MemberTotals, len(members))
	for _, m := range members {
		totals[m.ID] = &MemberTotals{MemberID: m.ID, Name: m.Name}
	}
	pointHistory := outcome.History{}

	summary := Summary{Rounds: make([]RoundSummary, 0, len(ordered))}
	for _, round := range ordered {
		rs := ruleSetFor(round, history)
		results := round.Results()

		evals := make([]outcome.MemberEval, 0, len(members))
		for _, m := range members {
			p, ok := byID[round.ID][m.ID]
			ev := scoring.NotSubmitted()
			if ok {
				ev = scoring.Evaluate(p.Selection, results, rs)
			}
			evals = append(evals, outcome.MemberEval{
				MemberID:      m.ID,
				Name:          m.Name,
				Hits:          ev.Hits,
				Points:        ev.Points,
				HasSubmission: ok,
				Late:          p.Late,
				Pardoned:      p.Pardoned,
			})
		}

		resolved := outcome.Resolve(round, evals, pointHistory)

		cumulative := make(map[int]int, len(members))
		for _, e := range evals {
			t := totals[e.MemberID]
			past := 0
			if e.Hits >= 0 {
				t.Points += e.Points
				t.Hits += e.Hits
				t.Bonus += e.Points - e.Hits
				t.PrizeMoney += prize.Amount(e.Hits, round.Prizes)
				past = e.Points
			}
			cumulative[e.MemberID] = t.Points
			pointHistory[e.MemberID] = append(pointHistory[e.MemberID], past)
		}

		summary.Rounds = append(summary.Rounds, RoundSummary{
			RoundID:    round.ID,
			Number:     round.Number,
			Date:       round.Date,
			Evals:      evals,
			Outcome:    resolved,
			Cumulative: cumulative,
		})
	}

	summary.Totals = standings(totals)
	return summary
}

// standings orders totals by points, then hits, then member id so tied
// members always render in the same order.
func standings(totals map[int]*MemberTotals) []MemberTotals {
	out := make([]MemberTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b MemberTotals) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Hits, a.Hits); c != 0 {
			return c
		}
		return cmp.Compare(a.MemberID, b.MemberID)
	})
	return out
}

func ruleSetFor(round model.Round, history *rules.History) rules.Set {
	if history == nil {
		return rules.Default
	}
	if date, ok := round.ParsedDate(); ok {
		return history.ConfigFor(date)
	}
	return history.Latest()
}
