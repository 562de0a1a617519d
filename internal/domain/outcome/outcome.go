// Package outcome resolves a played round into its winner, loser, prize
// winners and the doubles-eligible set for the following round.
package outcome

import (
	"cmp"
	"slices"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/prize"
)

// MemberEval is one member's evaluated standing in the round being
// resolved.
type MemberEval struct {
	MemberID      int
	Name          string
	Hits          int
	Points        int
	HasSubmission bool
	Late          bool
	Pardoned      bool
}

// History holds each member's points across the rounds preceding the
// one being resolved, oldest first. Slots are index-aligned across
// members; a member missing an entry counts as zero points for that
// round.
type History map[int][]int

// Result is the resolved outcome of one round.
type Result struct {
	WinnerID        int   `json:"winnerId"`
	LoserID         int   `json:"loserId"`
	PrizeWinners    []int `json:"prizeWinners"`
	DoublesEligible []int `json:"doublesEligible"`
}

type goal int

const (
	goalMax goal = iota
	goalMin
)

// Resolve computes the round's outcome from the already-evaluated
// member standings. It is a pure function: all stateful inputs arrive
// as arguments.
func Resolve(round model.Round, evals []MemberEval, history History) Result {
	submitted := make([]MemberEval, 0, len(evals))
	for _, e := range evals {
		if e.HasSubmission {
			submitted = append(submitted, e)
		}
	}
	if len(submitted) == 0 {
		return Result{}
	}

	winnerID := pickOne(extremeBy(submitted, goalMax), history, goalMax)
	loserID := pickOne(loserPool(round, evals, submitted), history, goalMin)

	prizeWinners := make([]int, 0)
	for _, e := range submitted {
		if prize.Wins(e.Hits, round.Prizes) {
			prizeWinners = append(prizeWinners, e.MemberID)
		}
	}
	slices.Sort(prizeWinners)

	return Result{
		WinnerID:        winnerID,
		LoserID:         loserID,
		PrizeWinners:    prizeWinners,
		DoublesEligible: doublesEligible(winnerID, prizeWinners, evals),
	}
}

// loserPool selects the loser candidates. Offenders, members with no
// submission or a late unpardoned one below the prize threshold, bypass
// the points-based selection entirely.
func loserPool(round model.Round, evals, submitted []MemberEval) []MemberEval {
	threshold := round.PrizeThreshold()
	var offenders []MemberEval
	for _, e := range evals {
		if !e.HasSubmission || (e.Late && !e.Pardoned && e.Hits < threshold) {
			offenders = append(offenders, e)
		}
	}
	if len(offenders) > 0 {
		return offenders
	}
	return extremeBy(submitted, goalMin)
}

// extremeBy keeps the members whose points match the goal extreme.
func extremeBy(evals []MemberEval, g goal) []MemberEval {
	target := evals[0].Points
	for _, e := range evals[1:] {
		if (g == goalMax && e.Points > target) || (g == goalMin && e.Points < target) {
			target = e.Points
		}
	}
	var out []MemberEval
	for _, e := range evals {
		if e.Points == target {
			out = append(out, e)
		}
	}
	return out
}

// pickOne narrows tied candidates by walking backward through their
// point history one round at a time, keeping those at the extreme each
// step. When history runs out the lowest member id wins a winner tie
// and the highest loses a loser tie.
func pickOne(candidates []MemberEval, history History, g goal) int {
	ids := make([]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.MemberID
	}
	if len(ids) == 1 {
		return ids[0]
	}

	depth := 0
	for _, id := range ids {
		if n := len(history[id]); n > depth {
			depth = n
		}
	}
	for i := depth - 1; i >= 0 && len(ids) > 1; i-- {
		target := pointsAt(history, ids[0], i)
		for _, id := range ids[1:] {
			p := pointsAt(history, id, i)
			if (g == goalMax && p > target) || (g == goalMin && p < target) {
				target = p
			}
		}
		survivors := ids[:0]
		for _, id := range ids {
			if pointsAt(history, id, i) == target {
				survivors = append(survivors, id)
			}
		}
		ids = survivors
	}

	if g == goalMax {
		return slices.Min(ids)
	}
	return slices.Max(ids)
}

func pointsAt(history History, id, i int) int {
	h := history[id]
	if i >= len(h) {
		return 0
	}
	return h[i]
}

// doublesEligible is the winner plus every prize winner, deduplicated
// and ordered by member name for display.
func doublesEligible(winnerID int, prizeWinners []int, evals []MemberEval) []int {
	names := make(map[int]string, len(evals))
	for _, e := range evals {
		names[e.MemberID] = e.Name
	}

	seen := map[int]bool{winnerID: true}
	out := []int{winnerID}
	for _, id := range prizeWinners {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	slices.SortFunc(out, func(a, b int) int {
		if c := cmp.Compare(names[a], names[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}
