package outcome_test

import (
	"testing"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/outcome"
	"github.com/maulas/quiniela/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	round := model.Round{
		ID: "j5", Number: 5,
		Prizes: map[string]any{"13": 10.0, "14": 25.0, "15": 100.0},
	}

	Convey("Given a round with a clear winner and loser", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 1, Name: "Carlos", Hits: 13, Points: 23, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 8, Points: 8, HasSubmission: true},
			{MemberID: 3, Name: "Berta", Hits: 2, Points: 0, HasSubmission: true},
		}

		result := outcome.Resolve(round, evals, nil)

		Convey("Then points decide both ends", func() {
			So(result.WinnerID, ShouldEqual, 1)
			So(result.LoserID, ShouldEqual, 3)
		})

		Convey("Then prize winners follow the round table", func() {
			So(result.PrizeWinners, ShouldResemble, []int{1})
		})

		Convey("Then the doubles set is winner plus prize winners, name ordered", func() {
			So(result.DoublesEligible, ShouldResemble, []int{1})
		})
	})

	Convey("Given tied points and diverging history", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 1, Name: "Carlos", Hits: 11, Points: 13, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 11, Points: 13, HasSubmission: true},
			{MemberID: 3, Name: "Berta", Hits: 5, Points: 5, HasSubmission: true},
		}
		history := outcome.History{
			1: {8, 12},
			2: {8, 9},
		}

		result := outcome.Resolve(round, evals, history)

		Convey("Then the nearest prior round breaks the tie", func() {
			So(result.WinnerID, ShouldEqual, 1)
		})
	})

	Convey("Given tied points and identical history", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 4, Name: "Dani", Hits: 11, Points: 13, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 11, Points: 13, HasSubmission: true},
		}

		Convey("Then the lowest id wins the winner tie", func() {
			result := outcome.Resolve(round, evals, outcome.History{4: {7}, 2: {7}})
			So(result.WinnerID, ShouldEqual, 2)
		})

		Convey("Then the highest id loses the loser tie", func() {
			result := outcome.Resolve(round, evals, nil)
			So(result.LoserID, ShouldEqual, 4)
		})
	})

	Convey("Given an offender in the round", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 1, Name: "Carlos", Hits: 13, Points: 23, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 3, Points: 2, HasSubmission: true},
			{MemberID: 3, Name: "Berta", HasSubmission: false},
		}

		result := outcome.Resolve(round, evals, nil)

		Convey("Then the offender loses regardless of points", func() {
			So(result.LoserID, ShouldEqual, 3)
		})
	})
}

func TestResolveLateOffender(t *testing.T) {
	round := model.Round{ID: "j5", Number: 5, MinHitsToWin: 10}

	Convey("Given a late unpardoned member below the threshold", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 1, Name: "Carlos", Hits: 12, Points: 17, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 6, Points: 6, HasSubmission: true, Late: true},
		}
		result := outcome.Resolve(round, evals, nil)
		So(result.LoserID, ShouldEqual, 2)
	})

	Convey("Given a late but pardoned member", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 1, Name: "Carlos", Hits: 12, Points: 17, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 6, Points: 6, HasSubmission: true, Late: true, Pardoned: true},
		}
		result := outcome.Resolve(round, evals, nil)

		Convey("Then points decide the loser as usual", func() {
			So(result.LoserID, ShouldEqual, 2)
		})
	})
}

func TestDoublesEligibleOrdering(t *testing.T) {
	round := model.Round{
		ID: "j3", Number: 3,
		Prizes: map[string]any{"12": "5,00 €", "13": 10.0},
	}

	Convey("Given several prize winners plus a distinct round winner", t, func() {
		evals := []outcome.MemberEval{
			{MemberID: 7, Name: "Zoe", Hits: 13, Points: 23, HasSubmission: true},
			{MemberID: 1, Name: "Carlos", Hits: 12, Points: 17, HasSubmission: true},
			{MemberID: 2, Name: "Ana", Hits: 12, Points: 17, HasSubmission: true},
		}

		result := outcome.Resolve(round, evals, nil)

		Convey("Then the set is deduplicated and alphabetical by name", func() {
			So(result.PrizeWinners, ShouldResemble, []int{1, 2, 7})
			So(result.DoublesEligible, ShouldResemble, []int{2, 1, 7})
		})
	})
}

func TestIsEligible(t *testing.T) {
	sel := func(sign string) []string {
		s := make([]string, 15)
		for i := range s {
			s[i] = sign
		}
		return s
	}
	members := []model.Member{
		{ID: 1, Name: "Carlos"},
		{ID: 2, Name: "Ana"},
		{ID: 3, Name: "Berta"},
	}
	rounds := []model.Round{
		{ID: "j1", Number: 1, Matches: matches(sel("1")), MinHitsToWin: 10},
		{ID: "j2", Number: 2, MinHitsToWin: 10},
	}
	predictions := []model.Prediction{
		{ID: "j1_1", RoundID: "j1", MemberID: 1, Selection: sel("1")},
		{ID: "j1_2", RoundID: "j1", MemberID: 2, Selection: withHits(sel("1"), 11)},
		{ID: "j1_3", RoundID: "j1", MemberID: 3, Selection: sel("2")},
	}
	resolver := outcome.NewEligibilityResolver(members, rounds, predictions, rules.NewHistory())

	Convey("Given the season snapshot", t, func() {
		Convey("Then round one is never eligible", func() {
			So(resolver.IsEligible(1, 1).Eligible, ShouldBeFalse)
		})

		Convey("Then the previous round's winner is eligible", func() {
			e := resolver.IsEligible(2, 1)
			So(e.Eligible, ShouldBeTrue)
			So(e.Reason, ShouldEqual, outcome.ReasonWinner)
		})

		Convey("Then a prize-threshold member is eligible with the prize reason", func() {
			e := resolver.IsEligible(2, 2)
			So(e.Eligible, ShouldBeTrue)
			So(e.Reason, ShouldEqual, outcome.ReasonPrize)
		})

		Convey("Then a low scorer is not eligible", func() {
			So(resolver.IsEligible(2, 3).Eligible, ShouldBeFalse)
		})

		Convey("Then a round whose literal predecessor number is missing is not eligible", func() {
			So(resolver.IsEligible(4, 1).Eligible, ShouldBeFalse)
		})
	})
}

// withHits flips the tail of an all-correct selection until only n slots
// still match an all-"1" official board.
func withHits(s []string, n int) []string {
	out := make([]string, len(s))
	copy(out, s)
	for i := len(out) - 1; i >= n; i-- {
		out[i] = "2"
	}
	return out
}

func matches(results []string) []model.Match {
	out := make([]model.Match, len(results))
	for i, r := range results {
		out[i] = model.Match{Result: r}
	}
	return out
}
