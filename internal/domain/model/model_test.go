package model_test

import (
	"testing"
	"time"

	"github.com/maulas/quiniela/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func round(number int, results ...string) model.Round {
	matches := make([]model.Match, model.MatchCount)
	for i := range matches {
		matches[i] = model.Match{Home: "Home", Away: "Away"}
		if i < len(results) {
			matches[i].Result = results[i]
		}
	}
	return model.Round{ID: "j1", Number: number, Matches: matches}
}

func TestRoundPlayed(t *testing.T) {
	Convey("Given a round with all fifteen results", t, func() {
		r := round(1,
			"1", "X", "2", "1", "1", "X", "2", "1", "1", "X", "2", "1", "1", "X", "2-1")

		Convey("Then it is played", func() {
			So(r.Played(), ShouldBeTrue)
		})

		Convey("When one result is still pending", func() {
			r.Matches[7].Result = ""
			So(r.Played(), ShouldBeFalse)
		})

		Convey("When one result carries the pending sentinel", func() {
			r.Matches[3].Result = "Por definir"
			So(r.Played(), ShouldBeFalse)
		})
	})

	Convey("Given a round with fewer than fifteen matches", t, func() {
		r := model.Round{Matches: []model.Match{{Result: "1"}}}
		So(r.Played(), ShouldBeFalse)
	})
}

func TestPrizeThreshold(t *testing.T) {
	Convey("Given rounds with and without an explicit threshold", t, func() {
		So(model.Round{MinHitsToWin: 11}.PrizeThreshold(), ShouldEqual, 11)
		So(model.Round{}.PrizeThreshold(), ShouldEqual, model.DefaultMinHitsToWin)
	})
}

func TestPredictionID(t *testing.T) {
	Convey("Given a round and member", t, func() {
		So(model.PredictionID("j12", 7), ShouldEqual, "j12_7")
	})
}

func TestParseDate(t *testing.T) {
	Convey("Given numeric date strings", t, func() {
		d, ok := model.ParseDate("24/08/2025")
		So(ok, ShouldBeTrue)
		So(d, ShouldEqual, time.Date(2025, time.August, 24, 0, 0, 0, 0, time.UTC))

		d, ok = model.ParseDate("3-1-2026")
		So(ok, ShouldBeTrue)
		So(d, ShouldEqual, time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC))
	})

	Convey("Given Spanish text dates", t, func() {
		d, ok := model.ParseDate("24 de agosto de 2025")
		So(ok, ShouldBeTrue)
		So(d, ShouldEqual, time.Date(2025, time.August, 24, 0, 0, 0, 0, time.UTC))

		d, ok = model.ParseDate("1 febrero 2026 (domingo)")
		So(ok, ShouldBeTrue)
		So(d, ShouldEqual, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	})

	Convey("Given malformed or pending dates", t, func() {
		_, ok := model.ParseDate("")
		So(ok, ShouldBeFalse)
		_, ok = model.ParseDate("Por definir")
		So(ok, ShouldBeFalse)
		_, ok = model.ParseDate("sometime soon")
		So(ok, ShouldBeFalse)
		_, ok = model.ParseDate("99/99/2025")
		So(ok, ShouldBeFalse)
	})
}

func TestResultPending(t *testing.T) {
	Convey("Given result strings", t, func() {
		So(model.ResultPending(""), ShouldBeTrue)
		So(model.ResultPending(" - "), ShouldBeTrue)
		So(model.ResultPending("por definir"), ShouldBeTrue)
		So(model.ResultPending("1"), ShouldBeFalse)
		So(model.ResultPending("2-1"), ShouldBeFalse)
	})
}
