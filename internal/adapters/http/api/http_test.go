package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maulas/quiniela/internal/adapters/http/api"
	service "github.com/maulas/quiniela/internal/app"
	"github.com/maulas/quiniela/internal/domain/ledger"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/outcome"
	"github.com/maulas/quiniela/internal/domain/prize"
	"github.com/maulas/quiniela/internal/domain/scoring"
	"github.com/maulas/quiniela/internal/domain/season"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps implements api.Dependencies with canned answers.
type stubDeps struct {
	standings   []season.MemberTotals
	rounds      []service.RoundInfo
	outcome     outcome.Result
	outcomeErr  error
	eligibility outcome.Eligibility
	submitted   []string
	doublesErr  error
	lines       []ledger.Line
	reloads     int
}

func (d *stubDeps) Standings(_ context.Context, limit int) ([]season.MemberTotals, error) {
	if limit > 0 && limit < len(d.standings) {
		return d.standings[:limit], nil
	}
	return d.standings, nil
}

func (d *stubDeps) Rounds(context.Context) ([]service.RoundInfo, error) {
	return d.rounds, nil
}

func (d *stubDeps) RoundScores(_ context.Context, number int) ([]outcome.MemberEval, error) {
	if d.outcomeErr != nil {
		return nil, d.outcomeErr
	}
	return []outcome.MemberEval{{MemberID: 1, Name: "Carlos", Hits: 12, Points: 22, HasSubmission: true}}, nil
}

func (d *stubDeps) RoundOutcome(_ context.Context, number int) (outcome.Result, error) {
	return d.outcome, d.outcomeErr
}

func (d *stubDeps) Eligibility(_ context.Context, roundNumber, memberID int) (outcome.Eligibility, error) {
	return d.eligibility, nil
}

func (d *stubDeps) SubmitPrediction(_ context.Context, roundID string, memberID int, selection []string, late bool) error {
	d.submitted = append(d.submitted, model.PredictionID(roundID, memberID))
	return nil
}

func (d *stubDeps) SubmitDoubles(_ context.Context, roundID string, memberID int, selection []string) error {
	if d.doublesErr != nil {
		return d.doublesErr
	}
	d.submitted = append(d.submitted, "dobles_"+model.PredictionID(roundID, memberID))
	return nil
}

func (d *stubDeps) AddIncome(_ context.Context, memberID int, date string, amount float64, note string) (model.Income, error) {
	return model.Income{ID: "inc-1", MemberID: memberID, Date: date, Amount: amount, Note: note}, nil
}

func (d *stubDeps) LedgerLines(context.Context) ([]ledger.Line, error) { return d.lines, nil }
func (d *stubDeps) Fund(context.Context) (float64, error)              { return 123.45, nil }

func (d *stubDeps) SeasonPrizes(context.Context) (prize.Totals, error) {
	return prize.Totals{Money: 60.5, WinningSubmissions: 3}, nil
}

func (d *stubDeps) ExportCSV(_ context.Context, w io.Writer) error {
	return ledger.WriteCSV(w, d.lines)
}

func (d *stubDeps) Reload(context.Context) error {
	d.reloads++
	return nil
}

func (d *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	return httptest.NewServer(api.NewServer(deps, deps).Router())
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func post(t *testing.T, url string, payload any) (*http.Response, []byte) {
	t.Helper()
	data, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func fullSelection(sign string) []string {
	s := make([]string, 15)
	for i := range s {
		s[i] = sign
	}
	return s
}

func TestReadEndpoints(t *testing.T) {
	deps := &stubDeps{
		standings: []season.MemberTotals{
			{MemberID: 1, Name: "Carlos", Points: 67},
			{MemberID: 2, Name: "Ana", Points: 61},
		},
		rounds: []service.RoundInfo{
			{ID: "j1", Number: 1, Played: true},
			{ID: "j2", Number: 2},
		},
		outcome:     outcome.Result{WinnerID: 1, LoserID: 2},
		eligibility: outcome.Eligibility{Eligible: true, Reason: outcome.ReasonWinner},
	}
	ts := newTestServer(deps)
	defer ts.Close()

	Convey("Given the wired router", t, func() {
		Convey("Then healthz answers ok", func() {
			resp, body := get(t, ts.URL+"/healthz")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldContainSubstring, `"ok"`)
		})

		Convey("Then standings return the ranking", func() {
			resp, body := get(t, ts.URL+"/api/v1/standings")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var totals []season.MemberTotals
			So(json.Unmarshal(body, &totals), ShouldBeNil)
			So(len(totals), ShouldEqual, 2)
			So(totals[0].Name, ShouldEqual, "Carlos")
		})

		Convey("Then a limit query trims the page", func() {
			_, body := get(t, ts.URL+"/api/v1/standings?limit=1")
			var totals []season.MemberTotals
			So(json.Unmarshal(body, &totals), ShouldBeNil)
			So(len(totals), ShouldEqual, 1)
		})

		Convey("Then a malformed limit is a 400", func() {
			resp, _ := get(t, ts.URL+"/api/v1/standings?limit=abc")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then round outcome returns winner and loser", func() {
			resp, body := get(t, ts.URL+"/api/v1/rounds/1/outcome")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var result outcome.Result
			So(json.Unmarshal(body, &result), ShouldBeNil)
			So(result.WinnerID, ShouldEqual, 1)
		})

		Convey("Then a garbage round number is a 400", func() {
			resp, _ := get(t, ts.URL+"/api/v1/rounds/abc/outcome")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then eligibility answers with a reason", func() {
			resp, body := get(t, ts.URL+"/api/v1/rounds/2/eligibility/1")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var e outcome.Eligibility
			So(json.Unmarshal(body, &e), ShouldBeNil)
			So(e.Eligible, ShouldBeTrue)
			So(e.Reason, ShouldEqual, "winner")
		})

		Convey("Then every response carries a request id", func() {
			resp, _ := get(t, ts.URL+"/healthz")
			So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)
		})
	})
}

func TestErrorMapping(t *testing.T) {
	Convey("Given a service without the requested round", t, func() {
		deps := &stubDeps{outcomeErr: fmt.Errorf("wrapped: %w", service.ErrRoundNotFound)}
		ts := newTestServer(deps)
		defer ts.Close()

		resp, _ := get(t, ts.URL+"/api/v1/rounds/9/outcome")
		So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
	})

	Convey("Given an unplayed round", t, func() {
		deps := &stubDeps{outcomeErr: fmt.Errorf("wrapped: %w", service.ErrRoundNotPlayed)}
		ts := newTestServer(deps)
		defer ts.Close()

		resp, _ := get(t, ts.URL+"/api/v1/rounds/2/outcome")
		So(resp.StatusCode, ShouldEqual, http.StatusConflict)
	})
}

func TestWriteEndpoints(t *testing.T) {
	Convey("Given the wired router", t, func() {
		deps := &stubDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When a valid prediction is posted", func() {
			resp, body := post(t, ts.URL+"/api/v1/predictions", map[string]any{
				"roundId": "j2", "memberId": 1, "selection": fullSelection("1"),
			})

			Convey("Then it is acknowledged with its id", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, "j2_1")
				So(deps.submitted, ShouldContain, "j2_1")
			})
		})

		Convey("When the selection is short", func() {
			resp, _ := post(t, ts.URL+"/api/v1/predictions", map[string]any{
				"roundId": "j2", "memberId": 1, "selection": []string{"1", "X"},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a doubles prediction violates the reduction shape", func() {
			deps.doublesErr = fmt.Errorf("save: %w", scoring.ErrTooManyDoubles)
			resp, body := post(t, ts.URL+"/api/v1/predictions/doubles", map[string]any{
				"roundId": "j2", "memberId": 1, "selection": fullSelection("1"),
			})

			Convey("Then it maps to 422", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
				So(string(body), ShouldContainSubstring, "invalid_reduction")
			})
		})

		Convey("When an income is posted", func() {
			resp, body := post(t, ts.URL+"/api/v1/incomes", map[string]any{
				"memberId": 2, "date": "2026-01-16", "amount": 5.0, "note": "cash",
			})

			Convey("Then it is created with an id", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(string(body), ShouldContainSubstring, "inc-1")
			})
		})

		Convey("When an income has a non-positive amount", func() {
			resp, _ := post(t, ts.URL+"/api/v1/incomes", map[string]any{
				"memberId": 2, "date": "2026-01-16", "amount": 0,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a reload is requested", func() {
			resp, _ := post(t, ts.URL+"/api/v1/reload", map[string]any{})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.reloads, ShouldEqual, 1)
		})
	})
}

func TestLedgerEndpoints(t *testing.T) {
	deps := &stubDeps{
		lines: []ledger.Line{{
			MemberName: "Carlos", RoundNumber: 5, Hits: 12,
			Due: 1.50, ColumnCost: 0.75, Net: -2.25, Cumulative: -2.25,
		}},
	}
	ts := newTestServer(deps)
	defer ts.Close()

	Convey("Given ledger lines in the service", t, func() {
		Convey("Then the ledger endpoint returns lines, fund and season prizes", func() {
			resp, body := get(t, ts.URL+"/api/v1/ledger")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldContainSubstring, `"fund":123.45`)
			So(string(body), ShouldContainSubstring, "Carlos")
			So(string(body), ShouldContainSubstring, `"money":60.5`)
			So(string(body), ShouldContainSubstring, `"winningSubmissions":3`)
		})

		Convey("Then the export streams CSV with the fixed header", func() {
			resp, body := get(t, ts.URL+"/api/v1/ledger/export")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/csv")
			So(string(body), ShouldStartWith, "member,round,date,hits")
		})
	})
}
