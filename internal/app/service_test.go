package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	service "github.com/maulas/quiniela/internal/app"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/scoring"
	"github.com/maulas/quiniela/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu   sync.Mutex
	docs map[string]map[string]json.RawMessage
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]map[string]json.RawMessage{}}
}

func (m *memStore) GetAll(_ context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []json.RawMessage
	for _, d := range m.docs[collection] {
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, collection, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if m.docs[collection] == nil {
		m.docs[collection] = map[string]json.RawMessage{}
	}
	m.docs[collection][id] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs[collection], id)
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}

func sel(sign string) []string {
	s := make([]string, 15)
	for i := range s {
		s[i] = sign
	}
	return s
}

func withHits(n int) []string {
	s := sel("1")
	for i := len(s) - 1; i >= n; i-- {
		s[i] = "2"
	}
	return s
}

func seedStore(t *testing.T) *memStore {
	t.Helper()
	ctx := context.Background()
	store := newMemStore()

	_ = store.Save(ctx, model.CollectionMembers, "1", model.Member{ID: 1, Name: "Carlos"})
	_ = store.Save(ctx, model.CollectionMembers, "2", model.Member{ID: 2, Name: "Ana"})

	matches := make([]model.Match, 15)
	for i := range matches {
		matches[i] = model.Match{Result: "1"}
	}
	_ = store.Save(ctx, model.CollectionRounds, "j1", model.Round{
		ID: "j1", Number: 1, Date: "15/01/2026", Matches: matches,
		Prizes: map[string]any{"15": 50.0},
	})
	_ = store.Save(ctx, model.CollectionRounds, "j2", model.Round{
		ID: "j2", Number: 2, Date: "22/01/2026", Matches: make([]model.Match, 15),
	})

	_ = store.Save(ctx, model.CollectionPredictions, "j1_1", model.Prediction{
		ID: "j1_1", RoundID: "j1", MemberID: 1, Selection: sel("1"),
	})
	_ = store.Save(ctx, model.CollectionPredictions, "j1_2", model.Prediction{
		ID: "j1_2", RoundID: "j1", MemberID: 2, Selection: withHits(8),
	})
	return store
}

func startService(t *testing.T, store *memStore) *service.Service {
	t.Helper()
	svc := service.New(service.WithStore(store))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestServiceSnapshot(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service over a seeded store", t, func() {
		store := seedStore(t)
		svc := startService(t, store)

		Convey("Then standings come back in points order", func() {
			totals, err := svc.Standings(ctx, 0)
			So(err, ShouldBeNil)
			So(len(totals), ShouldEqual, 2)
			So(totals[0].Name, ShouldEqual, "Carlos")
			So(totals[0].Points, ShouldEqual, 45)
		})

		Convey("Then the standings limit caps the page", func() {
			totals, err := svc.Standings(ctx, 1)
			So(err, ShouldBeNil)
			So(len(totals), ShouldEqual, 1)
		})

		Convey("Then rounds list both played and pending", func() {
			rounds, err := svc.Rounds(ctx)
			So(err, ShouldBeNil)
			So(len(rounds), ShouldEqual, 2)
			So(rounds[0].Played, ShouldBeTrue)
			So(rounds[1].Played, ShouldBeFalse)
		})

		Convey("Then a played round resolves its outcome", func() {
			result, err := svc.RoundOutcome(ctx, 1)
			So(err, ShouldBeNil)
			So(result.WinnerID, ShouldEqual, 1)
			So(result.LoserID, ShouldEqual, 2)
		})

		Convey("Then an unplayed round reports as such", func() {
			_, err := svc.RoundOutcome(ctx, 2)
			So(errors.Is(err, service.ErrRoundNotPlayed), ShouldBeTrue)
		})

		Convey("Then an unknown round reports not found", func() {
			_, err := svc.RoundOutcome(ctx, 9)
			So(errors.Is(err, service.ErrRoundNotFound), ShouldBeTrue)
		})

		Convey("Then the round-1 winner is doubles-eligible for round 2", func() {
			e, err := svc.Eligibility(ctx, 2, 1)
			So(err, ShouldBeNil)
			So(e.Eligible, ShouldBeTrue)
		})

		Convey("Then an unknown member is rejected", func() {
			_, err := svc.Eligibility(ctx, 2, 99)
			So(errors.Is(err, service.ErrMemberNotFound), ShouldBeTrue)
		})
	})
}

func TestServiceMutations(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		store := seedStore(t)
		svc := startService(t, store)

		Convey("When a prediction is submitted", func() {
			err := svc.SubmitPrediction(ctx, "j2", 2, sel("X"), false)

			Convey("Then it persists and the snapshot refreshes", func() {
				So(err, ShouldBeNil)
				So(store.count(model.CollectionPredictions), ShouldEqual, 3)
			})
		})

		Convey("When a doubles prediction violates the reduction shape", func() {
			bad := sel("1")
			for i := 0; i < 8; i++ {
				bad[i] = "1X"
			}
			err := svc.SubmitDoubles(ctx, "j2", 2, bad)

			Convey("Then the save is blocked and nothing is written", func() {
				So(errors.Is(err, scoring.ErrTooManyDoubles), ShouldBeTrue)
				So(store.count(model.CollectionDoubles), ShouldEqual, 0)
			})
		})

		Convey("When a valid doubles prediction is submitted", func() {
			good := sel("1")
			for i := 0; i < 7; i++ {
				good[i] = "1X"
			}
			err := svc.SubmitDoubles(ctx, "j2", 2, good)

			Convey("Then it persists under the doubles collection", func() {
				So(err, ShouldBeNil)
				So(store.count(model.CollectionDoubles), ShouldEqual, 1)
			})
		})

		Convey("When a manual income is recorded", func() {
			in, err := svc.AddIncome(ctx, 2, "2026-01-16", 5.0, "cash")

			Convey("Then it gets an id and reaches the ledger", func() {
				So(err, ShouldBeNil)
				So(in.ID, ShouldNotBeEmpty)

				lines, err := svc.LedgerLines(ctx)
				So(err, ShouldBeNil)
				var found bool
				for _, l := range lines {
					if l.MemberID == 2 && l.RoundNumber == 1 && l.ManualIncome == 5.0 {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("Then stats expose the snapshot shape", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["members"], ShouldEqual, 2)
			So(stats["playedRounds"], ShouldEqual, 1)
		})
	})
}

func TestSeasonPrizes(t *testing.T) {
	ctx := context.Background()
	svc := startService(t, seedStore(t))

	Convey("Given a season with one full-hit column", t, func() {
		Convey("When summing the season prizes", func() {
			totals, err := svc.SeasonPrizes(ctx)

			Convey("Then only the paying column counts", func() {
				So(err, ShouldBeNil)
				So(totals.Money, ShouldEqual, 50.0)
				So(totals.WinningSubmissions, ShouldEqual, 1)
			})
		})
	})
}
