// Package model contains the pool data model passed between layers.
//
// Records mirror the document-store collections: members, jornadas
// (rounds), pronosticos (predictions), pronosticos_extra (doubles),
// ingresos (manual cash entries) and the config singletons.
package model

import (
	"fmt"
	"time"
)

// MatchCount is the fixed number of fixtures in a round.
// Index PlenoIndex is the "Pleno al 15" slot, which compares
// exact literal scores instead of plain signs.
const (
	MatchCount = 15
	PlenoIndex = 14
)

// NotSubmittedHits is the sentinel hit count for a member without a
// prediction in a round. It short-circuits scoring to zero points.
const NotSubmittedHits = -1

// DefaultMinHitsToWin is the prize threshold used when a round does not
// carry its own minHitsToWin.
const DefaultMinHitsToWin = 10

// Member is a pool member. ID is assigned at roster creation, immutable,
// and is the join key everywhere else.
type Member struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
}

// Match is a single fixture. Result is empty until played, then one of
// "1", "X", "2", or a literal score string like "2-1" / "M-2" for the
// Pleno slot ("M" marks a high winning margin).
type Match struct {
	Home   string `json:"home"`
	Away   string `json:"away"`
	Result string `json:"result"`
}

// Round is one week's set of fifteen fixtures ("jornada").
// Number is season-unique but not necessarily contiguous.
type Round struct {
	ID           string         `json:"id"`
	Number       int            `json:"number"`
	Date         string         `json:"date"`
	Matches      []Match        `json:"matches"`
	Active       bool           `json:"active"`
	MinHitsToWin int            `json:"minHitsToWin,omitempty"`
	Prizes       map[string]any `json:"prizes,omitempty"`
}

// Played reports whether every match has a non-empty, non-pending result.
func (r Round) Played() bool {
	if len(r.Matches) < MatchCount {
		return false
	}
	for _, m := range r.Matches {
		if ResultPending(m.Result) {
			return false
		}
	}
	return true
}

// Results returns the official result strings in match order.
func (r Round) Results() []string {
	out := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		out[i] = m.Result
	}
	return out
}

// PrizeThreshold returns the round's minimum hit count for a prize.
func (r Round) PrizeThreshold() int {
	if r.MinHitsToWin > 0 {
		return r.MinHitsToWin
	}
	return DefaultMinHitsToWin
}

// ParsedDate parses the round date; ok is false when the date is missing
// or malformed, and callers must skip or zero-out rather than fail.
func (r Round) ParsedDate() (time.Time, bool) {
	return ParseDate(r.Date)
}

// Prediction is one member's fifteen-sign forecast for a round.
// The id "{roundID}_{memberID}" is the uniqueness key; saving again
// overwrites in place.
type Prediction struct {
	ID        string   `json:"id"`
	RoundID   string   `json:"roundId"`
	MemberID  int      `json:"memberId"`
	Selection []string `json:"selection"`
	Timestamp string   `json:"timestamp"`
	Late      bool     `json:"late"`
	Pardoned  bool     `json:"pardoned"`
}

// PredictionID builds the document id for a (round, member) pair.
func PredictionID(roundID string, memberID int) string {
	return fmt.Sprintf("%s_%d", roundID, memberID)
}

// Income is a manual cash entry ("ingreso") attributed to a member.
// Date stays a string: stored documents carry both ISO and the round
// importer's dd/mm/yyyy shapes, and the ledger parses leniently.
type Income struct {
	ID       string  `json:"id"`
	MemberID int     `json:"memberId"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note,omitempty"`
}

// LedgerConfig is the mutable fund-accounting singleton.
type LedgerConfig struct {
	ColumnCost  float64 `json:"columnCost"`
	DoublesCost float64 `json:"doublesCost"`
	WeeklyDue   float64 `json:"weeklyDue"`
	InitialFund float64 `json:"initialFund"`
}

// Collection names in the document store.
const (
	CollectionMembers     = "members"
	CollectionRounds      = "jornadas"
	CollectionPredictions = "pronosticos"
	CollectionDoubles     = "pronosticos_extra"
	CollectionConfig      = "config"
	CollectionIncomes     = "ingresos"
)

// Config document ids inside the config collection.
const (
	DocRuleHistory  = "rules_history"
	DocLedgerConfig = "bote_config"
)
