// Package prize maps hit counts onto the per-round monetary prize table
// and sums prize money across the season.
package prize

import (
	"strconv"
	"strings"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/rules"
	"github.com/maulas/quiniela/internal/domain/scoring"
)

// Totals carries the season-wide prize aggregate.
type Totals struct {
	Money              float64 `json:"money"`
	WinningSubmissions int     `json:"winningSubmissions"`
}

// Amount looks up the money amount for a hit count in a round's prize
// table. Table values arrive from the store in whatever shape the admin
// typed: plain numbers, strings with a comma decimal separator, or
// strings with a trailing euro sign. Anything missing, unparseable or
// non-positive yields zero.
func Amount(hits int, table map[string]any) float64 {
	if table == nil {
		return 0
	}
	v, ok := table[strconv.Itoa(hits)]
	if !ok {
		return 0
	}
	amount := coerce(v)
	if amount <= 0 {
		return 0
	}
	return amount
}

// Wins reports whether a hit count maps to a strictly positive prize.
func Wins(hits int, table map[string]any) bool {
	return Amount(hits, table) > 0
}

// SeasonTotal sums prize money over every played round, evaluating both
// the primary predictions and any doubles columns against each round's
// own table. WinningSubmissions counts the individual columns that paid
// out, not the members.
func SeasonTotal(rounds []model.Round, predictions, doubles []model.Prediction) Totals {
	var t Totals
	for _, round := range rounds {
		if !round.Played() {
			continue
		}
		results := round.Results()
		for _, p := range predictionsFor(round, predictions) {
			hits := scoring.Evaluate(p.Selection, results, rules.Default).Hits
			if amount := Amount(hits, round.Prizes); amount > 0 {
				t.Money += amount
				t.WinningSubmissions++
			}
		}
		for _, p := range predictionsFor(round, doubles) {
			hits := scoring.Evaluate(p.Selection, results, rules.Default).Hits
			if amount := Amount(hits, round.Prizes); amount > 0 {
				t.Money += amount
				t.WinningSubmissions++
			}
		}
	}
	return t
}

func predictionsFor(round model.Round, predictions []model.Prediction) []model.Prediction {
	var out []model.Prediction
	for _, p := range predictions {
		if p.RoundID == round.ID {
			out = append(out, p)
		}
	}
	return out
}

// coerce turns a stored prize value into a float. Strings get a
// permissive locale-aware parse.
func coerce(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		s := strings.TrimSpace(n)
		s = strings.TrimSuffix(s, "€")
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
