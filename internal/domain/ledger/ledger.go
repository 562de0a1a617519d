// Package ledger turns the season's rounds into per-member money
// movements: dues, column costs, penalties, sellado reimbursements,
// prizes and manual cash entries.
package ledger

import (
	"math"
	"time"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/outcome"
	"github.com/maulas/quiniela/internal/domain/prize"
	"github.com/maulas/quiniela/internal/domain/rules"
	"github.com/maulas/quiniela/internal/domain/season"
)

// incomeWindow is how far an income entry's date may sit from the round
// date and still be attributed to that round.
const incomeWindow = 7 * 24 * time.Hour

// Line is one member's money movement for one played round.
type Line struct {
	MemberID     int     `json:"memberId"`
	MemberName   string  `json:"memberName"`
	RoundNumber  int     `json:"roundNumber"`
	RoundDate    string  `json:"roundDate"`
	Hits         int     `json:"hits"`
	Due          float64 `json:"due"`
	ColumnCost   float64 `json:"columnCost"`
	OnesPenalty  float64 `json:"onesPenalty"`
	Sellado      float64 `json:"sellado"`
	Prize        float64 `json:"prize"`
	ManualIncome float64 `json:"manualIncome"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Net          float64 `json:"net"`
	Cumulative   float64 `json:"cumulative"`
	Exempt       bool    `json:"exempt"`
	PlaysDoubles bool    `json:"playsDoubles"`
}

// Movements computes the per-member-per-round ledger lines across every
// played round in ascending number order. The running cumulative is the
// net income minus expense per member in processing order.
func Movements(members []model.Member, rounds []model.Round, predictions, doubles []model.Prediction, incomes []model.Income, cfg model.LedgerConfig, history *rules.History) []Line {
	summary := season.Accumulate(members, rounds, predictions, history)

	roundsByID := make(map[string]model.Round, len(rounds))
	for _, r := range rounds {
		roundsByID[r.ID] = r
	}
	predByKey := make(map[string]model.Prediction, len(predictions))
	for _, p := range predictions {
		predByKey[model.PredictionID(p.RoundID, p.MemberID)] = p
	}
	doublesByKey := make(map[string]bool, len(doubles))
	doublesByRound := make(map[string]int)
	for _, p := range doubles {
		doublesByKey[model.PredictionID(p.RoundID, p.MemberID)] = true
		doublesByRound[p.RoundID]++
	}

	outcomeByNumber := make(map[int]outcome.Result, len(summary.Rounds))
	evalsByNumber := make(map[int]map[int]outcome.MemberEval, len(summary.Rounds))
	for _, rs := range summary.Rounds {
		outcomeByNumber[rs.Number] = rs.Outcome
		perMember := make(map[int]outcome.MemberEval, len(rs.Evals))
		for _, e := range rs.Evals {
			perMember[e.MemberID] = e
		}
		evalsByNumber[rs.Number] = perMember
	}

	cumulative := make(map[int]float64, len(members))
	lines := make([]Line, 0, len(summary.Rounds)*len(members))

	for _, rs := range summary.Rounds {
		round := roundsByID[rs.RoundID]
		roundDate, dateOK := round.ParsedDate()
		prevOutcome, hasPrev := outcomeByNumber[rs.Number-1]
		prevEvals := evalsByNumber[rs.Number-1]
		prevRound, prevOK := roundByNumber(rounds, rs.Number-1)

		for _, m := range members {
			eval := evalsByNumber[rs.Number][m.ID]
			line := Line{
				MemberID:    m.ID,
				MemberName:  m.Name,
				RoundNumber: rs.Number,
				RoundDate:   round.Date,
				Hits:        eval.Hits,
			}

			// Exemption keys on a monetary prize, not on winning
			// the round.
			if hasPrev && prevOK {
				prevEval := prevEvals[m.ID]
				line.Exempt = prevEval.Hits >= 0 && prize.Wins(prevEval.Hits, prevRound.Prizes)
			}

			if !line.Exempt {
				line.Due = cfg.WeeklyDue
				line.ColumnCost = cfg.ColumnCost
				if p, ok := predByKey[model.PredictionID(rs.RoundID, m.ID)]; ok {
					line.OnesPenalty = OnesPenalty(p.Selection)
				}
			}

			line.PlaysDoubles = doublesByKey[model.PredictionID(rs.RoundID, m.ID)] ||
				(doublesByRound[rs.RoundID] == 0 && hasPrev && prevOutcome.WinnerID == m.ID)

			if hasPrev && prevOutcome.LoserID == m.ID {
				line.Sellado = -(float64(len(members))*cfg.ColumnCost + cfg.DoublesCost)
			}

			if eval.Hits >= 0 {
				line.Prize = prize.Amount(eval.Hits, round.Prizes)
			}
			if dateOK {
				line.ManualIncome = manualIncome(incomes, m.ID, roundDate)
			}

			line.TotalIncome = line.Prize + line.ManualIncome - math.Min(line.Sellado, 0)
			line.TotalExpense = line.Due + line.ColumnCost + line.OnesPenalty
			line.Net = line.TotalIncome - line.TotalExpense
			cumulative[m.ID] += line.Net
			line.Cumulative = cumulative[m.ID]

			lines = append(lines, line)
		}
	}
	return lines
}

// OnesPenalty is the tiered charge for stacking "1" signs across the
// fourteen non-Pleno slots. Below ten it costs nothing.
func OnesPenalty(selection []string) float64 {
	ones := 0
	limit := min(model.PlenoIndex, len(selection))
	for i := 0; i < limit; i++ {
		if selection[i] == "1" {
			ones++
		}
	}
	switch {
	case ones >= 14:
		return 2.00
	case ones == 13:
		return 1.50
	case ones == 12:
		return 1.30
	case ones == 11:
		return 1.20
	case ones == 10:
		return 1.10
	default:
		return 0
	}
}

// Fund is the pooled bote after all movements: the initial fund plus
// dues, penalties, manual entries and prizes, minus the ticket costs
// already carried as negative sellado lines.
func Fund(lines []Line, cfg model.LedgerConfig) float64 {
	total := cfg.InitialFund
	for _, l := range lines {
		total += l.Due + l.OnesPenalty + l.ManualIncome + l.Prize + l.Sellado
	}
	return total
}

// manualIncome sums a member's cash entries dated within a week of the
// round date. Entries with unparseable dates are skipped.
func manualIncome(incomes []model.Income, memberID int, roundDate time.Time) float64 {
	var total float64
	for _, in := range incomes {
		if in.MemberID != memberID {
			continue
		}
		d, ok := parseIncomeDate(in.Date)
		if !ok {
			continue
		}
		diff := roundDate.Sub(d)
		if diff < 0 {
			diff = -diff
		}
		if diff <= incomeWindow {
			total += in.Amount
		}
	}
	return total
}

func parseIncomeDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return model.ParseDate(s)
}

func roundByNumber(rounds []model.Round, number int) (model.Round, bool) {
	for _, r := range rounds {
		if r.Number == number {
			return r, true
		}
	}
	return model.Round{}, false
}
