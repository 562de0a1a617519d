package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Result sign distribution: home wins dominate real pools.
const (
	homeWinCutoff = 0.45
	drawCutoff    = 0.72
)

// Prediction texture.
const (
	missChance = 0.35
	lateChance = 0.08
	skipChance = 0.05
)

var memberNames = []string{
	"Andrés", "Bea", "Carlos", "Diego", "Elena", "Fermín", "Gonzalo",
	"Inés", "Javi", "Lucía", "Manolo", "Nuria", "Óscar", "Paco",
	"Quique", "Rosa", "Sergio", "Teresa", "Valen", "Ximo",
}

var teamNames = []string{
	"Real Madrid", "Barcelona", "Atlético", "Athletic", "Betis",
	"Sevilla", "Valencia", "Villarreal", "Real Sociedad", "Celta",
	"Osasuna", "Getafe", "Girona", "Mallorca", "Alavés", "Espanyol",
	"Rayo", "Las Palmas", "Leganés", "Valladolid", "Oviedo", "Elche",
	"Levante", "Zaragoza", "Sporting", "Racing", "Cádiz", "Granada",
	"Almería", "Eibar",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomSign draws an official result sign with a realistic skew.
func randomSign() string {
	switch f := getRandomFloat(); {
	case f < homeWinCutoff:
		return "1"
	case f < drawCutoff:
		return "X"
	default:
		return "2"
	}
}

// randomScore draws a literal Pleno al 15 score like "2-1" or "M-2".
func randomScore() string {
	goals := []string{"0", "1", "2", "M"}
	home := goals[int(getRandomFloat()*4)%4]
	away := goals[int(getRandomFloat()*4)%4]
	return home + "-" + away
}

// GenerateSeason builds a synthetic season: members, rounds with official
// results for the first NumPlayed rounds, one prediction per member per
// played round (with the occasional skip and late submission), a pooled
// doubles column per played round, and a couple of manual incomes.
func GenerateSeason(ctx context.Context, config *Config, stats *Stats) (*Season, error) {
	if config.NumMembers < 2 {
		return nil, fmt.Errorf("need at least two members, got %d", config.NumMembers)
	}
	if config.NumPlayed > config.NumRounds {
		return nil, fmt.Errorf("cannot play %d of %d rounds", config.NumPlayed, config.NumRounds)
	}

	logger.Get().Info(ctx, "generating demo season",
		logger.Int("members", config.NumMembers),
		logger.Int("rounds", config.NumRounds),
		logger.Int("played", config.NumPlayed))

	season := &Season{}

	for i := 0; i < config.NumMembers; i++ {
		season.Members = append(season.Members, model.Member{
			ID:   i + 1,
			Name: memberNames[i%len(memberNames)],
		})
	}
	stats.MembersCreated = len(season.Members)

	// Rounds are a week apart starting from last season kickoff.
	start := time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < config.NumRounds; i++ {
		number := i + 1
		round := model.Round{
			ID:     fmt.Sprintf("j%d", number),
			Number: number,
			Date:   start.AddDate(0, 0, 7*i).Format("02/01/2006"),
			Active: i == config.NumPlayed,
		}
		for m := 0; m < model.MatchCount; m++ {
			match := model.Match{
				Home: teamNames[(2*m+i)%len(teamNames)],
				Away: teamNames[(2*m+1+i)%len(teamNames)],
			}
			if i < config.NumPlayed {
				if m == model.PlenoIndex {
					match.Result = randomScore()
				} else {
					match.Result = randomSign()
				}
			}
			round.Matches = append(round.Matches, match)
		}
		if i < config.NumPlayed {
			// Payout shapes vary in the historical data; keep that texture.
			round.Prizes = map[string]any{
				"11": "5,20 €",
				"12": 14.75,
				"13": "60,00€",
				"14": 250.0,
			}
		}
		season.Rounds = append(season.Rounds, round)
	}
	stats.RoundsCreated = len(season.Rounds)

	for i := 0; i < config.NumPlayed; i++ {
		round := season.Rounds[i]
		for _, member := range season.Members {
			if getRandomFloat() < skipChance {
				continue
			}
			season.Predictions = append(season.Predictions,
				memberPrediction(round, member.ID))
		}
		// One member fronts the pooled doubles column each round.
		fronting := season.Members[i%len(season.Members)]
		season.Doubles = append(season.Doubles, doublesPrediction(round, fronting.ID))
	}
	stats.PredictionsCreated = len(season.Predictions)
	stats.DoublesCreated = len(season.Doubles)

	// A couple of manual incomes in the played stretch.
	for i := 0; i < 2 && i < config.NumPlayed; i++ {
		date, _ := season.Rounds[i].ParsedDate()
		season.Incomes = append(season.Incomes, model.Income{
			ID:       fmt.Sprintf("seed-income-%d", i+1),
			MemberID: season.Members[i%len(season.Members)].ID,
			Date:     date.AddDate(0, 0, 1).Format("2006-01-02"),
			Amount:   5,
			Note:     "puesta al día",
		})
	}
	stats.IncomesCreated = len(season.Incomes)

	logger.Get().Info(ctx, "generated season documents",
		logger.Int("predictions", stats.PredictionsCreated),
		logger.Int("doubles", stats.DoublesCreated))
	return season, nil
}

// memberPrediction forecasts the official result with a per-slot miss
// chance, so hit counts spread the way a real pool's do.
func memberPrediction(round model.Round, memberID int) model.Prediction {
	selection := make([]string, model.MatchCount)
	for m, match := range round.Matches {
		if m == model.PlenoIndex {
			if getRandomFloat() < missChance {
				selection[m] = randomScore()
			} else {
				selection[m] = match.Result
			}
			continue
		}
		if getRandomFloat() < missChance {
			selection[m] = randomSign()
		} else {
			selection[m] = match.Result
		}
	}
	date, _ := round.ParsedDate()
	return model.Prediction{
		ID:        model.PredictionID(round.ID, memberID),
		RoundID:   round.ID,
		MemberID:  memberID,
		Selection: selection,
		Timestamp: date.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
		Late:      getRandomFloat() < lateChance,
	}
}

// doublesPrediction builds the pooled column: seven doubled fixtures,
// which is the largest reduction the pool plays.
func doublesPrediction(round model.Round, memberID int) model.Prediction {
	selection := make([]string, model.MatchCount)
	for m, match := range round.Matches {
		if m == model.PlenoIndex {
			selection[m] = match.Result
			continue
		}
		if m < 7 {
			if match.Result == "X" {
				selection[m] = "1X"
			} else {
				selection[m] = match.Result + "X"
			}
			continue
		}
		selection[m] = match.Result
	}
	date, _ := round.ParsedDate()
	return model.Prediction{
		ID:        model.PredictionID(round.ID, memberID),
		RoundID:   round.ID,
		MemberID:  memberID,
		Selection: selection,
		Timestamp: date.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
	}
}
