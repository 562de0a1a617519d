package outcome

import (
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/rules"
	"github.com/maulas/quiniela/internal/domain/scoring"
)

// Eligibility reasons for the doubles form.
const (
	ReasonWinner = "winner"
	ReasonPrize  = "prize"
)

// Eligibility is the answer to "may this member submit a doubles
// prediction for this round".
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// EligibilityResolver answers doubles-eligibility questions against an
// in-memory snapshot of the season.
type EligibilityResolver struct {
	rounds      []model.Round
	predictions []model.Prediction
	members     []model.Member
	history     *rules.History
}

// NewEligibilityResolver builds a resolver over a season snapshot.
func NewEligibilityResolver(members []model.Member, rounds []model.Round, predictions []model.Prediction, history *rules.History) *EligibilityResolver {
	return &EligibilityResolver{
		rounds:      rounds,
		predictions: predictions,
		members:     members,
		history:     history,
	}
}

// IsEligible decides whether a member may play doubles in the given
// round. Round one never qualifies, and eligibility keys on the round
// numbered exactly one less: when that number does not exist as a
// played round, nobody is eligible.
func (r *EligibilityResolver) IsEligible(roundNumber, memberID int) Eligibility {
	if roundNumber <= 1 {
		return Eligibility{}
	}

	prev, ok := r.roundByNumber(roundNumber - 1)
	if !ok || !prev.Played() {
		return Eligibility{}
	}

	rs := r.ruleSet(prev)
	results := prev.Results()
	threshold := prev.PrizeThreshold()

	maxPoints := 0
	first := true
	winners := map[int]bool{}
	memberHits := model.NotSubmittedHits

	for _, m := range r.members {
		ev := r.evaluateMember(m.ID, prev, results, rs)
		if m.ID == memberID {
			memberHits = ev.Hits
		}
		if ev.Hits == model.NotSubmittedHits {
			continue
		}
		switch {
		case first || ev.Points > maxPoints:
			first = false
			maxPoints = ev.Points
			winners = map[int]bool{m.ID: true}
		case ev.Points == maxPoints:
			winners[m.ID] = true
		}
	}

	if winners[memberID] {
		return Eligibility{Eligible: true, Reason: ReasonWinner}
	}
	if memberHits >= threshold && threshold < model.MatchCount {
		return Eligibility{Eligible: true, Reason: ReasonPrize}
	}
	return Eligibility{}
}

// evaluateMember scores one member's prediction for a round. A late
// unpardoned submission counts as zero hits, scored through the rule
// table like any other zero.
func (r *EligibilityResolver) evaluateMember(memberID int, round model.Round, results []string, rs rules.Set) scoring.Evaluation {
	p, ok := r.predictionFor(round.ID, memberID)
	if !ok {
		return scoring.NotSubmitted()
	}
	if p.Late && !p.Pardoned {
		points := scoring.Score(0, rs)
		return scoring.Evaluation{Hits: 0, Points: points, Bonus: points}
	}
	return scoring.Evaluate(p.Selection, results, rs)
}

func (r *EligibilityResolver) roundByNumber(number int) (model.Round, bool) {
	for _, round := range r.rounds {
		if round.Number == number {
			return round, true
		}
	}
	return model.Round{}, false
}

func (r *EligibilityResolver) predictionFor(roundID string, memberID int) (model.Prediction, bool) {
	for _, p := range r.predictions {
		if p.RoundID == roundID && p.MemberID == memberID {
			return p, true
		}
	}
	return model.Prediction{}, false
}

func (r *EligibilityResolver) ruleSet(round model.Round) rules.Set {
	if r.history == nil {
		return rules.Default
	}
	if date, ok := round.ParsedDate(); ok {
		return r.history.ConfigFor(date)
	}
	return r.history.Latest()
}
