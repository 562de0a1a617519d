// Package service provides the core business service that implements
// the dependencies required by the HTTP API: it materializes the store
// collections into an immutable in-memory snapshot and answers every
// scoring, outcome, eligibility and ledger question from it.
package service

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maulas/quiniela/internal/adapters/repository"
	"github.com/maulas/quiniela/internal/domain/ledger"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/outcome"
	"github.com/maulas/quiniela/internal/domain/prize"
	"github.com/maulas/quiniela/internal/domain/rules"
	"github.com/maulas/quiniela/internal/domain/scoring"
	"github.com/maulas/quiniela/internal/domain/season"
	"github.com/maulas/quiniela/pkg/logger"
	"github.com/maulas/quiniela/pkg/metrics"
)

// snapshot is one immutable load of every collection plus the season
// fold derived from it. Computations never touch the store mid-flight;
// a stale snapshot stays stale until the next Reload.
type snapshot struct {
	members     []model.Member
	rounds      []model.Round
	predictions []model.Prediction
	doubles     []model.Prediction
	incomes     []model.Income
	rules       *rules.History
	ledgerCfg   model.LedgerConfig
	summary     season.Summary
	loadedAt    time.Time
}

// RoundInfo is the list view of one round.
type RoundInfo struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// Service implements the API dependencies for the pool system.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	snap  *snapshot

	maxStandingsLimit int
	defaultLedgerCfg  model.LedgerConfig
	minHitsToWin      int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing document store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxStandingsLimit caps the standings page size.
func WithMaxStandingsLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxStandingsLimit = limit
		}
	}
}

// WithLedgerConfig sets the money defaults used when the store carries
// no ledger configuration document.
func WithLedgerConfig(cfg model.LedgerConfig) Option {
	return func(s *Service) {
		s.defaultLedgerCfg = cfg
	}
}

// WithMinHitsToWin sets the prize threshold applied to rounds that do
// not carry their own minHitsToWin.
func WithMinHitsToWin(hits int) Option {
	return func(s *Service) {
		if hits > 0 {
			s.minHitsToWin = hits
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxStandingsLimit: 100,
		defaultLedgerCfg: model.LedgerConfig{
			ColumnCost:  0.75,
			DoublesCost: 12.00,
			WeeklyDue:   1.50,
		},
		minHitsToWin: model.DefaultMinHitsToWin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the first snapshot.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.mu.Unlock()
		return fmt.Errorf("service: no store configured")
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting pool service")
	return s.Reload(ctx)
}

// Stop releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "pool service stopped")
}

// Reload fetches every collection wholesale and rebuilds the snapshot.
func (s *Service) Reload(ctx context.Context) error {
	start := time.Now()

	members, err := fetch[model.Member](ctx, s.store, model.CollectionMembers)
	if err != nil {
		return err
	}
	rounds, err := fetch[model.Round](ctx, s.store, model.CollectionRounds)
	if err != nil {
		return err
	}
	// Rounds without their own threshold inherit the configured default.
	if s.minHitsToWin != model.DefaultMinHitsToWin {
		for i := range rounds {
			if rounds[i].MinHitsToWin == 0 {
				rounds[i].MinHitsToWin = s.minHitsToWin
			}
		}
	}
	predictions, err := fetch[model.Prediction](ctx, s.store, model.CollectionPredictions)
	if err != nil {
		return err
	}
	doubles, err := fetch[model.Prediction](ctx, s.store, model.CollectionDoubles)
	if err != nil {
		return err
	}
	incomes, err := fetch[model.Income](ctx, s.store, model.CollectionIncomes)
	if err != nil {
		return err
	}
	history, ledgerCfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	snap := &snapshot{
		members:     members,
		rounds:      rounds,
		predictions: predictions,
		doubles:     doubles,
		incomes:     incomes,
		rules:       history,
		ledgerCfg:   ledgerCfg,
		summary:     season.Accumulate(members, rounds, predictions, history),
		loadedAt:    time.Now(),
	}
	for _, rs := range snap.summary.Rounds {
		metrics.RecordRoundResolved()
		for _, e := range rs.Evals {
			if e.HasSubmission {
				metrics.RecordPredictionEvaluated()
			}
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	metrics.RecordSnapshotReload(time.Since(start).Seconds())
	metrics.UpdateSnapshotTimestamp(float64(snap.loadedAt.Unix()))
	s.logger.Info(ctx, "snapshot reloaded",
		logger.Int("members", len(members)),
		logger.Int("rounds", len(rounds)),
		logger.Int("predictions", len(predictions)),
		logger.String("elapsed", time.Since(start).String()),
	)
	return nil
}

func fetch[T any](ctx context.Context, store repository.Store, collection string) ([]T, error) {
	raw, err := store.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	return repository.DecodeAll[T](raw), nil
}

// loadConfig reads the rule history and ledger config documents out of
// the config collection, falling back to defaults when absent.
func (s *Service) loadConfig(ctx context.Context) (*rules.History, model.LedgerConfig, error) {
	raw, err := s.store.GetAll(ctx, model.CollectionConfig)
	if err != nil {
		return nil, model.LedgerConfig{}, fmt.Errorf("load %s: %w", model.CollectionConfig, err)
	}

	history := rules.NewHistory()
	ledgerCfg := s.defaultLedgerCfg

	for _, doc := range raw {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(doc, &probe); err != nil {
			continue
		}
		switch probe.ID {
		case model.DocRuleHistory:
			var h ruleHistoryDoc
			if err := json.Unmarshal(doc, &h); err == nil && len(h.Changes) > 0 {
				history = &rules.History{Changes: h.Changes}
			}
		case model.DocLedgerConfig:
			var l ledgerConfigDoc
			if err := json.Unmarshal(doc, &l); err == nil {
				ledgerCfg = l.LedgerConfig
			}
		}
	}
	return history, ledgerCfg, nil
}

type ruleHistoryDoc struct {
	ID      string         `json:"id"`
	Changes []rules.Change `json:"changes"`
}

type ledgerConfigDoc struct {
	ID string `json:"id"`
	model.LedgerConfig
}

func (s *Service) snapshot() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotStarted
	}
	return s.snap, nil
}

// Standings returns the season ranking, capped at limit (0 means the
// configured maximum).
func (s *Service) Standings(ctx context.Context, limit int) ([]season.MemberTotals, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.maxStandingsLimit {
		limit = s.maxStandingsLimit
	}
	totals := snap.summary.Totals
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

// Rounds lists every round with its played flag, ascending by number.
func (s *Service) Rounds(ctx context.Context) ([]RoundInfo, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]RoundInfo, 0, len(snap.rounds))
	for _, r := range snap.rounds {
		out = append(out, RoundInfo{ID: r.ID, Number: r.Number, Date: r.Date, Played: r.Played()})
	}
	sortRoundInfos(out)
	return out, nil
}

// RoundScores returns the per-member evaluation of one played round.
func (s *Service) RoundScores(ctx context.Context, number int) ([]outcome.MemberEval, error) {
	rs, err := s.roundSummary(number)
	if err != nil {
		return nil, err
	}
	return rs.Evals, nil
}

// RoundOutcome returns the resolved winner, loser, prize winners and
// doubles-eligible set of one played round.
func (s *Service) RoundOutcome(ctx context.Context, number int) (outcome.Result, error) {
	rs, err := s.roundSummary(number)
	if err != nil {
		return outcome.Result{}, err
	}
	return rs.Outcome, nil
}

func (s *Service) roundSummary(number int) (season.RoundSummary, error) {
	snap, err := s.snapshot()
	if err != nil {
		return season.RoundSummary{}, err
	}
	for _, rs := range snap.summary.Rounds {
		if rs.Number == number {
			return rs, nil
		}
	}
	for _, r := range snap.rounds {
		if r.Number == number {
			return season.RoundSummary{}, fmt.Errorf("%w: round %d", ErrRoundNotPlayed, number)
		}
	}
	return season.RoundSummary{}, fmt.Errorf("%w: round %d", ErrRoundNotFound, number)
}

// Eligibility answers whether a member may play doubles in a round.
func (s *Service) Eligibility(ctx context.Context, roundNumber, memberID int) (outcome.Eligibility, error) {
	snap, err := s.snapshot()
	if err != nil {
		return outcome.Eligibility{}, err
	}
	if !memberExists(snap.members, memberID) {
		return outcome.Eligibility{}, fmt.Errorf("%w: %d", ErrMemberNotFound, memberID)
	}
	resolver := outcome.NewEligibilityResolver(snap.members, snap.rounds, snap.predictions, snap.rules)
	return resolver.IsEligible(roundNumber, memberID), nil
}

// SubmitPrediction upserts a member's primary prediction for a round
// and refreshes the snapshot.
func (s *Service) SubmitPrediction(ctx context.Context, roundID string, memberID int, selection []string, late bool) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if !memberExists(snap.members, memberID) {
		return fmt.Errorf("%w: %d", ErrMemberNotFound, memberID)
	}
	if !roundExists(snap.rounds, roundID) {
		return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}

	p := model.Prediction{
		ID:        model.PredictionID(roundID, memberID),
		RoundID:   roundID,
		MemberID:  memberID,
		Selection: selection,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Late:      late,
	}
	if err := s.store.Save(ctx, model.CollectionPredictions, p.ID, p); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// SubmitDoubles validates the reduction shape and upserts a doubles
// prediction. A shape violation blocks the save; nothing is written.
func (s *Service) SubmitDoubles(ctx context.Context, roundID string, memberID int, selection []string) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if !memberExists(snap.members, memberID) {
		return fmt.Errorf("%w: %d", ErrMemberNotFound, memberID)
	}
	if !roundExists(snap.rounds, roundID) {
		return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	if err := scoring.ValidateReduction(selection); err != nil {
		metrics.RecordReductionRejected()
		return err
	}

	p := model.Prediction{
		ID:        model.PredictionID(roundID, memberID),
		RoundID:   roundID,
		MemberID:  memberID,
		Selection: selection,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Save(ctx, model.CollectionDoubles, p.ID, p); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// AddIncome records a manual cash entry for a member.
func (s *Service) AddIncome(ctx context.Context, memberID int, date string, amount float64, note string) (model.Income, error) {
	snap, err := s.snapshot()
	if err != nil {
		return model.Income{}, err
	}
	if !memberExists(snap.members, memberID) {
		return model.Income{}, fmt.Errorf("%w: %d", ErrMemberNotFound, memberID)
	}

	in := model.Income{
		ID:       uuid.NewString(),
		MemberID: memberID,
		Date:     date,
		Amount:   amount,
		Note:     note,
	}
	if err := s.store.Save(ctx, model.CollectionIncomes, in.ID, in); err != nil {
		return model.Income{}, err
	}
	if err := s.Reload(ctx); err != nil {
		return model.Income{}, err
	}
	return in, nil
}

// SeasonPrizes sums the prize money won across every played round,
// counting both primary and doubles columns.
func (s *Service) SeasonPrizes(ctx context.Context) (prize.Totals, error) {
	snap, err := s.snapshot()
	if err != nil {
		return prize.Totals{}, err
	}
	return prize.SeasonTotal(snap.rounds, snap.predictions, snap.doubles), nil
}

// LedgerLines computes the full movement list for the season.
func (s *Service) LedgerLines(ctx context.Context) ([]ledger.Line, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return ledger.Movements(snap.members, snap.rounds, snap.predictions, snap.doubles, snap.incomes, snap.ledgerCfg, snap.rules), nil
}

// Fund returns the pooled bote after all movements.
func (s *Service) Fund(ctx context.Context) (float64, error) {
	snap, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	lines := ledger.Movements(snap.members, snap.rounds, snap.predictions, snap.doubles, snap.incomes, snap.ledgerCfg, snap.rules)
	return ledger.Fund(lines, snap.ledgerCfg), nil
}

// ExportCSV writes the ledger in the fixed export column order.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	lines, err := s.LedgerLines(ctx)
	if err != nil {
		return err
	}
	return ledger.WriteCSV(w, lines)
}

// NextRound returns the first unplayed round in number order, for the
// submission-deadline reminder.
func (s *Service) NextRound(ctx context.Context) (model.Round, bool) {
	snap, err := s.snapshot()
	if err != nil {
		return model.Round{}, false
	}
	var next model.Round
	found := false
	for _, r := range snap.rounds {
		if r.Played() {
			continue
		}
		if !found || r.Number < next.Number {
			next = r
			found = true
		}
	}
	return next, found
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.snap != nil {
		stats["members"] = len(s.snap.members)
		stats["rounds"] = len(s.snap.rounds)
		stats["playedRounds"] = len(s.snap.summary.Rounds)
		stats["predictions"] = len(s.snap.predictions)
		stats["loadedAt"] = s.snap.loadedAt.UTC().Format(time.RFC3339)
	}
	return stats
}

func memberExists(members []model.Member, id int) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func roundExists(rounds []model.Round, id string) bool {
	for _, r := range rounds {
		if r.ID == id {
			return true
		}
	}
	return false
}

func sortRoundInfos(infos []RoundInfo) {
	slices.SortFunc(infos, func(a, b RoundInfo) int {
		return cmp.Compare(a.Number, b.Number)
	})
}
