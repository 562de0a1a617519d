package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/maulas/quiniela/internal/adapters/repository"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/rules"
	"github.com/maulas/quiniela/pkg/logger"
)

// Run generates a demo season and writes it to the document store.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting demo season seed",
		logger.String("db", config.SQLitePath),
		logger.Int("members", config.NumMembers),
		logger.Int("rounds", config.NumRounds),
		logger.Int("played", config.NumPlayed))

	season, err := GenerateSeason(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("season generation failed: %w", err)
	}

	store, err := repository.NewSQLite(config.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Get().Warn(ctx, "failed to close store", logger.Error(err))
		}
	}()

	if err := writeSeason(ctx, store, season); err != nil {
		return fmt.Errorf("failed to write season: %w", err)
	}

	if config.BaseURL != "" {
		if err := verifyService(ctx, config, stats); err != nil {
			return fmt.Errorf("service verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "seed completed successfully")
	return nil
}

// writeSeason upserts every generated document plus the config singletons.
func writeSeason(ctx context.Context, store repository.Store, season *Season) error {
	for _, m := range season.Members {
		if err := store.Save(ctx, model.CollectionMembers, fmt.Sprintf("%d", m.ID), m); err != nil {
			return err
		}
	}
	for _, r := range season.Rounds {
		if err := store.Save(ctx, model.CollectionRounds, r.ID, r); err != nil {
			return err
		}
	}
	for _, p := range season.Predictions {
		if err := store.Save(ctx, model.CollectionPredictions, p.ID, p); err != nil {
			return err
		}
	}
	for _, d := range season.Doubles {
		if err := store.Save(ctx, model.CollectionDoubles, d.ID, d); err != nil {
			return err
		}
	}
	for _, in := range season.Incomes {
		if err := store.Save(ctx, model.CollectionIncomes, in.ID, in); err != nil {
			return err
		}
	}

	ruleDoc := struct {
		ID      string         `json:"id"`
		Changes []rules.Change `json:"changes"`
	}{
		ID:      model.DocRuleHistory,
		Changes: []rules.Change{{Rules: rules.Default}},
	}
	if err := store.Save(ctx, model.CollectionConfig, model.DocRuleHistory, ruleDoc); err != nil {
		return err
	}

	boteDoc := struct {
		ID string `json:"id"`
		model.LedgerConfig
	}{
		ID: model.DocLedgerConfig,
		LedgerConfig: model.LedgerConfig{
			ColumnCost:  0.75,
			DoublesCost: 12.00,
			WeeklyDue:   1.50,
			InitialFund: 0,
		},
	}
	return store.Save(ctx, model.CollectionConfig, model.DocLedgerConfig, boteDoc)
}

// displayFinalStats logs what was written.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("members", stats.MembersCreated),
		logger.Int("rounds", stats.RoundsCreated),
		logger.Int("predictions", stats.PredictionsCreated),
		logger.Int("doubles", stats.DoublesCreated),
		logger.Int("incomes", stats.IncomesCreated),
		logger.String("duration", stats.Duration.String()))
}
