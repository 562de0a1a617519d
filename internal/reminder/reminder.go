// Package reminder runs the periodic submission-deadline notice: it
// looks up the next unplayed round and logs how long members have left
// to hand in their predictions.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/pkg/logger"
)

// deadlineHour is the local hour on the round date when submissions
// close.
const deadlineHour = 17

// RoundSource yields the next round awaiting submissions.
type RoundSource interface {
	NextRound(ctx context.Context) (model.Round, bool)
}

// Reminder schedules the deadline notice on a cron expression.
type Reminder struct {
	cron   *cron.Cron
	source RoundSource
	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Reminder.
type Option func(*Reminder)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reminder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reminder) {
		if now != nil {
			r.now = now
		}
	}
}

// New builds a Reminder over the given round source.
func New(source RoundSource, opts ...Option) *Reminder {
	r := &Reminder{
		cron:   cron.New(),
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("reminder")
	}
	return r
}

// Start registers the notice on the cron expression and starts the
// scheduler.
func (r *Reminder) Start(ctx context.Context, spec string) error {
	if _, err := r.cron.AddFunc(spec, func() { r.Announce(ctx) }); err != nil {
		return fmt.Errorf("register reminder: %w", err)
	}
	r.cron.Start()
	r.logger.Info(ctx, "reminder scheduled", logger.String("cron", spec))
	return nil
}

// Stop stops the scheduler gracefully.
func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Announce logs the next submission deadline. Rounds without a
// parseable date cannot be announced and are skipped.
func (r *Reminder) Announce(ctx context.Context) {
	round, ok := r.source.NextRound(ctx)
	if !ok {
		r.logger.Info(ctx, "no pending round to remind about")
		return
	}
	deadline, ok := r.Deadline(round)
	if !ok {
		r.logger.Warn(ctx, "pending round has no usable date",
			logger.Int("round", round.Number),
			logger.String("date", round.Date),
		)
		return
	}

	remaining := deadline.Sub(r.now())
	if remaining < 0 {
		r.logger.Info(ctx, "submission deadline already passed",
			logger.Int("round", round.Number),
			logger.String("deadline", deadline.Format(time.RFC3339)),
		)
		return
	}
	r.logger.Info(ctx, "submission deadline approaching",
		logger.Int("round", round.Number),
		logger.String("deadline", deadline.Format(time.RFC3339)),
		logger.String("remaining", remaining.Round(time.Minute).String()),
	)
}

// Deadline is the submission cutoff for a round: its date at the
// deadline hour.
func (r *Reminder) Deadline(round model.Round) (time.Time, bool) {
	date, ok := round.ParsedDate()
	if !ok {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), deadlineHour, 0, 0, 0, date.Location()), true
}
