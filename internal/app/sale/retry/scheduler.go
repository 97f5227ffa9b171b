// Package retry polls the analytical store for a purchase until it has
// fully propagated, with exponential backoff between probes.
package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/pkg/clock"
)

// PurchaseProbe is a single, side-effect free purchase lookup.
type PurchaseProbe interface {
	ResolvePurchase(ctx context.Context, id string) (*domain.PurchaseRecord, error)
}

// Observer receives every probe the scheduler makes.
type Observer func(domain.ResolutionAttempt)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver registers fn to be called after each probe.
func WithObserver(fn Observer) Option {
	return func(s *Scheduler) { s.observer = fn }
}

// WithFallback sets the ERP consulted once when attempts run out and the
// policy enables PurchaseFallback.
func WithFallback(sor contracts.SourceOfRecord) Option {
	return func(s *Scheduler) { s.fallback = sor }
}

// WithLogger sets the scheduler logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// Scheduler drives PurchaseProbe across attempts.
type Scheduler struct {
	probe    PurchaseProbe
	policy   Policy
	clock    clock.Clock
	fallback contracts.SourceOfRecord
	observer Observer
	log      *slog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(probe PurchaseProbe, policy Policy, clk clock.Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		probe:  probe,
		policy: policy,
		clock:  clk,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the scheduler's policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// FetchPurchase probes until the purchase is found, a permanent error
// occurs, or the attempts or wait budget run out.
//
// Not-available and transient results are retried. Anything else,
// including unclassified errors, is returned immediately. Running out of
// attempts, of MaxElapsed or of time before the context deadline yields
// *domain.ExhaustedRetriesError; a wait that would outlive the deadline is
// never started. A cancelled wait is returned as a permanent error.
func (s *Scheduler) FetchPurchase(ctx context.Context, id string) (*domain.PurchaseRecord, error) {
	maxAttempts := s.policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		waited  time.Duration
		lastErr error
		attempt int
	)

	for attempt = 1; ; attempt++ {
		rec, err := s.probe.ResolvePurchase(ctx, id)
		s.report(id, attempt, waited, err)

		if err == nil {
			s.log.Info("purchase_resolved", "sale_id", id, "attempt", attempt, "waited", waited.String())
			return rec, nil
		}
		if !retryable(err) {
			s.log.Error("purchase_probe_failed", "sale_id", id, "attempt", attempt, "error", err)
			return nil, err
		}
		lastErr = err

		if attempt >= maxAttempts {
			break
		}

		wait := s.policy.Delay(attempt)
		if limit := s.waitLimit(ctx, waited, wait); limit != "" {
			s.log.Warn("purchase_wait_budget_exhausted",
				"sale_id", id,
				"attempt", attempt,
				"waited", waited.String(),
				"next_wait", wait.String(),
				"limit", limit,
			)
			break
		}

		s.log.Info("purchase_not_available",
			"sale_id", id,
			"attempt", attempt,
			"next_wait", wait.String(),
			"error", err,
		)
		if err := s.clock.Sleep(ctx, wait); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				s.log.Warn("purchase_wait_budget_exhausted", "sale_id", id, "attempt", attempt, "limit", "deadline")
				break
			}
			return nil, domain.Permanent("fetch purchase", err)
		}
		waited += wait
	}

	exhausted := &domain.ExhaustedRetriesError{
		ID:       id,
		Attempts: attempt,
		Elapsed:  waited,
		LastErr:  lastErr,
	}

	if s.policy.PurchaseFallback && s.fallback != nil {
		return s.fetchFromFallback(ctx, id, exhausted)
	}

	s.log.Error("purchase_retries_exhausted", "sale_id", id, "attempts", attempt, "waited", waited.String())
	return nil, exhausted
}

// waitLimit names the limit the next wait would cross, or "" when the
// wait fits both MaxElapsed and the context deadline.
func (s *Scheduler) waitLimit(ctx context.Context, waited, wait time.Duration) string {
	if s.policy.MaxElapsed > 0 && waited+wait > s.policy.MaxElapsed {
		return "max_elapsed"
	}
	if deadline, ok := ctx.Deadline(); ok && s.clock.Now().Add(wait).After(deadline) {
		return "deadline"
	}
	return ""
}

func (s *Scheduler) fetchFromFallback(ctx context.Context, id string, exhausted *domain.ExhaustedRetriesError) (*domain.PurchaseRecord, error) {
	rec, err := s.fallback.GetPurchase(ctx, id)
	if err != nil {
		s.log.Error("purchase_fallback_failed",
			"sale_id", id,
			"attempts", exhausted.Attempts,
			"error", err,
		)
		return nil, exhausted
	}

	rec.Source = domain.SourceSourceOfRecord
	s.log.Info("purchase_resolved_from_fallback", "sale_id", id, "attempts", exhausted.Attempts)
	return rec, nil
}

func (s *Scheduler) report(id string, attempt int, waited time.Duration, err error) {
	if s.observer == nil {
		return
	}

	outcome := domain.AttemptFound
	switch {
	case errors.Is(err, domain.ErrNotAvailable):
		outcome = domain.AttemptNotFound
	case err != nil:
		outcome = domain.AttemptError
	}

	s.observer(domain.ResolutionAttempt{
		PurchaseID:  id,
		Attempt:     attempt,
		ElapsedWait: waited,
		Outcome:     outcome,
		Err:         err,
	})
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrNotAvailable) || domain.IsTransient(err)
}
