package process_sale

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// loyaltySummary runs the three aggregates concurrently. Each one is
// best-effort and stays at zero when its query fails.
func (i *Interactor) loyaltySummary(ctx context.Context, log *slog.Logger, taxID string) domain.LoyaltySummary {
	summary := domain.EmptyLoyalty()
	if i.loyalty == nil {
		return summary
	}

	quarterStart, quarterEnd := QuarterBounds(i.clock.Now(), i.location)

	var g errgroup.Group
	g.Go(func() error {
		days, err := i.loyalty.CountSaleDays(ctx, taxID, quarterStart, quarterEnd)
		if err != nil {
			log.Error("daily_checkins_failed", "error", err)
			return nil
		}
		summary.DailyCheckins = days
		return nil
	})
	g.Go(func() error {
		spend, err := i.loyalty.FullPriceSpend(ctx, taxID, quarterStart, quarterEnd)
		if err != nil {
			log.Error("quarter_spend_failed", "error", err)
			return nil
		}
		summary.QuarterSpend = spend
		return nil
	})
	g.Go(func() error {
		spend, err := i.loyalty.FullPriceSpend(ctx, taxID, i.loyaltySince, quarterEnd)
		if err != nil {
			log.Error("lifetime_spend_failed", "error", err)
			return nil
		}
		summary.LifetimeSpend = spend
		return nil
	})
	_ = g.Wait()

	log.Info("loyalty_summary",
		"daily_checkins", summary.DailyCheckins,
		"quarter_spend", summary.QuarterSpend.String(),
		"lifetime_spend", summary.LifetimeSpend.String(),
	)
	return summary
}

// QuarterBounds returns [start, end) of the calendar quarter containing t in loc.
func QuarterBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	firstMonth := time.Month((int(local.Month())-1)/3*3 + 1)
	start := time.Date(local.Year(), firstMonth, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 3, 0)
}
