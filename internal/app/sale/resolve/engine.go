// Package resolve turns entity keys into fully populated contact and
// purchase records, walking the available sources in order.
package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// Engine resolves contacts across sources and probes purchases once.
// It never waits or retries; the retry scheduler composes ResolvePurchase.
type Engine struct {
	contacts []ContactSource
	store    contracts.AnalyticalStore
	log      *slog.Logger
}

// NewEngine creates an Engine that tries the analytical store first and
// then sor. A nil sor leaves the analytical store as the only contact source.
func NewEngine(store contracts.AnalyticalStore, sor contracts.SourceOfRecord, log *slog.Logger) *Engine {
	sources := []ContactSource{NewAnalyticalContacts(store)}
	if sor != nil {
		sources = append(sources, NewSourceOfRecordContacts(sor))
	}
	return NewEngineWithSources(store, sources, log)
}

// NewEngineWithSources creates an Engine with an explicit contact strategy.
func NewEngineWithSources(store contracts.AnalyticalStore, sources []ContactSource, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{contacts: sources, store: store, log: log}
}

// ResolveContact returns the first usable contact for key. It fails fast
// on any source error and returns domain.ErrNotFound when no source knows
// the key. The returned record may have no e-mail.
func (e *Engine) ResolveContact(ctx context.Context, key string) (*domain.ContactRecord, error) {
	if strings.TrimSpace(key) == "" {
		return nil, domain.Permanent("resolve contact", domain.ErrEmptyKey)
	}

	for _, src := range e.contacts {
		rec, err := src.LookupContact(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			e.log.Debug("contact_not_in_source", "source", src.Name())
			continue
		}
		if err != nil {
			e.log.Warn("contact_lookup_failed", "source", src.Name(), "error", err)
			return nil, err
		}

		e.log.Info("contact_resolved", "source", rec.Source, "has_email", rec.HasEmail())
		return rec, nil
	}

	return nil, domain.ErrNotFound
}

// ResolvePurchase probes the analytical store once. A missing sale, a
// header without items or a row missing any required total all yield
// domain.ErrNotAvailable.
func (e *Engine) ResolvePurchase(ctx context.Context, id string) (*domain.PurchaseRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Permanent("resolve purchase", domain.ErrEmptyKey)
	}

	rows, err := e.store.FindPurchaseRows(ctx, id)
	if err != nil {
		return nil, err
	}

	return PurchaseFromRows(id, rows)
}

// PurchaseFromRows normalizes the joined sale/item rows of one sale.
// Rows produced by the outer join for a sale without items carry no item
// columns and are ignored.
func PurchaseFromRows(id string, rows []contracts.PurchaseRow) (*domain.PurchaseRecord, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNotAvailable
	}

	items := make([]domain.LineItemInput, 0, len(rows))
	for _, r := range rows {
		if r.ItemID == "" && r.ItemName == "" && r.Quantity == nil && r.UnitPrice == nil {
			continue
		}
		items = append(items, domain.LineItemInput{
			ID:        r.ItemID,
			Name:      r.ItemName,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}

	header := rows[0]
	return domain.BuildPurchase(
		id,
		domain.SourceAnalytical,
		items,
		header.Discount,
		header.TotalPaid,
		strings.TrimSpace(header.PaymentMethod),
	)
}
