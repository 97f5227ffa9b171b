package process_sale

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/pkg/clock"
)

// Skip reasons reported in SKIPPED outcomes.
const (
	ReasonMissingTaxID    = "missing tax id"
	ReasonContactNotFound = "contact not found"
	ReasonNoEmail         = "no email on file"
)

// ContactResolver resolves a tax id into a contact.
type ContactResolver interface {
	ResolveContact(ctx context.Context, key string) (*domain.ContactRecord, error)
}

// PurchaseFetcher returns a fully propagated purchase, waiting if needed.
type PurchaseFetcher interface {
	FetchPurchase(ctx context.Context, id string) (*domain.PurchaseRecord, error)
}

// Option configures an Interactor.
type Option func(*Interactor)

// WithTaxDocuments enables NFC-e issuing and the invoice link in the e-mail.
func WithTaxDocuments(td contracts.TaxDocuments) Option {
	return func(i *Interactor) { i.invoices = td }
}

// WithLoyalty enables the loyalty aggregates. since is the programme start;
// loc is the zone quarters are computed in.
func WithLoyalty(reader contracts.LoyaltyReader, since time.Time, loc *time.Location) Option {
	return func(i *Interactor) {
		i.loyalty = reader
		i.loyaltySince = since
		if loc != nil {
			i.location = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(i *Interactor) { i.log = log }
}

// Interactor handles one sale event end to end.
type Interactor struct {
	contacts   ContactResolver
	purchases  PurchaseFetcher
	dispatcher contracts.Dispatcher
	clock      clock.Clock
	validate   *validator.Validate

	invoices     contracts.TaxDocuments
	loyalty      contracts.LoyaltyReader
	loyaltySince time.Time
	location     *time.Location
	log          *slog.Logger
}

// NewInteractor creates a new process sale interactor.
func NewInteractor(
	contacts ContactResolver,
	purchases PurchaseFetcher,
	dispatcher contracts.Dispatcher,
	clock clock.Clock,
	opts ...Option,
) *Interactor {
	i := &Interactor{
		contacts:   contacts,
		purchases:  purchases,
		dispatcher: dispatcher,
		clock:      clock,
		validate:   validator.New(),
		location:   time.UTC,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Execute processes a raw webhook payload. It never panics or returns an
// error: every terminal state is an Outcome, logged once here.
func (i *Interactor) Execute(ctx context.Context, raw []byte) domain.Outcome {
	log := i.log.With("invocation_id", uuid.NewString())
	start := i.clock.Now()

	// 1. Parse and validate the payload
	var outcome domain.Outcome
	event, err := domain.ParseSaleEvent(raw, i.validate)
	if err != nil {
		outcome = domain.Failed(err)
	} else {
		log = log.With("sale_id", event.SaleID())
		outcome = i.process(ctx, log, event)
	}

	attrs := []any{"outcome", outcome.Status, "duration", i.clock.Now().Sub(start).String()}
	switch outcome.Status {
	case domain.OutcomeFailed:
		log.Error("sale_event_failed", append(attrs, "error", outcome.Err)...)
	case domain.OutcomeSkipped:
		log.Warn("sale_event_skipped", append(attrs, "reason", outcome.Reason)...)
	default:
		log.Info("sale_event_sent", append(attrs, "dispatch_id", outcome.DispatchID)...)
	}
	return outcome
}

func (i *Interactor) process(ctx context.Context, log *slog.Logger, event *domain.SaleEvent) domain.Outcome {
	saleID := event.SaleID()

	// 2. Issue the tax document; the sale is invoiced even when no e-mail goes out
	invoiceID := i.issueInvoice(ctx, log, saleID)

	// 3. Identify the client
	taxID := event.TaxID()
	if taxID == "" {
		return domain.Skipped(ReasonMissingTaxID)
	}

	// 4. Resolve the contact (single cross-source lookup, no waiting)
	contact, err := i.contacts.ResolveContact(ctx, taxID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Skipped(ReasonContactNotFound)
	}
	if err != nil {
		return domain.Failed(err)
	}
	if !contact.HasEmail() {
		return domain.Skipped(ReasonNoEmail)
	}

	// 5. Wait for the purchase to propagate
	purchase, err := i.purchases.FetchPurchase(ctx, saleID)
	if err != nil {
		return domain.Failed(err)
	}

	// 6. Best-effort enrichment
	invoiceURL := i.invoiceLink(ctx, log, invoiceID)
	loyalty := i.loyaltySummary(ctx, log, taxID)

	// 7. Send exactly once
	result, err := i.dispatcher.Send(ctx, &domain.Notification{
		SaleID:     saleID,
		ClientName: event.ClientName(),
		Contact:    contact,
		Purchase:   purchase,
		Loyalty:    loyalty,
		InvoiceURL: invoiceURL,
	})
	if err != nil {
		return domain.Failed(err)
	}

	return domain.Sent(result.DispatchID)
}

func (i *Interactor) issueInvoice(ctx context.Context, log *slog.Logger, saleID string) string {
	if i.invoices == nil {
		return ""
	}
	id, err := i.invoices.IssueInvoice(ctx, saleID)
	if err != nil {
		log.Error("invoice_issue_failed", "error", err)
		return ""
	}
	log.Info("invoice_issued", "invoice_id", id)
	return id
}

func (i *Interactor) invoiceLink(ctx context.Context, log *slog.Logger, invoiceID string) string {
	if i.invoices == nil || invoiceID == "" {
		return ""
	}
	link, err := i.invoices.InvoiceLink(ctx, invoiceID)
	if err != nil {
		log.Error("invoice_link_failed", "invoice_id", invoiceID, "error", err)
		return ""
	}
	return link
}
