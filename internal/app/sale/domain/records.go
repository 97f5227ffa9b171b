package domain

import "time"

// RecordSource tags which store a record was resolved from.
type RecordSource string

const (
	SourceAnalytical     RecordSource = "ANALYTICAL"
	SourceSourceOfRecord RecordSource = "SOURCE_OF_RECORD"
)

// ContactRecord is a client resolved from one of the stores.
// An empty Email is a valid terminal state: the client has no e-mail on file.
type ContactRecord struct {
	Key    string
	Name   string
	Email  string
	Source RecordSource
}

// HasEmail reports whether the contact can be notified.
func (c *ContactRecord) HasEmail() bool {
	return c.Email != ""
}

// LineItem is one product line of a sale.
type LineItem struct {
	ID        string
	Name      string
	Quantity  *Decimal
	UnitPrice *Decimal
	LineTotal *Decimal
}

// Totals holds the sale-level amounts.
type Totals struct {
	Subtotal      *Decimal
	Discount      *Decimal
	Paid          *Decimal
	PaymentMethod string
}

// PurchaseRecord is a fully resolved sale. LineItems is never empty.
type PurchaseRecord struct {
	ID        string
	LineItems []LineItem
	Totals    Totals
	Source    RecordSource
}

// AttemptOutcome is the result of one purchase probe.
type AttemptOutcome string

const (
	AttemptFound    AttemptOutcome = "FOUND"
	AttemptNotFound AttemptOutcome = "NOT_FOUND"
	AttemptError    AttemptOutcome = "ERROR"
)

// ResolutionAttempt describes one probe made by the retry scheduler.
// It is reported to observers and logs, never persisted.
type ResolutionAttempt struct {
	PurchaseID  string
	Attempt     int
	ElapsedWait time.Duration
	Outcome     AttemptOutcome
	Err         error
}

// LoyaltySummary aggregates the client's visit and spend history.
type LoyaltySummary struct {
	DailyCheckins int64
	QuarterSpend  *Decimal
	LifetimeSpend *Decimal
}

// EmptyLoyalty returns a summary with every aggregate at zero.
func EmptyLoyalty() LoyaltySummary {
	return LoyaltySummary{QuarterSpend: Zero(), LifetimeSpend: Zero()}
}

// Notification is everything the dispatcher needs to e-mail one client about one sale.
type Notification struct {
	SaleID     string
	ClientName string
	Contact    *ContactRecord
	Purchase   *PurchaseRecord
	Loyalty    LoyaltySummary
	InvoiceURL string
}

// DispatchResult is returned by a successful send.
type DispatchResult struct {
	DispatchID string
	Recipient  string
	StatusCode int
}
