package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// ContactRow is one contacts row matching a tax id. Email is "" when NULL.
type ContactRow struct {
	ContactID string
	TaxID     string
	Name      string
	Email     string
}

// PurchaseRow is one row of the sale header LEFT JOIN sale_items result.
// A header whose items have not landed yet yields a single row with an
// empty ItemID. Nil amounts mean the column was NULL.
type PurchaseRow struct {
	SaleID        string
	ItemID        string
	ItemName      string
	Quantity      *domain.Decimal
	UnitPrice     *domain.Decimal
	Discount      *domain.Decimal
	TotalPaid     *domain.Decimal
	PaymentMethod string
}

// AnalyticalStore defines read-only access to the eventually consistent
// analytical copy of the ERP. Implementations classify failures as
// domain.TransientError or domain.PermanentError.
type AnalyticalStore interface {
	// FindContacts returns every contact row for the tax id (possibly none).
	FindContacts(ctx context.Context, taxID string) ([]ContactRow, error)

	// FindPurchaseRows returns the header/item rows for a sale, ordered by item position.
	FindPurchaseRows(ctx context.Context, saleID string) ([]PurchaseRow, error)
}

// LoyaltyReader computes per-client aggregates over [from, to).
type LoyaltyReader interface {
	// CountSaleDays counts the distinct calendar days with at least one sale.
	CountSaleDays(ctx context.Context, taxID string, from, to time.Time) (int64, error)

	// FullPriceSpend sums total_paid for sales with no sale or item discount
	// paid with a qualifying payment method.
	FullPriceSpend(ctx context.Context, taxID string, from, to time.Time) (*domain.Decimal, error)
}
