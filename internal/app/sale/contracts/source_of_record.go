package contracts

import (
	"context"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// SourceOfRecord defines synchronous reads against the authoritative ERP API.
type SourceOfRecord interface {
	// GetContact returns domain.ErrNotFound when the ERP has no such contact.
	// The returned record may have an empty Email.
	GetContact(ctx context.Context, taxID string) (*domain.ContactRecord, error)

	// GetPurchase returns domain.ErrNotFound for unknown ids and
	// domain.ErrNotAvailable when the sale has no usable lines.
	GetPurchase(ctx context.Context, saleID string) (*domain.PurchaseRecord, error)
}

// TaxDocuments issues and locates the consumer tax document (NFC-e) for a sale.
type TaxDocuments interface {
	// IssueInvoice asks the ERP to emit the NFC-e for the sale and returns its id.
	IssueInvoice(ctx context.Context, saleID string) (string, error)

	// InvoiceLink returns the public URL of an issued document.
	InvoiceLink(ctx context.Context, invoiceID string) (string, error)
}
