package m_sale

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the sales table.
// Sale-level amounts are nullable because the ingestion pipeline may write
// the header before it has settled totals.
type Data struct {
	SaleID        string              `spanner:"sale_id"`
	ContactTaxID  spanner.NullString  `spanner:"contact_tax_id"`
	SaleDate      time.Time           `spanner:"sale_date"`
	Discount      spanner.NullNumeric `spanner:"discount"`
	TotalPaid     spanner.NullNumeric `spanner:"total_paid"`
	PaymentMethod spanner.NullString  `spanner:"payment_method"`
}
