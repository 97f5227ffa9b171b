package m_sale

// Field name constants for the sales table.
const (
	TableName = "sales"

	SaleID        = "sale_id"
	ContactTaxID  = "contact_tax_id"
	SaleDate      = "sale_date"
	Discount      = "discount"
	TotalPaid     = "total_paid"
	PaymentMethod = "payment_method"
	IngestedAt    = "ingested_at"
)

// FullPricePaymentMethods are the payment methods that count towards loyalty spend.
var FullPricePaymentMethods = []string{"credito", "debito", "pix", "multiplas", "dinheiro"}
