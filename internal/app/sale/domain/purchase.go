package domain

// LineItemInput is a raw line as read from either store, before totals are derived.
type LineItemInput struct {
	ID        string
	Name      string
	Quantity  *Decimal
	UnitPrice *Decimal
}

// BuildPurchase normalizes raw lines and sale-level fields into a PurchaseRecord.
// It returns ErrNotAvailable when there are no lines, when any line lacks a
// quantity or price, or when a required total is missing: line items are
// written after the sale header, so any gap means propagation is incomplete.
func BuildPurchase(
	id string,
	source RecordSource,
	items []LineItemInput,
	discount *Decimal,
	paid *Decimal,
	paymentMethod string,
) (*PurchaseRecord, error) {
	if len(items) == 0 || discount == nil || paid == nil || paymentMethod == "" {
		return nil, ErrNotAvailable
	}

	subtotal := Zero()
	lines := make([]LineItem, 0, len(items))
	for _, in := range items {
		if in.Quantity == nil || in.UnitPrice == nil {
			return nil, ErrNotAvailable
		}
		lineTotal := in.Quantity.Mul(in.UnitPrice)
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, LineItem{
			ID:        in.ID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	return &PurchaseRecord{
		ID:        id,
		LineItems: lines,
		Totals: Totals{
			Subtotal:      subtotal,
			Discount:      discount,
			Paid:          paid,
			PaymentMethod: paymentMethod,
		},
		Source: source,
	}, nil
}
