package m_sale

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the sales table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that writes a sale header.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			SaleID,
			ContactTaxID,
			SaleDate,
			Discount,
			TotalPaid,
			PaymentMethod,
			IngestedAt,
		},
		[]interface{}{
			data.SaleID,
			data.ContactTaxID,
			data.SaleDate,
			data.Discount,
			data.TotalPaid,
			data.PaymentMethod,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut removes a sale header; interleaved items go with it.
func (m *Model) DeleteMut(saleID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{saleID})
}
