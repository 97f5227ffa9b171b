package m_sale_item

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the sale_items table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that writes one sale line.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			SaleID,
			Position,
			ItemID,
			Description,
			Quantity,
			UnitPrice,
			Discount,
		},
		[]interface{}{
			data.SaleID,
			data.Position,
			data.ItemID,
			data.Description,
			data.Quantity,
			data.UnitPrice,
			data.Discount,
		},
	)
}
