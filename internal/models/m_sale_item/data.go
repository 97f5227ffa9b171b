package m_sale_item

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the sale_items table.
type Data struct {
	SaleID      string              `spanner:"sale_id"`
	Position    int64               `spanner:"position"`
	ItemID      string              `spanner:"item_id"`
	Description string              `spanner:"description"`
	Quantity    spanner.NullNumeric `spanner:"quantity"`
	UnitPrice   spanner.NullNumeric `spanner:"unit_price"`
	Discount    spanner.NullNumeric `spanner:"discount"`
}
