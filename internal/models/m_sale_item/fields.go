package m_sale_item

// Field name constants for the sale_items table (interleaved in sales).
const (
	TableName = "sale_items"

	SaleID      = "sale_id"
	Position    = "position"
	ItemID      = "item_id"
	Description = "description"
	Quantity    = "quantity"
	UnitPrice   = "unit_price"
	Discount    = "discount"
)
