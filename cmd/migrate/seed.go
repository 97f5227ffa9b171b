package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/sale-notifier/internal/models/m_contact"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale_item"
	"github.com/light-bringer/sale-notifier/internal/pkg/committer"
)

const (
	demoTaxID  = "111.111.111-11"
	demoSaleID = "999"
)

// seedDemoSale writes one contact and one complete sale so that
// "sale-notifier probe 999 --contact 111.111.111-11" has data to find.
func seedDemoSale(ctx context.Context, dbPath string) error {
	client, err := spanner.NewClient(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	if err := committer.NewCommitter(client).Apply(ctx, demoPlan(time.Now())); err != nil {
		return fmt.Errorf("failed to write demo sale: %w", err)
	}
	return nil
}

func demoPlan(saleDate time.Time) *committer.Plan {
	num := func(s string) spanner.NullNumeric {
		r, _ := new(big.Rat).SetString(s)
		return spanner.NullNumeric{Numeric: *r, Valid: true}
	}

	contact := m_contact.NewModel().UpsertMut(&m_contact.Data{
		ContactID: "demo-contact",
		TaxID:     demoTaxID,
		Name:      spanner.NullString{StringVal: "Demo Client", Valid: true},
		Email:     spanner.NullString{StringVal: "demo@example.com", Valid: true},
	})

	sale := m_sale.NewModel().UpsertMut(&m_sale.Data{
		SaleID:        demoSaleID,
		ContactTaxID:  spanner.NullString{StringVal: demoTaxID, Valid: true},
		SaleDate:      saleDate,
		Discount:      num("0"),
		TotalPaid:     num("27.50"),
		PaymentMethod: spanner.NullString{StringVal: "pix", Valid: true},
	})

	items := m_sale_item.NewModel()
	return committer.NewPlan().Add(
		contact,
		sale,
		items.UpsertMut(&m_sale_item.Data{
			SaleID: demoSaleID, Position: 1, ItemID: "cafe-250",
			Description: "Cafe especial 250g", Quantity: num("1"), UnitPrice: num("19.90"), Discount: num("0"),
		}),
		items.UpsertMut(&m_sale_item.Data{
			SaleID: demoSaleID, Position: 2, ItemID: "pao-queijo",
			Description: "Pao de queijo", Quantity: num("4"), UnitPrice: num("1.90"), Discount: num("0"),
		}),
	)
}
