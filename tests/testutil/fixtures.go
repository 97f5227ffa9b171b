package testutil

import (
	"context"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/sale-notifier/internal/models/m_contact"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale_item"
	"github.com/light-bringer/sale-notifier/internal/pkg/committer"
)

// Num builds a NullNumeric from a decimal string; "" yields NULL.
func Num(t *testing.T, s string) spanner.NullNumeric {
	t.Helper()

	if s == "" {
		return spanner.NullNumeric{}
	}
	r, ok := new(big.Rat).SetString(s)
	require.True(t, ok, "invalid numeric %q", s)
	return spanner.NullNumeric{Numeric: *r, Valid: true}
}

// Str builds a NullString; "" yields NULL.
func Str(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

// CreateTestContact writes a contact row and returns its id.
func CreateTestContact(t *testing.T, client *spanner.Client, taxID, name, email string) string {
	t.Helper()

	contactID := uuid.New().String()
	mut := m_contact.NewModel().UpsertMut(&m_contact.Data{
		ContactID: contactID,
		TaxID:     taxID,
		Name:      Str(name),
		Email:     Str(email),
	})

	err := committer.NewCommitter(client).Apply(context.Background(), committer.NewPlan().Add(mut))
	require.NoError(t, err, "failed to create test contact")

	return contactID
}

// TestItem is one line of a fixture sale. Empty amounts are written as NULL.
type TestItem struct {
	ItemID      string
	Description string
	Quantity    string
	UnitPrice   string
	Discount    string
}

// TestSale describes a fixture sale header.
type TestSale struct {
	SaleID        string
	TaxID         string
	SaleDate      time.Time
	Discount      string
	TotalPaid     string
	PaymentMethod string
	Items         []TestItem
}

// CreateTestSale writes a sale header and its lines in one commit.
func CreateTestSale(t *testing.T, client *spanner.Client, sale TestSale) {
	t.Helper()

	if sale.SaleID == "" {
		sale.SaleID = uuid.New().String()
	}
	if sale.SaleDate.IsZero() {
		sale.SaleDate = time.Now()
	}

	plan := committer.NewPlan().Add(m_sale.NewModel().UpsertMut(&m_sale.Data{
		SaleID:        sale.SaleID,
		ContactTaxID:  Str(sale.TaxID),
		SaleDate:      sale.SaleDate,
		Discount:      Num(t, sale.Discount),
		TotalPaid:     Num(t, sale.TotalPaid),
		PaymentMethod: Str(sale.PaymentMethod),
	}))

	items := m_sale_item.NewModel()
	for i, item := range sale.Items {
		plan.Add(items.UpsertMut(&m_sale_item.Data{
			SaleID:      sale.SaleID,
			Position:    int64(i + 1),
			ItemID:      item.ItemID,
			Description: item.Description,
			Quantity:    Num(t, item.Quantity),
			UnitPrice:   Num(t, item.UnitPrice),
			Discount:    Num(t, item.Discount),
		}))
	}

	err := committer.NewCommitter(client).Apply(context.Background(), plan)
	require.NoError(t, err, "failed to create test sale")
}
