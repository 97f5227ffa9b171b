package repo

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/models/m_contact"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale_item"
	"github.com/light-bringer/sale-notifier/internal/pkg/query"
)

// maxContactRows bounds the contact lookup; more than one row already
// means the analytical copy is ambiguous.
const maxContactRows = 10

// AnalyticalReadModel implements AnalyticalStore and LoyaltyReader on Spanner.
// Reads use bounded staleness: the analytical copy is allowed to lag, and
// stale reads are served by the nearest replica.
type AnalyticalReadModel struct {
	client    *spanner.Client
	staleness time.Duration
	location  string
}

var (
	_ contracts.AnalyticalStore = (*AnalyticalReadModel)(nil)
	_ contracts.LoyaltyReader   = (*AnalyticalReadModel)(nil)
)

// NewAnalyticalReadModel creates a read model. A zero staleness means strong reads.
// location is the IANA zone used to bucket sales into calendar days.
func NewAnalyticalReadModel(client *spanner.Client, staleness time.Duration, location string) *AnalyticalReadModel {
	return &AnalyticalReadModel{
		client:    client,
		staleness: staleness,
		location:  location,
	}
}

func (rm *AnalyticalReadModel) snapshot() *spanner.ReadOnlyTransaction {
	if rm.staleness <= 0 {
		return rm.client.Single()
	}
	return rm.client.Single().WithTimestampBound(spanner.MaxStaleness(rm.staleness))
}

// FindContacts returns every contact row for the tax id.
func (rm *AnalyticalReadModel) FindContacts(ctx context.Context, taxID string) ([]contracts.ContactRow, error) {
	iter := rm.snapshot().Query(ctx, contactStatement(taxID))
	defer iter.Stop()

	var rows []contracts.ContactRow
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify("find contacts", err)
		}

		var data m_contact.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, domain.Permanent("find contacts", err)
		}

		rows = append(rows, contracts.ContactRow{
			ContactID: data.ContactID,
			TaxID:     data.TaxID,
			Name:      data.Name.StringVal,
			Email:     data.Email.StringVal,
		})
	}

	return rows, nil
}

// FindPurchaseRows returns the sale header joined with its items.
func (rm *AnalyticalReadModel) FindPurchaseRows(ctx context.Context, saleID string) ([]contracts.PurchaseRow, error) {
	iter := rm.snapshot().Query(ctx, purchaseStatement(saleID))
	defer iter.Stop()

	var rows []contracts.PurchaseRow
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify("find purchase", err)
		}

		var (
			id            string
			itemID        spanner.NullString
			itemName      spanner.NullString
			quantity      spanner.NullNumeric
			unitPrice     spanner.NullNumeric
			discount      spanner.NullNumeric
			totalPaid     spanner.NullNumeric
			paymentMethod spanner.NullString
		)
		if err := row.Columns(&id, &itemID, &itemName, &quantity, &unitPrice, &discount, &totalPaid, &paymentMethod); err != nil {
			return nil, domain.Permanent("find purchase", err)
		}

		rows = append(rows, contracts.PurchaseRow{
			SaleID:        id,
			ItemID:        itemID.StringVal,
			ItemName:      itemName.StringVal,
			Quantity:      numericToDecimal(quantity),
			UnitPrice:     numericToDecimal(unitPrice),
			Discount:      numericToDecimal(discount),
			TotalPaid:     numericToDecimal(totalPaid),
			PaymentMethod: paymentMethod.StringVal,
		})
	}

	return rows, nil
}

func contactStatement(taxID string) spanner.Statement {
	return query.From(m_contact.TableName).
		Select(m_contact.NewModel().Columns()...).
		Where(query.Eq(m_contact.TaxID, taxID)).
		OrderBy(m_contact.UpdatedAt, query.Desc).
		Limit(maxContactRows).
		Build()
}

func purchaseStatement(saleID string) spanner.Statement {
	return query.From(m_sale.TableName+" s").
		Select(
			"s."+m_sale.SaleID,
			"i."+m_sale_item.ItemID,
			"i."+m_sale_item.Description,
			"i."+m_sale_item.Quantity,
			"i."+m_sale_item.UnitPrice,
			"s."+m_sale.Discount,
			"s."+m_sale.TotalPaid,
			"s."+m_sale.PaymentMethod,
		).
		LeftJoin(m_sale_item.TableName+" i", "i."+m_sale_item.SaleID+" = s."+m_sale.SaleID).
		Where(query.Eq("s."+m_sale.SaleID, saleID)).
		OrderBy("i."+m_sale_item.Position, query.Asc).
		Build()
}

func numericToDecimal(n spanner.NullNumeric) *domain.Decimal {
	if !n.Valid {
		return nil
	}
	return domain.NewDecimalFromRat(&n.Numeric)
}
