package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale_item"
	"github.com/light-bringer/sale-notifier/internal/pkg/query"
)

// CountSaleDays counts distinct local calendar days with a sale in [from, to).
func (rm *AnalyticalReadModel) CountSaleDays(ctx context.Context, taxID string, from, to time.Time) (int64, error) {
	iter := rm.snapshot().Query(ctx, saleDaysStatement(taxID, from, to, rm.location))
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, classify("count sale days", err)
	}

	var days int64
	if err := row.Columns(&days); err != nil {
		return 0, domain.Permanent("count sale days", err)
	}
	return days, nil
}

// FullPriceSpend sums total_paid of full-price sales in [from, to).
func (rm *AnalyticalReadModel) FullPriceSpend(ctx context.Context, taxID string, from, to time.Time) (*domain.Decimal, error) {
	iter := rm.snapshot().Query(ctx, fullPriceSpendStatement(taxID, from, to))
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return nil, classify("full price spend", err)
	}

	var total spanner.NullNumeric
	if err := row.Columns(&total); err != nil {
		return nil, domain.Permanent("full price spend", err)
	}

	if d := numericToDecimal(total); d != nil {
		return d, nil
	}
	return domain.Zero(), nil
}

func saleDaysStatement(taxID string, from, to time.Time, location string) spanner.Statement {
	return query.From(m_sale.TableName).
		Select(fmt.Sprintf("COUNT(DISTINCT DATE(%s, '%s'))", m_sale.SaleDate, location)).
		Where(query.Eq(m_sale.ContactTaxID, taxID)).
		Where(query.Gte(m_sale.SaleDate, from)).
		Where(query.Lt(m_sale.SaleDate, to)).
		Build()
}

func fullPriceSpendStatement(taxID string, from, to time.Time) spanner.Statement {
	noItemDiscount := fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM %s i WHERE i.%s = %s.%s AND IFNULL(i.%s, 0) != 0)",
		m_sale_item.TableName, m_sale_item.SaleID, m_sale.TableName, m_sale.SaleID, m_sale_item.Discount,
	)

	return query.From(m_sale.TableName).
		Select(fmt.Sprintf("SUM(%s)", m_sale.TotalPaid)).
		Where(query.Eq(m_sale.ContactTaxID, taxID)).
		Where(query.Gte(m_sale.SaleDate, from)).
		Where(query.Lt(m_sale.SaleDate, to)).
		Where(query.In(m_sale.PaymentMethod, m_sale.FullPricePaymentMethods)).
		Where(query.Expr(fmt.Sprintf("IFNULL(%s, 0) = 0", m_sale.Discount))).
		Where(query.Expr(noItemDiscount)).
		Build()
}
