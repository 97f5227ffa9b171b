package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) *Decimal {
	t.Helper()
	d, err := ParseDecimal(s)
	require.NoError(t, err)
	return d
}

func TestBuildPurchase(t *testing.T) {
	t.Run("complete purchase derives line totals and subtotal", func(t *testing.T) {
		items := []LineItemInput{
			{ID: "1", Name: "Coffee", Quantity: dec(t, "2"), UnitPrice: dec(t, "7.50")},
			{ID: "2", Name: "Bread", Quantity: dec(t, "0.5"), UnitPrice: dec(t, "12")},
		}

		p, err := BuildPurchase("999", SourceAnalytical, items, dec(t, "1"), dec(t, "20"), "pix")
		require.NoError(t, err)

		require.Len(t, p.LineItems, 2)
		assert.Equal(t, "15.00", p.LineItems[0].LineTotal.String())
		assert.Equal(t, "6.00", p.LineItems[1].LineTotal.String())
		assert.Equal(t, "21.00", p.Totals.Subtotal.String())
		assert.Equal(t, "pix", p.Totals.PaymentMethod)
		assert.Equal(t, SourceAnalytical, p.Source)
	})

	t.Run("no line items is not available", func(t *testing.T) {
		_, err := BuildPurchase("999", SourceAnalytical, nil, dec(t, "0"), dec(t, "20"), "pix")
		assert.ErrorIs(t, err, ErrNotAvailable)
	})

	t.Run("partial line item is not available", func(t *testing.T) {
		items := []LineItemInput{{ID: "1", Name: "Coffee", Quantity: dec(t, "1")}}
		_, err := BuildPurchase("999", SourceAnalytical, items, dec(t, "0"), dec(t, "20"), "pix")
		assert.ErrorIs(t, err, ErrNotAvailable)
	})

	t.Run("missing totals are not available", func(t *testing.T) {
		items := []LineItemInput{{ID: "1", Name: "Coffee", Quantity: dec(t, "1"), UnitPrice: dec(t, "1")}}

		_, err := BuildPurchase("999", SourceAnalytical, items, nil, dec(t, "1"), "pix")
		assert.ErrorIs(t, err, ErrNotAvailable)

		_, err = BuildPurchase("999", SourceAnalytical, items, dec(t, "0"), nil, "pix")
		assert.ErrorIs(t, err, ErrNotAvailable)

		_, err = BuildPurchase("999", SourceAnalytical, items, dec(t, "0"), dec(t, "1"), "")
		assert.ErrorIs(t, err, ErrNotAvailable)
	})
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")

	t.Run("transient survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("failed to query: %w", Transient("query", base))
		assert.True(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.ErrorIs(t, err, base)
	})

	t.Run("permanent survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("failed to query: %w", Permanent("query", base))
		assert.True(t, IsPermanent(err))
		assert.False(t, IsTransient(err))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Transient("op", nil))
		assert.NoError(t, Permanent("op", nil))
	})

	t.Run("exhausted retries carries attempts and elapsed", func(t *testing.T) {
		err := error(&ExhaustedRetriesError{ID: "999", Attempts: 4, Elapsed: 14 * time.Second, LastErr: ErrNotAvailable})

		var exhausted *ExhaustedRetriesError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 4, exhausted.Attempts)
		assert.ErrorIs(t, err, ErrNotAvailable)
		assert.Equal(t, "purchase 999 still unavailable after 4 attempts (14s waited)", err.Error())
	})

	t.Run("exhausted retries mentions a transient last error", func(t *testing.T) {
		err := &ExhaustedRetriesError{ID: "1", Attempts: 2, LastErr: Transient("query", base)}
		assert.Contains(t, err.Error(), "last error")
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "SENT", Sent("abc").String())
	assert.Equal(t, "SKIPPED(no email on file)", Skipped("no email on file").String())
	assert.Equal(t, "FAILED(boom)", Failed(errors.New("boom")).String())
}

func TestParseSaleEvent(t *testing.T) {
	v := validator.New()

	t.Run("numeric id and full client", func(t *testing.T) {
		ev, err := ParseSaleEvent([]byte(`{"dados":{"id":999,"cliente":{"nome":"Ana","cpfCnpj":"111.111.111-11"}}}`), v)
		require.NoError(t, err)
		assert.Equal(t, "999", ev.SaleID())
		assert.Equal(t, "111.111.111-11", ev.TaxID())
		assert.Equal(t, "Ana", ev.ClientName())
	})

	t.Run("missing client name falls back", func(t *testing.T) {
		ev, err := ParseSaleEvent([]byte(`{"dados":{"id":"42"}}`), v)
		require.NoError(t, err)
		assert.Equal(t, UnknownClientName, ev.ClientName())
		assert.Empty(t, ev.TaxID())
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"dados":`},
		{"missing dados", `{}`},
		{"missing id", `{"dados":{"cliente":{"nome":"Ana"}}}`},
		{"blank id", `{"dados":{"id":"   "}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSaleEvent([]byte(tt.raw), v)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPayload)
			assert.True(t, IsPermanent(err))
		})
	}
}
