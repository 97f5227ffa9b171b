package tinyerp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// newTestClient points a Client at an httptest server running handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token", 2*time.Second, nil)
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_GetContact(t *testing.T) {
	t.Run("first contact is returned with source of record tag", func(t *testing.T) {
		var gotPath, gotQuery string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			respond(`{"retorno":{"status_processamento":3,"status":"OK","contatos":[
				{"contato":{"id":"7","nome":"Ana ","cpf_cnpj":"111.111.111-11","email":"a@b.com"}},
				{"contato":{"id":"8","nome":"Other","email":"x@y.com"}}]}}`)(w, r)
		})

		contact, err := c.GetContact(context.Background(), "111.111.111-11")
		require.NoError(t, err)

		assert.Equal(t, "/contatos.pesquisa.php", gotPath)
		assert.Contains(t, gotQuery, "token=secret-token")
		assert.Contains(t, gotQuery, "formato=JSON")
		assert.Contains(t, gotQuery, "cpf_cnpj=111.111.111-11")

		assert.Equal(t, "Ana", contact.Name)
		assert.Equal(t, "a@b.com", contact.Email)
		assert.Equal(t, "111.111.111-11", contact.Key)
		assert.Equal(t, domain.SourceSourceOfRecord, contact.Source)
	})

	t.Run("contact without email is still found", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"3","contatos":[{"contato":{"nome":"Ana","email":""}}]}}`))

		contact, err := c.GetContact(context.Background(), "1")
		require.NoError(t, err)
		assert.False(t, contact.HasEmail())
	})

	t.Run("no records is not found", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"1","codigo_erro":"20","erros":[{"erro":"A consulta nao retornou registros"}]}}`))

		_, err := c.GetContact(context.Background(), "1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty key is rejected without a request", func(t *testing.T) {
		called := false
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

		_, err := c.GetContact(context.Background(), "  ")
		assert.ErrorIs(t, err, domain.ErrEmptyKey)
		assert.False(t, called)
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transient bool
	}{
		{"server error", http.StatusBadGateway, `oops`, true},
		{"rate limited", http.StatusTooManyRequests, `slow down`, true},
		{"client error", http.StatusForbidden, `forbidden`, false},
		{"invalid token", http.StatusOK, `{"retorno":{"status_processamento":"1","codigo_erro":"1","erros":[{"erro":"token invalido"}]}}`, false},
		{"invalid parameter", http.StatusOK, `{"retorno":{"status_processamento":"2","erros":[{"erro":"cpf invalido"}]}}`, false},
		{"processing error", http.StatusOK, `{"retorno":{"status_processamento":"1","codigo_erro":"6","erros":[{"erro":"API bloqueada"}]}}`, true},
		{"malformed body", http.StatusOK, `<html>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetContact(context.Background(), "1")
			require.Error(t, err)
			assert.Equal(t, tt.transient, domain.IsTransient(err))
			assert.Equal(t, !tt.transient, domain.IsPermanent(err))
			assert.NotContains(t, err.Error(), "secret-token")
		})
	}

	t.Run("network failure is transient", func(t *testing.T) {
		srv := httptest.NewServer(respond(`{}`))
		srv.Close()
		c := NewClient(srv.URL, "secret-token", time.Second, nil)

		_, err := c.GetContact(context.Background(), "1")
		assert.True(t, domain.IsTransient(err))
		assert.NotContains(t, err.Error(), "secret-token")
	})
}

func TestClient_GetPurchase(t *testing.T) {
	t.Run("complete order is normalized", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"3","pedido":{
			"id":"999","valor_desconto":"1,00","total_pedido":"20.00","forma_pagamento":"pix",
			"itens":[
				{"item":{"id_produto":"10","descricao":"Coffee","quantidade":"2","valor_unitario":"7.50"}},
				{"item":{"codigo":"B1","descricao":"Bread","quantidade":"0.5","valor_unitario":"12"}}]}}}`))

		p, err := c.GetPurchase(context.Background(), "999")
		require.NoError(t, err)

		assert.Equal(t, domain.SourceSourceOfRecord, p.Source)
		require.Len(t, p.LineItems, 2)
		assert.Equal(t, "10", p.LineItems[0].ID)
		assert.Equal(t, "B1", p.LineItems[1].ID)
		assert.Equal(t, "21.00", p.Totals.Subtotal.String())
		assert.Equal(t, "1.00", p.Totals.Discount.String())
		assert.Equal(t, "20.00", p.Totals.Paid.String())
	})

	t.Run("order without items is not available", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"3","pedido":{"id":"999","total_pedido":"20","forma_pagamento":"pix","itens":[]}}}`))

		_, err := c.GetPurchase(context.Background(), "999")
		assert.ErrorIs(t, err, domain.ErrNotAvailable)
	})

	t.Run("unknown order is not available", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"1","codigo_erro":"20"}}`))

		_, err := c.GetPurchase(context.Background(), "999")
		assert.ErrorIs(t, err, domain.ErrNotAvailable)
	})
}

func TestClient_Invoices(t *testing.T) {
	t.Run("issue returns invoice id", func(t *testing.T) {
		var gotQuery string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			respond(`{"retorno":{"status_processamento":"3","registros":{"registro":{"idNotaFiscal":555}}}}`)(w, r)
		})

		id, err := c.IssueInvoice(context.Background(), "999")
		require.NoError(t, err)
		assert.Equal(t, "555", id)
		assert.Contains(t, gotQuery, "modelo=NFCe")
	})

	t.Run("issue without id is permanent", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"3"}}`))

		_, err := c.IssueInvoice(context.Background(), "999")
		assert.True(t, domain.IsPermanent(err))
	})

	t.Run("link", func(t *testing.T) {
		c := newTestClient(t, respond(`{"retorno":{"status_processamento":"3","link_nfe":"https://erp.example/nfce/555"}}`))

		link, err := c.InvoiceLink(context.Background(), "555")
		require.NoError(t, err)
		assert.Equal(t, "https://erp.example/nfce/555", link)
	})
}

func TestSanitizeURL(t *testing.T) {
	got := sanitizeURL("https://api.tiny.com.br/api2/pedido.obter.php?formato=JSON&id=1&token=abc")
	assert.NotContains(t, got, "abc")
	assert.Contains(t, got, "token=REDACTED")
	assert.Contains(t, got, "id=1")
}
