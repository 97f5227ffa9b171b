package tinyerp

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

type orderResponse struct {
	retorno
	Pedido *struct {
		ID             domain.FlexString `json:"id"`
		ValorDesconto  domain.FlexString `json:"valor_desconto"`
		TotalPedido    domain.FlexString `json:"total_pedido"`
		FormaPagamento string            `json:"forma_pagamento"`
		Itens          []struct {
			Item struct {
				IDProduto     domain.FlexString `json:"id_produto"`
				Codigo        string            `json:"codigo"`
				Descricao     string            `json:"descricao"`
				Quantidade    domain.FlexString `json:"quantidade"`
				ValorUnitario domain.FlexString `json:"valor_unitario"`
			} `json:"item"`
		} `json:"itens"`
	} `json:"pedido"`
}

func (r *orderResponse) statusBlock() *retorno { return &r.retorno }

// GetPurchase fetches the order behind a sale. Missing or partial orders
// are domain.ErrNotAvailable, like an incomplete analytical row.
func (c *Client) GetPurchase(ctx context.Context, saleID string) (*domain.PurchaseRecord, error) {
	if strings.TrimSpace(saleID) == "" {
		return nil, domain.ErrEmptyKey
	}

	var resp orderResponse
	err := c.get(ctx, "get purchase", "pedido.obter.php", url.Values{"id": {saleID}}, &resp)
	if errors.Is(err, errNoRecords) {
		return nil, domain.ErrNotAvailable
	}
	if err != nil {
		return nil, err
	}
	if resp.Pedido == nil {
		return nil, domain.ErrNotAvailable
	}

	pedido := resp.Pedido
	items := make([]domain.LineItemInput, 0, len(pedido.Itens))
	for _, it := range pedido.Itens {
		id := it.Item.IDProduto.String()
		if id == "" {
			id = it.Item.Codigo
		}
		items = append(items, domain.LineItemInput{
			ID:        id,
			Name:      it.Item.Descricao,
			Quantity:  optionalDecimal(it.Item.Quantidade),
			UnitPrice: optionalDecimal(it.Item.ValorUnitario),
		})
	}

	discount := optionalDecimal(pedido.ValorDesconto)
	if discount == nil {
		discount = domain.Zero()
	}

	return domain.BuildPurchase(
		saleID,
		domain.SourceSourceOfRecord,
		items,
		discount,
		optionalDecimal(pedido.TotalPedido),
		strings.TrimSpace(pedido.FormaPagamento),
	)
}

// optionalDecimal parses an ERP amount; blank or malformed values are nil.
func optionalDecimal(v domain.FlexString) *domain.Decimal {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	d, err := domain.ParseDecimal(s)
	if err != nil {
		return nil
	}
	return d
}
