package tinyerp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

const invoiceModel = "NFCe"

type issueInvoiceResponse struct {
	retorno
	Registros struct {
		Registro struct {
			IDNotaFiscal domain.FlexString `json:"idNotaFiscal"`
		} `json:"registro"`
	} `json:"registros"`
}

func (r *issueInvoiceResponse) statusBlock() *retorno { return &r.retorno }

type invoiceLinkResponse struct {
	retorno
	LinkNFe string `json:"link_nfe"`
}

func (r *invoiceLinkResponse) statusBlock() *retorno { return &r.retorno }

// IssueInvoice asks the ERP to issue the NFC-e for a sale and returns the invoice id.
func (c *Client) IssueInvoice(ctx context.Context, saleID string) (string, error) {
	params := url.Values{"id": {saleID}, "modelo": {invoiceModel}}

	var resp issueInvoiceResponse
	err := c.get(ctx, "issue invoice", "gerar.nota.fiscal.pedido.php", params, &resp)
	if errors.Is(err, errNoRecords) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	id := strings.TrimSpace(resp.Registros.Registro.IDNotaFiscal.String())
	if id == "" {
		return "", domain.Permanent("issue invoice", fmt.Errorf("no invoice id for sale %s", saleID))
	}
	return id, nil
}

// InvoiceLink returns the public link of an issued invoice.
func (c *Client) InvoiceLink(ctx context.Context, invoiceID string) (string, error) {
	var resp invoiceLinkResponse
	err := c.get(ctx, "invoice link", "nota.fiscal.obter.link.php", url.Values{"id": {invoiceID}}, &resp)
	if errors.Is(err, errNoRecords) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	link := strings.TrimSpace(resp.LinkNFe)
	if link == "" {
		return "", domain.ErrNotFound
	}
	return link, nil
}
