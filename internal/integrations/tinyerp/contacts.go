package tinyerp

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

type contactsResponse struct {
	retorno
	Contatos []struct {
		Contato struct {
			ID      domain.FlexString `json:"id"`
			Nome    string            `json:"nome"`
			CpfCnpj string            `json:"cpf_cnpj"`
			Email   string            `json:"email"`
		} `json:"contato"`
	} `json:"contatos"`
}

func (r *contactsResponse) statusBlock() *retorno { return &r.retorno }

// GetContact searches contacts by CPF/CNPJ and returns the first match.
// A match without e-mail is returned as-is; no match is domain.ErrNotFound.
func (c *Client) GetContact(ctx context.Context, taxID string) (*domain.ContactRecord, error) {
	if strings.TrimSpace(taxID) == "" {
		return nil, domain.ErrEmptyKey
	}

	var resp contactsResponse
	err := c.get(ctx, "get contact", "contatos.pesquisa.php", url.Values{"cpf_cnpj": {taxID}}, &resp)
	if errors.Is(err, errNoRecords) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(resp.Contatos) == 0 {
		return nil, domain.ErrNotFound
	}

	contato := resp.Contatos[0].Contato
	return &domain.ContactRecord{
		Key:    taxID,
		Name:   strings.TrimSpace(contato.Nome),
		Email:  strings.TrimSpace(contato.Email),
		Source: domain.SourceSourceOfRecord,
	}, nil
}
