package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UnknownClientName is used when the webhook carries no client name.
const UnknownClientName = "Unknown Client"

// FlexString decodes a JSON string or number into a string.
// The ERP emits ids and status codes in either form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// SaleEvent is the webhook body the ERP posts after a sale.
type SaleEvent struct {
	Dados *SaleData `json:"dados" validate:"required"`
}

// SaleData identifies the sale and, optionally, the client.
type SaleData struct {
	ID      FlexString `json:"id" validate:"required"`
	Cliente Customer   `json:"cliente"`
}

// Customer is the client block of the webhook.
type Customer struct {
	Nome    string `json:"nome"`
	CpfCnpj string `json:"cpfCnpj"`
}

// SaleID returns the trimmed sale id.
func (e *SaleEvent) SaleID() string {
	return strings.TrimSpace(e.Dados.ID.String())
}

// TaxID returns the client's CPF/CNPJ, or "" when absent.
func (e *SaleEvent) TaxID() string {
	return strings.TrimSpace(e.Dados.Cliente.CpfCnpj)
}

// ClientName returns the client's name or UnknownClientName.
func (e *SaleEvent) ClientName() string {
	if name := strings.TrimSpace(e.Dados.Cliente.Nome); name != "" {
		return name
	}
	return UnknownClientName
}

// ParseSaleEvent decodes and validates a raw webhook payload.
// Every failure is a PermanentError wrapping ErrInvalidPayload.
func ParseSaleEvent(raw []byte, validate *validator.Validate) (*SaleEvent, error) {
	var event SaleEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, Permanent("parse payload", fmt.Errorf("%w: %v", ErrInvalidPayload, err))
	}

	if err := validate.Struct(&event); err != nil {
		return nil, Permanent("validate payload", fmt.Errorf("%w: %v", ErrInvalidPayload, err))
	}

	if event.SaleID() == "" {
		return nil, Permanent("validate payload", fmt.Errorf("%w: dados.id is blank", ErrInvalidPayload))
	}

	return &event, nil
}
