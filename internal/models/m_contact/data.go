package m_contact

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the contacts table.
type Data struct {
	ContactID string             `spanner:"contact_id"`
	TaxID     string             `spanner:"cpf_cnpj"`
	Name      spanner.NullString `spanner:"name"`
	Email     spanner.NullString `spanner:"email"`
	UpdatedAt time.Time          `spanner:"updated_at"`
}
