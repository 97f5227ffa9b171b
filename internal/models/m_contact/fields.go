package m_contact

// Field name constants for the contacts table.
const (
	TableName = "contacts"

	ContactID = "contact_id"
	TaxID     = "cpf_cnpj"
	Name      = "name"
	Email     = "email"
	UpdatedAt = "updated_at"
)
