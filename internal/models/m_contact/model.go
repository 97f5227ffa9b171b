package m_contact

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the contacts table.
// The service itself only reads contacts; mutations are used by the ingestion
// fixtures and local seeding.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns lists the contacts columns in Data field order.
func (m *Model) Columns() []string {
	return []string{ContactID, TaxID, Name, Email, UpdatedAt}
}

// UpsertMut creates a Spanner mutation that writes a contact row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		m.Columns(),
		[]interface{}{
			data.ContactID,
			data.TaxID,
			data.Name,
			data.Email,
			spanner.CommitTimestamp,
		},
	)
}
