package resolve

import (
	"context"
	"strings"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// ContactSource is one place a contact can be obtained from.
// LookupContact returns domain.ErrNotFound when the source has no usable
// record, so the engine moves on to the next source.
type ContactSource interface {
	Name() domain.RecordSource
	LookupContact(ctx context.Context, key string) (*domain.ContactRecord, error)
}

// AnalyticalContacts reads contacts from the analytical copy. Only an
// unambiguous row with an e-mail counts; anything else defers to the
// next source.
type AnalyticalContacts struct {
	store contracts.AnalyticalStore
}

// NewAnalyticalContacts creates an analytical ContactSource.
func NewAnalyticalContacts(store contracts.AnalyticalStore) *AnalyticalContacts {
	return &AnalyticalContacts{store: store}
}

func (s *AnalyticalContacts) Name() domain.RecordSource {
	return domain.SourceAnalytical
}

func (s *AnalyticalContacts) LookupContact(ctx context.Context, key string) (*domain.ContactRecord, error) {
	rows, err := s.store.FindContacts(ctx, key)
	if err != nil {
		return nil, err
	}

	if len(rows) != 1 || strings.TrimSpace(rows[0].Email) == "" {
		return nil, domain.ErrNotFound
	}

	return &domain.ContactRecord{
		Key:    key,
		Name:   strings.TrimSpace(rows[0].Name),
		Email:  strings.TrimSpace(rows[0].Email),
		Source: domain.SourceAnalytical,
	}, nil
}

// SourceOfRecordContacts reads contacts from the live ERP. A match
// without e-mail is a valid answer.
type SourceOfRecordContacts struct {
	client contracts.SourceOfRecord
}

// NewSourceOfRecordContacts creates an ERP ContactSource.
func NewSourceOfRecordContacts(client contracts.SourceOfRecord) *SourceOfRecordContacts {
	return &SourceOfRecordContacts{client: client}
}

func (s *SourceOfRecordContacts) Name() domain.RecordSource {
	return domain.SourceSourceOfRecord
}

func (s *SourceOfRecordContacts) LookupContact(ctx context.Context, key string) (*domain.ContactRecord, error) {
	rec, err := s.client.GetContact(ctx, key)
	if err != nil {
		return nil, err
	}
	rec.Source = domain.SourceSourceOfRecord
	if rec.Key == "" {
		rec.Key = key
	}
	return rec, nil
}
