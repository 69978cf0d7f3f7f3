package importer

import (
	"context"
	"time"

	"github.com/Ramsey-B/backoffice/pkg/kafka"
	"github.com/Ramsey-B/backoffice/pkg/models"
)

// Store is the persistence the import pipeline writes through.
type Store interface {
	// EnsureBySlug inserts rec unless a row with its slug exists. The first writer wins.
	EnsureBySlug(ctx context.Context, entity Entity, rec models.SlugEntity) error
	// LookupID returns the id of the row holding slug.
	LookupID(ctx context.Context, entity Entity, slug string) (int64, error)
	InsertAddress(ctx context.Context, address *models.Address) (int64, error)
	// WriteMerchant stores m under policy and reports whether it was imported, updated or skipped.
	WriteMerchant(ctx context.Context, m *models.Merchant, policy OnConflict) (id int64, outcome Outcome, err error)
	DeleteContacts(ctx context.Context, merchantID int64) error
	InsertContact(ctx context.Context, contact *models.Contact) (int64, error)
	WritePixAccount(ctx context.Context, pix *models.MerchantPixAccount, policy OnConflict) (int64, error)
	// InTx runs fn so that its writes are committed together or rolled back together.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Reset empties every table the import writes.
	Reset(ctx context.Context) error
	Close() error
}

// Feed supplies the merchants of one run.
type Feed interface {
	Merchants(ctx context.Context) ([]MerchantAggregate, error)
}

// Locker serializes import runs.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// EventPublisher receives one event per merchant outcome.
type EventPublisher interface {
	PublishImportEvent(ctx context.Context, evt kafka.ImportEvent) error
}
