package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/testcontainers"
)

func newTestSQLStore(t *testing.T) (*SQLStore, database.DB) {
	t.Helper()
	db := database.NewDatabaseInstance(testcontainers.StartPostgres(t), testLogger())
	return NewSQLStore(db, testLogger()), db
}

func countRows(t *testing.T, db database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestSQLStore_EnsureBySlugIsIdempotent(t *testing.T) {
	store, db := newTestSQLStore(t)
	ctx := context.Background()

	category := &models.Category{Base: models.Base{Slug: "padarias"}, Name: "Padarias"}
	require.NoError(t, store.EnsureBySlug(ctx, EntityCategory, category))
	require.NoError(t, store.EnsureBySlug(ctx, EntityCategory, &models.Category{Base: models.Base{Slug: "padarias"}, Name: "Outro nome"}))

	assert.Equal(t, 1, countRows(t, db, "categories"))
	id, err := store.LookupID(ctx, EntityCategory, "padarias")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = store.LookupID(ctx, EntityCategory, "missing")
	assert.True(t, database.IsNotFound(err))

	assert.Error(t, store.EnsureBySlug(ctx, EntityAddress, category))
}

func TestSQLStore_ImportPolicies(t *testing.T) {
	store, db := newTestSQLStore(t)
	ctx := context.Background()

	run := func(policy OnConflict, email string) Result {
		o, err := NewOrchestrator(store, policy, testLogger())
		require.NoError(t, err)
		agg := sampleAggregate("Padaria São João")
		agg.Merchant.Email = email
		return o.ImportMerchant(ctx, &agg)
	}

	first := run(OnConflictFail, "contato@example.com")
	require.Nil(t, first.Failure)
	assert.Equal(t, OutcomeImported, first.Outcome)
	assert.Equal(t, 2, countRows(t, db, "contacts"))

	conflict := run(OnConflictFail, "contato@example.com")
	require.NotNil(t, conflict.Failure)
	assert.Equal(t, FailureConflict, conflict.Failure.Kind)
	assert.Equal(t, 1, countRows(t, db, "merchants"))

	skipped := run(OnConflictSkip, "ignored@example.com")
	require.Nil(t, skipped.Failure)
	assert.Equal(t, OutcomeSkipped, skipped.Outcome)
	assert.Equal(t, first.MerchantID, skipped.MerchantID)

	updated := run(OnConflictUpsert, "novo@example.com")
	require.Nil(t, updated.Failure)
	assert.Equal(t, OutcomeUpdated, updated.Outcome)
	assert.Equal(t, first.MerchantID, updated.MerchantID)
	assert.Equal(t, first.PixAccountID, updated.PixAccountID)

	var email string
	require.NoError(t, db.GetContext(ctx, &email, "SELECT email FROM merchants WHERE id = $1", first.MerchantID))
	assert.Equal(t, "novo@example.com", email)
	assert.Equal(t, 2, countRows(t, db, "contacts"))
	assert.Equal(t, 1, countRows(t, db, "merchantpixaccount"))
	assert.Equal(t, 1, countRows(t, db, "categories"))

	require.NoError(t, store.Reset(ctx))
	assert.Zero(t, countRows(t, db, "merchants"))
	assert.Zero(t, countRows(t, db, "categories"))
}

// failingContactStore writes through SQLStore but refuses every contact.
type failingContactStore struct {
	*SQLStore
}

func (s failingContactStore) InsertContact(context.Context, *models.Contact) (int64, error) {
	return 0, errors.New("contact rejected")
}

func TestSQLStore_UpsertRollsBackOnContactFailure(t *testing.T) {
	store, db := newTestSQLStore(t)
	ctx := context.Background()

	o, err := NewOrchestrator(store, OnConflictUpsert, testLogger())
	require.NoError(t, err)
	first := sampleAggregate("Padaria São João")
	r1 := o.ImportMerchant(ctx, &first)
	require.Nil(t, r1.Failure)
	require.Equal(t, 2, countRows(t, db, "contacts"))
	require.Equal(t, 2, countRows(t, db, "addresses"))

	failing, err := NewOrchestrator(failingContactStore{store}, OnConflictUpsert, testLogger())
	require.NoError(t, err)
	again := sampleAggregate("Padaria São João")
	again.Merchant.Email = "novo@example.com"
	r2 := failing.ImportMerchant(ctx, &again)

	require.NotNil(t, r2.Failure)
	assert.Equal(t, EntityContact, r2.Failure.Entity)

	var email string
	require.NoError(t, db.GetContext(ctx, &email, "SELECT email FROM merchants WHERE id = $1", r1.MerchantID))
	assert.Equal(t, "contato@example.com", email)
	assert.Equal(t, 2, countRows(t, db, "contacts"))
	assert.Equal(t, 2, countRows(t, db, "addresses"))
}

func TestSQLStore_UpsertDropsReplacedAddresses(t *testing.T) {
	store, db := newTestSQLStore(t)
	ctx := context.Background()

	o, err := NewOrchestrator(store, OnConflictUpsert, testLogger())
	require.NoError(t, err)

	for _, street := range []string{"Rua das Flores", "Rua Nova", "Rua Nova"} {
		agg := sampleAggregate("Padaria São João")
		agg.Address.Street = street
		result := o.ImportMerchant(ctx, &agg)
		require.Nil(t, result.Failure)
	}

	assert.Equal(t, 2, countRows(t, db, "addresses"))
	var street string
	require.NoError(t, db.GetContext(ctx, &street,
		"SELECT a.street FROM merchants m JOIN addresses a ON a.id = m.address_id WHERE m.slug = $1", bakerySlug))
	assert.Equal(t, "Rua Nova", street)
}

func TestSQLStore_InTxKeepsGoingAfterLookupMiss(t *testing.T) {
	store, db := newTestSQLStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(ctx context.Context) error {
		_, err := store.LookupID(ctx, EntityCategory, "missing")
		require.True(t, database.IsNotFound(err))

		_, err = store.InsertAddress(ctx, &models.Address{Street: "Rua das Flores"})
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db, "addresses"))
}
