package importer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/backoffice/pkg/models"
)

func TestResolver_EnsureIsGetOrCreate(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store, testLogger())
	ctx := context.Background()

	first, failure := resolver.Ensure(ctx, EntityCategory, &models.Category{Name: "Padarias e Confeitarias"})
	require.Nil(t, failure)
	second, failure := resolver.Ensure(ctx, EntityCategory, &models.Category{Name: "PADARIAS e confeitárias"})
	require.Nil(t, failure)

	assert.Equal(t, "padarias-e-confeitarias", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.count(EntityCategory))
	assert.Equal(t, 2, store.ensureCalls)
}

func TestResolver_EnsureKeepsSuppliedSlug(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store, testLogger())

	rec := &models.LegalNature{Base: models.Base{Slug: "ltda"}, Name: "Sociedade Limitada"}
	value, failure := resolver.Ensure(context.Background(), EntityLegalNature, rec)

	require.Nil(t, failure)
	assert.Equal(t, "ltda", value)
}

func TestResolver_EnsureNilRecord(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store, testLogger())
	ctx := context.Background()

	value, failure := resolver.Ensure(ctx, EntityCategory, nil)
	assert.Empty(t, value)
	assert.Nil(t, failure)

	var category *models.Category
	value, failure = resolver.Ensure(ctx, EntityCategory, category)
	assert.Empty(t, value)
	assert.Nil(t, failure)

	assert.Zero(t, store.ensureCalls)
}

func TestResolver_EnsureWithoutName(t *testing.T) {
	resolver := NewResolver(newMemStore(), testLogger())

	value, failure := resolver.Ensure(context.Background(), EntitySalesAgent, &models.SalesAgent{})

	assert.Empty(t, value)
	require.NotNil(t, failure)
	assert.Equal(t, FailureInvalid, failure.Kind)
	assert.Equal(t, EntitySalesAgent, failure.Entity)
}

func TestResolver_EnsureStoreError(t *testing.T) {
	store := newMemStore()
	store.ensureErr[EntityConfiguration] = errors.New("connection reset")
	resolver := NewResolver(store, testLogger())

	value, failure := resolver.Ensure(context.Background(), EntityConfiguration, &models.Configuration{URL: "https://a.example.com"})

	assert.Empty(t, value)
	require.NotNil(t, failure)
	assert.Equal(t, FailureLookup, failure.Kind)
	assert.Equal(t, "https-a-example-com", failure.Slug)
	assert.ErrorContains(t, failure, "connection reset")
}

func TestResolver_EnsureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resolver := NewResolver(newMemStore(), testLogger())

	_, failure := resolver.Ensure(ctx, EntityCategory, &models.Category{Name: "Farmácias"})

	require.NotNil(t, failure)
	assert.Equal(t, FailureCanceled, failure.Kind)
	assert.ErrorIs(t, failure, context.Canceled)
}

func TestResolver_Lookup(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store, testLogger())
	ctx := context.Background()

	ref, failure := resolver.Lookup(ctx, EntityCategory, "")
	assert.Nil(t, failure)
	assert.False(t, ref.Resolved())

	ref, failure = resolver.Lookup(ctx, EntityCategory, "missing")
	require.NotNil(t, failure)
	assert.Equal(t, FailureLookup, failure.Kind)
	assert.ErrorIs(t, failure, sql.ErrNoRows)
	assert.False(t, ref.Resolved())
}

func TestResolver_Resolve(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store, testLogger())

	ref, failure := resolver.Resolve(context.Background(), EntitySalesAgent, &models.SalesAgent{FirstName: "João", LastName: "Silva"})

	require.Nil(t, failure)
	assert.True(t, ref.Resolved())
	assert.Equal(t, "joao-silva", ref.Slug)
	assert.Equal(t, store.slugs[EntitySalesAgent]["joao-silva"], ref.ID)
}
