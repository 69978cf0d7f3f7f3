package importer

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/slug"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

// Resolver gets or creates lookup rows by slug.
type Resolver struct {
	store  Store
	logger ectologger.Logger
}

func NewResolver(store Store, logger ectologger.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Ensure guarantees a row with rec's slug exists and returns the slug.
// A nil rec resolves to the empty slug without touching the store.
func (r *Resolver) Ensure(ctx context.Context, entity Entity, rec models.SlugEntity) (string, *Failure) {
	if isNil(rec) {
		return "", nil
	}

	ctx, span := tracing.StartSpan(ctx, "Resolver.Ensure")
	defer span.End()

	base := rec.GetBase()
	if base.Slug == "" {
		base.Slug = slug.Make(rec.SlugSource())
	}
	if base.Slug == "" {
		return "", newFailure(FailureInvalid, entity, "", fmt.Errorf("%s has no slug and no name to derive one from", entity))
	}

	if err := r.store.EnsureBySlug(ctx, entity, rec); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"entity": entity,
			"slug":   base.Slug,
		}).Errorf("failed to get or create %s", entity)
		return "", newFailure(FailureLookup, entity, base.Slug, err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"entity": entity,
		"slug":   base.Slug,
	}).Infof("Resolved %s %s", entity, base.Slug)
	return base.Slug, nil
}

// Lookup reads the id stored for slug. An empty slug resolves to the zero Ref.
func (r *Resolver) Lookup(ctx context.Context, entity Entity, value string) (Ref, *Failure) {
	if value == "" {
		return Ref{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "Resolver.Lookup")
	defer span.End()

	id, err := r.store.LookupID(ctx, entity, value)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"entity": entity,
			"slug":   value,
		}).Errorf("failed to look up %s id", entity)
		return Ref{}, newFailure(FailureLookup, entity, value, err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"entity": entity,
		"slug":   value,
		"id":     id,
	}).Infof("Looked up %s %s -> %d", entity, value, id)
	return Ref{Slug: value, ID: id}, nil
}

// Resolve is Ensure followed by Lookup.
func (r *Resolver) Resolve(ctx context.Context, entity Entity, rec models.SlugEntity) (Ref, *Failure) {
	value, failure := r.Ensure(ctx, entity, rec)
	if failure != nil {
		return Ref{}, failure
	}
	return r.Lookup(ctx, entity, value)
}

// isNil catches typed nil pointers stored in the interface.
func isNil(rec models.SlugEntity) bool {
	if rec == nil {
		return true
	}
	v := reflect.ValueOf(rec)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
