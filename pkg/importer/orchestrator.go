package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/slug"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

// ErrSlugConflict is wrapped by stores when a write hits an existing slug.
var ErrSlugConflict = errors.New("slug already exists")

// Orchestrator persists one merchant aggregate in dependency order.
type Orchestrator struct {
	store    Store
	resolver *Resolver
	policy   OnConflict
	logger   ectologger.Logger
}

func NewOrchestrator(store Store, policy OnConflict, logger ectologger.Logger) (*Orchestrator, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("invalid on-conflict policy %q", policy)
	}
	return &Orchestrator{
		store:    store,
		resolver: NewResolver(store, logger),
		policy:   policy,
		logger:   logger,
	}, nil
}

// ImportMerchant writes lookups, address, merchant, contacts and pix account in that order.
// Lookup and address failures become warnings with a null reference. A merchant, contact or
// pix account failure stops this merchant and is returned in Result.Failure. Under the upsert
// policy that failure also rolls back the address, merchant, contact and pix writes.
func (o *Orchestrator) ImportMerchant(ctx context.Context, agg *MerchantAggregate) Result {
	ctx, span := tracing.StartSpan(ctx, "Orchestrator.ImportMerchant")
	defer span.End()

	merchant := &agg.Merchant
	if merchant.Slug == "" {
		merchant.Slug = slug.Make(merchant.SlugSource())
	}
	span.SetAttributes(attribute.String("merchant_slug", merchant.Slug))

	result := Result{MerchantSlug: merchant.Slug, Refs: map[Entity]Ref{}}
	log := o.logger.WithContext(ctx).WithField("merchant_slug", merchant.Slug)

	if merchant.Slug == "" {
		return result.fail(newFailure(FailureInvalid, EntityMerchant, "", errors.New("merchant has no slug and no name")))
	}
	if err := ctx.Err(); err != nil {
		return result.fail(newFailure(FailureCanceled, EntityMerchant, merchant.Slug, err))
	}

	slugs := map[Entity]string{}
	ensure := func(entity Entity, value string, failure *Failure) {
		if failure != nil {
			log.WithError(failure).Warnf("%s could not be resolved, leaving it unset", entity)
			result.warn(failure)
			return
		}
		slugs[entity] = value
	}
	ensure(o.resolveEnsure(ctx, EntityCategory, agg))
	ensure(o.resolveEnsure(ctx, EntityLegalNature, agg))
	ensure(o.resolveEnsure(ctx, EntitySalesAgent, agg))
	ensure(o.resolveEnsure(ctx, EntityConfiguration, agg))

	if o.policy != OnConflictUpsert {
		if failure := o.persist(ctx, log, agg, slugs, &result); failure != nil {
			return result.fail(failure)
		}
		return result
	}

	// An update replaces contacts, so everything from the address on is written together.
	var failure *Failure
	err := o.store.InTx(ctx, func(ctx context.Context) error {
		if failure = o.persist(ctx, log, agg, slugs, &result); failure != nil {
			return failure
		}
		return nil
	})
	if err != nil {
		if failure == nil {
			failure = newFailure(FailureInsert, EntityMerchant, merchant.Slug, err)
		}
		log.WithError(err).Warn("merchant changes were rolled back")
		result.Contacts = 0
		result.PixAccountID = 0
		return result.fail(failure)
	}
	return result
}

// persist inserts the address, resolves the lookup ids and stores the merchant row,
// its contacts and its pix account.
func (o *Orchestrator) persist(ctx context.Context, log ectologger.Logger, agg *MerchantAggregate, slugs map[Entity]string, result *Result) *Failure {
	merchant := &agg.Merchant

	merchant.AddressID = nil
	if agg.Address != nil {
		id, err := o.store.InsertAddress(ctx, agg.Address)
		if err != nil {
			failure := newFailure(FailureInsert, EntityAddress, merchant.Slug, err)
			log.WithError(err).Warn("merchant address could not be inserted, leaving it unset")
			result.warn(failure)
		} else {
			agg.Address.ID = id
			merchant.AddressID = &id
			log.Infof("Inserted address %d", id)
		}
	}

	for _, entity := range []Entity{EntityCategory, EntityLegalNature, EntitySalesAgent, EntityConfiguration} {
		ref, failure := o.resolver.Lookup(ctx, entity, slugs[entity])
		if failure != nil {
			log.WithError(failure).Warnf("%s id could not be looked up, leaving it unset", entity)
			result.warn(failure)
			continue
		}
		if ref.Resolved() {
			result.Refs[entity] = ref
		}
	}
	setReferences(merchant, result.Refs)

	id, outcome, err := o.store.WriteMerchant(ctx, merchant, o.policy)
	if err != nil {
		log.WithError(err).Errorf("failed to write merchant under policy %s", o.policy)
		return newFailure(writeFailureKind(err), EntityMerchant, merchant.Slug, err)
	}
	merchant.ID = id
	result.MerchantID = id
	result.Outcome = outcome

	if outcome == OutcomeSkipped {
		log.Infof("Merchant already exists with id %d, skipped", id)
		return nil
	}
	log.Infof("Merchant %s with id %d", outcome, id)

	if outcome == OutcomeUpdated {
		if err := o.store.DeleteContacts(ctx, id); err != nil {
			log.WithError(err).Error("failed to clear contacts before replacing them")
			return newFailure(FailureInsert, EntityContact, merchant.Slug, err)
		}
	}

	for i := range agg.Contacts {
		if failure := o.importContact(ctx, log, merchant.Slug, id, &agg.Contacts[i], result); failure != nil {
			return failure
		}
		result.Contacts++
	}

	if agg.PixAccount != nil {
		pix := agg.PixAccount
		pix.MerchantID = id
		pix.MerchantSlug = merchant.Slug
		if pix.Slug == "" {
			pix.Slug = slug.Make(pix.SlugSource())
		}

		pixID, err := o.store.WritePixAccount(ctx, pix, o.policy)
		if err != nil {
			log.WithError(err).WithField("pix_slug", pix.Slug).Error("failed to write pix account")
			return newFailure(writeFailureKind(err), EntityPixAccount, pix.Slug, err)
		}
		pix.ID = pixID
		result.PixAccountID = pixID
		log.Infof("Wrote pix account %s with id %d", pix.Slug, pixID)
	}

	return nil
}

func (o *Orchestrator) resolveEnsure(ctx context.Context, entity Entity, agg *MerchantAggregate) (Entity, string, *Failure) {
	switch entity {
	case EntityCategory:
		value, failure := o.resolver.Ensure(ctx, entity, agg.Category)
		return entity, value, failure
	case EntityLegalNature:
		value, failure := o.resolver.Ensure(ctx, entity, agg.LegalNature)
		return entity, value, failure
	case EntitySalesAgent:
		value, failure := o.resolver.Ensure(ctx, entity, agg.SalesAgent)
		return entity, value, failure
	case EntityConfiguration:
		value, failure := o.resolver.Ensure(ctx, entity, agg.Configuration)
		return entity, value, failure
	}
	return entity, "", newFailure(FailureInvalid, entity, "", fmt.Errorf("%s is not a lookup entity", entity))
}

func (o *Orchestrator) importContact(ctx context.Context, log ectologger.Logger, merchantSlug string, merchantID int64, c *ContactAggregate, result *Result) *Failure {
	contact := &c.Contact
	contact.MerchantID = merchantID
	contact.MerchantSlug = merchantSlug
	contact.AddressID = nil

	if c.Address != nil {
		addressID, err := o.store.InsertAddress(ctx, c.Address)
		if err != nil {
			log.WithError(err).WithField("contact", contact.Name).Warn("contact address could not be inserted, leaving it unset")
			result.warn(newFailure(FailureInsert, EntityAddress, merchantSlug, err))
		} else {
			c.Address.ID = addressID
			contact.AddressID = &addressID
		}
	}

	id, err := o.store.InsertContact(ctx, contact)
	if err != nil {
		log.WithError(err).WithField("contact", contact.Name).Error("failed to insert contact")
		return newFailure(FailureInsert, EntityContact, merchantSlug, err)
	}
	contact.ID = id
	log.Infof("Inserted contact %d", id)
	return nil
}

// setReferences writes each foreign key as slug and id together, or leaves both null.
func setReferences(m *models.Merchant, refs map[Entity]Ref) {
	pair := func(entity Entity) (*int64, *string) {
		ref, ok := refs[entity]
		if !ok || !ref.Resolved() {
			return nil, nil
		}
		id, value := ref.ID, ref.Slug
		return &id, &value
	}
	m.CategoryID, m.SlugCategory = pair(EntityCategory)
	m.LegalNatureID, m.SlugLegalNature = pair(EntityLegalNature)
	m.SalesAgentID, m.SlugSalesAgent = pair(EntitySalesAgent)
	m.ConfigurationID, m.SlugConfiguration = pair(EntityConfiguration)
}

func writeFailureKind(err error) FailureKind {
	if errors.Is(err, ErrSlugConflict) {
		return FailureConflict
	}
	return FailureInsert
}
