package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Entity string

const (
	EntityCategory      Entity = "category"
	EntityLegalNature   Entity = "legal_nature"
	EntitySalesAgent    Entity = "sales_agent"
	EntityConfiguration Entity = "configuration"
	EntityAddress       Entity = "address"
	EntityMerchant      Entity = "merchant"
	EntityContact       Entity = "contact"
	EntityPixAccount    Entity = "pix_account"
)

type FailureKind string

const (
	// FailureInvalid means the payload could not be persisted as given, e.g. no slug could be derived.
	FailureInvalid FailureKind = "invalid"
	// FailureLookup means a get-or-create or id lookup failed. The foreign key is left null.
	FailureLookup FailureKind = "lookup"
	// FailureInsert means a row write failed.
	FailureInsert FailureKind = "insert"
	// FailureConflict means the slug already exists under the fail policy.
	FailureConflict FailureKind = "conflict"
	// FailureCanceled means the run context ended mid merchant.
	FailureCanceled FailureKind = "canceled"
)

// ParseFailureKinds reads a list such as IMPORT_STOP_ON. Blank entries are ignored.
func ParseFailureKinds(values []string) ([]FailureKind, error) {
	var kinds []FailureKind
	for _, v := range values {
		kind := FailureKind(strings.ToLower(strings.TrimSpace(v)))
		switch kind {
		case "":
			continue
		case FailureInvalid, FailureLookup, FailureInsert, FailureConflict, FailureCanceled:
			kinds = append(kinds, kind)
		default:
			return nil, fmt.Errorf("unknown failure kind %q", v)
		}
	}
	return kinds, nil
}

// Failure is a typed import failure for one entity of one merchant.
type Failure struct {
	Kind   FailureKind
	Entity Entity
	Slug   string
	Err    error
}

func newFailure(kind FailureKind, entity Entity, slug string, err error) *Failure {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = FailureCanceled
	}
	return &Failure{Kind: kind, Entity: entity, Slug: slug, Err: err}
}

func (f *Failure) Error() string {
	if f.Slug == "" {
		return fmt.Sprintf("%s %s: %v", f.Entity, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v", f.Entity, f.Kind, f.Slug, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Ref is a resolved foreign key. A zero Ref means unresolved and is stored as NULL.
type Ref struct {
	Slug string
	ID   int64
}

func (r Ref) Resolved() bool {
	return r.Slug != "" && r.ID != 0
}

type Outcome string

const (
	OutcomeImported Outcome = "imported"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Result is what importing one merchant produced.
// Warnings are failures that nulled a reference but let the merchant continue.
// Failure is set when the merchant, a contact or the pix account could not be written.
type Result struct {
	MerchantSlug string
	MerchantID   int64
	Outcome      Outcome
	Refs         map[Entity]Ref
	Contacts     int
	PixAccountID int64
	Warnings     []*Failure
	Failure      *Failure
}

func (r *Result) warn(f *Failure) {
	r.Warnings = append(r.Warnings, f)
}

func (r *Result) fail(f *Failure) Result {
	r.Outcome = OutcomeFailed
	r.Failure = f
	return *r
}

// MerchantFailure is the serializable form of a failed merchant in a Summary.
type MerchantFailure struct {
	MerchantSlug string      `json:"merchant_slug"`
	Kind         FailureKind `json:"kind"`
	Entity       Entity      `json:"entity"`
	Message      string      `json:"message"`
}

// Summary totals one import run.
type Summary struct {
	RunID    string            `json:"run_id"`
	Policy   OnConflict        `json:"policy"`
	Total    int               `json:"total"`
	Imported int               `json:"imported"`
	Updated  int               `json:"updated"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Warnings int               `json:"warnings"`
	Aborted  bool              `json:"aborted"`
	Failures []MerchantFailure `json:"failures"`
	Duration time.Duration     `json:"duration"`
}

func (s *Summary) add(r Result) {
	s.Total++
	s.Warnings += len(r.Warnings)
	switch r.Outcome {
	case OutcomeImported:
		s.Imported++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
		s.Failures = append(s.Failures, MerchantFailure{
			MerchantSlug: r.MerchantSlug,
			Kind:         r.Failure.Kind,
			Entity:       r.Failure.Entity,
			Message:      r.Failure.Error(),
		})
	}
}
