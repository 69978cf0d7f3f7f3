// Package seed loads reference data from YAML and upserts it by slug.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/repositories"
	"github.com/Ramsey-B/backoffice/pkg/slug"
)

// File is a seed document. Records use the same field names as the API.
type File struct {
	Categories     []models.Category      `json:"categories"`
	LegalNatures   []models.LegalNature   `json:"legal_natures"`
	SalesAgents    []models.SalesAgent    `json:"sales_agents"`
	Configurations []models.Configuration `json:"configurations"`
	Fees           []models.FeeTable      `json:"fees"`
}

// Load reads a seed document from path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML through the json tags of the models, so decimals and
// jsonb columns decode the way they do over HTTP. Records default to active.
func Decode(r io.Reader) (*File, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	for section, value := range doc {
		items, ok := value.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if record, ok := item.(map[string]any); ok {
				if _, set := record["active"]; !set {
					record["active"] = true
				}
			}
		}
		doc[section] = items
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert seed yaml: %w", err)
	}
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed records: %w", err)
	}
	return &file, nil
}

// Stores are the repositories the seed writes through.
type Stores struct {
	Categories     repositories.SlugStore[models.Category]
	LegalNatures   repositories.SlugStore[models.LegalNature]
	SalesAgents    repositories.SlugStore[models.SalesAgent]
	Configurations repositories.SlugStore[models.Configuration]
	Fees           repositories.SlugStore[models.FeeTable]
}

// Failure is one record that could not be written.
type Failure struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s[%d] %s: %s", f.Section, f.Index, f.Slug, f.Message)
}

// Report totals one seed run.
type Report struct {
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Failures []Failure `json:"failures"`
}

func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Seeder upserts seed records. Validate runs before every write.
type Seeder struct {
	stores   Stores
	validate func(item any) error
	logger   ectologger.Logger
}

func NewSeeder(stores Stores, validate func(item any) error, logger ectologger.Logger) *Seeder {
	return &Seeder{stores: stores, validate: validate, logger: logger}
}

// Apply writes every section of file and keeps going past failed records.
// The returned error is set only when ctx ends.
func (s *Seeder) Apply(ctx context.Context, file *File) (Report, error) {
	report := Report{Failures: []Failure{}}

	steps := []func() error{
		func() error { return upsertAll(ctx, s, "categories", s.stores.Categories, file.Categories, &report) },
		func() error { return upsertAll(ctx, s, "legal_natures", s.stores.LegalNatures, file.LegalNatures, &report) },
		func() error { return upsertAll(ctx, s, "sales_agents", s.stores.SalesAgents, file.SalesAgents, &report) },
		func() error { return upsertAll(ctx, s, "configurations", s.stores.Configurations, file.Configurations, &report) },
		func() error { return upsertAll(ctx, s, "fees", s.stores.Fees, file.Fees, &report) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return report, err
		}
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"created": report.Created,
		"updated": report.Updated,
		"failed":  len(report.Failures),
	}).Info("Seed finished")
	return report, nil
}

type entityPtr[T any] interface {
	*T
	models.SlugEntity
}

func upsertAll[T any, PT entityPtr[T]](ctx context.Context, s *Seeder, section string, store repositories.SlugStore[T], items []T, report *Report) error {
	if len(items) == 0 {
		return nil
	}
	if store == nil {
		return fmt.Errorf("no store configured for %s", section)
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := PT(&items[i])
		created, err := false, s.prepare(item)
		if err == nil {
			created, err = write(ctx, store, item)
		}
		if err != nil {
			failure := Failure{Section: section, Index: i, Slug: item.GetBase().Slug, Message: errorMessage(err)}
			report.Failures = append(report.Failures, failure)
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"section": section,
				"index":   i,
			}).Warn("failed to seed record")
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}
	return nil
}

// prepare derives a missing slug and validates item.
func (s *Seeder) prepare(item models.SlugEntity) error {
	base := item.GetBase()
	base.ID = 0
	if base.Slug == "" {
		base.Slug = slug.Make(item.SlugSource())
	}
	if !slug.Valid(base.Slug) {
		return fmt.Errorf("invalid slug %q", base.Slug)
	}
	if s.validate != nil {
		return s.validate(item)
	}
	return nil
}

func write[T any, PT entityPtr[T]](ctx context.Context, store repositories.SlugStore[T], item PT) (bool, error) {
	base := item.GetBase()
	existing, err := store.GetBySlug(ctx, base.Slug)
	switch {
	case err == nil:
		base.ID = PT(existing).GetBase().ID
		return false, store.Update(ctx, (*T)(item))
	case httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound:
		return true, store.Create(ctx, (*T)(item))
	default:
		return false, err
	}
}

// errorMessage drops the status prefix httperror adds to Error().
func errorMessage(err error) string {
	var httperr *httperror.HTTPError
	if errors.As(err, &httperr) {
		return httperr.Message
	}
	return err.Error()
}
