package repositories

import (
	"context"

	"github.com/Ramsey-B/backoffice/pkg/models"
)

// SlugStore is the CRUD contract the HTTP handlers depend on.
type SlugStore[T any] interface {
	List(ctx context.Context, params ListParams) (*models.Page[T], error)
	GetByID(ctx context.Context, id int64) (*T, error)
	GetBySlug(ctx context.Context, slug string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int64) error
}

type MerchantReader interface {
	List(ctx context.Context, params ListParams) (*models.Page[models.Merchant], error)
	GetDetail(ctx context.Context, id int64) (*models.MerchantDetail, error)
}

var (
	_ SlugStore[models.Category]      = (*CategoryRepository)(nil)
	_ SlugStore[models.LegalNature]   = (*LegalNatureRepository)(nil)
	_ SlugStore[models.SalesAgent]    = (*SalesAgentRepository)(nil)
	_ SlugStore[models.Configuration] = (*ConfigurationRepository)(nil)
	_ SlugStore[models.FeeTable]      = (*FeeTableRepository)(nil)
	_ MerchantReader                  = (*MerchantRepository)(nil)
)
