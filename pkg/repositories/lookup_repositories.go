package repositories

import (
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
)

type CategoryRepository = SlugRepository[models.Category, *models.Category]

func NewCategoryRepository(db database.DB, logger ectologger.Logger) *CategoryRepository {
	return newSlugRepository[models.Category](db, logger, slugTable{
		table:         models.Category{}.TableName(),
		entity:        "category",
		searchColumns: []string{"name", "slug", "mcc"},
		sortColumns:   []string{"id", "name", "slug", "mcc", "active", "created_at", "updated_at"},
		defaultSort:   "name",
	})
}

type LegalNatureRepository = SlugRepository[models.LegalNature, *models.LegalNature]

func NewLegalNatureRepository(db database.DB, logger ectologger.Logger) *LegalNatureRepository {
	return newSlugRepository[models.LegalNature](db, logger, slugTable{
		table:         models.LegalNature{}.TableName(),
		entity:        "legal nature",
		searchColumns: []string{"name", "slug", "code"},
		sortColumns:   []string{"id", "name", "slug", "code", "active", "created_at", "updated_at"},
		defaultSort:   "name",
	})
}

type SalesAgentRepository = SlugRepository[models.SalesAgent, *models.SalesAgent]

func NewSalesAgentRepository(db database.DB, logger ectologger.Logger) *SalesAgentRepository {
	return newSlugRepository[models.SalesAgent](db, logger, slugTable{
		table:         models.SalesAgent{}.TableName(),
		entity:        "sales agent",
		searchColumns: []string{"first_name", "last_name", "email", "document_id", "slug"},
		sortColumns:   []string{"id", "first_name", "last_name", "email", "slug", "active", "created_at", "updated_at"},
		defaultSort:   "first_name",
	})
}

type ConfigurationRepository = SlugRepository[models.Configuration, *models.Configuration]

func NewConfigurationRepository(db database.DB, logger ectologger.Logger) *ConfigurationRepository {
	return newSlugRepository[models.Configuration](db, logger, slugTable{
		table:         models.Configuration{}.TableName(),
		entity:        "configuration",
		searchColumns: []string{"slug", "url"},
		sortColumns:   []string{"id", "slug", "url", "active", "created_at", "updated_at"},
		defaultSort:   "slug",
	})
}

type FeeTableRepository = SlugRepository[models.FeeTable, *models.FeeTable]

func NewFeeTableRepository(db database.DB, logger ectologger.Logger) *FeeTableRepository {
	return newSlugRepository[models.FeeTable](db, logger, slugTable{
		table:         models.FeeTable{}.TableName(),
		entity:        "fee table",
		searchColumns: []string{"name", "slug", "description"},
		sortColumns:   []string{"id", "name", "slug", "anticipation_type", "active", "created_at", "updated_at"},
		defaultSort:   "name",
	})
}
