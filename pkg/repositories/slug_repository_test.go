package repositories

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/testcontainers"
)

func newTestDB(t *testing.T) database.DB {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return database.NewDatabaseInstance(testcontainers.StartPostgres(t), logger)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	ctx := context.Background()

	category := &models.Category{Name: "Padarias e Confeitarias", MCC: "5462"}
	category.Active = true
	require.NoError(t, repo.Create(ctx, category))
	assert.NotZero(t, category.ID)
	assert.Equal(t, "padarias-e-confeitarias", category.Slug)

	duplicate := &models.Category{Name: "Padarias e Confeitarias"}
	err := repo.Create(ctx, duplicate)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

	found, err := repo.GetBySlug(ctx, "padarias-e-confeitarias")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	found.WaitingPeriodCP = 30
	found.Slug = ""
	require.NoError(t, repo.Update(ctx, found))
	assert.Equal(t, "padarias-e-confeitarias", found.Slug)

	page, err := repo.List(ctx, ListParams{Search: "CONFEITÁRIAS"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 30, page.Items[0].WaitingPeriodCP)

	require.NoError(t, repo.Delete(ctx, category.ID))
	_, err = repo.GetByID(ctx, category.ID)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(repo.Delete(ctx, category.ID)))
}

func TestFeeTableRepository_BrandRates(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeeTableRepository(db, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	ctx := context.Background()

	fee := &models.FeeTable{
		Name: "Plano Ouro",
		BrandRates: database.NewJSONB([]models.FeeBrandRate{
			{Brand: "VISA", ProductType: "CREDIT", InstallmentsFrom: 1, InstallmentsTo: 1},
		}),
	}
	require.NoError(t, repo.Create(ctx, fee))

	found, err := repo.GetByID(ctx, fee.ID)
	require.NoError(t, err)
	require.Len(t, found.BrandRates.GetValue(), 1)
	assert.Equal(t, "VISA", found.BrandRates.GetValue()[0].Brand)
}
