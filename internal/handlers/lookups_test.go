package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
)

type lookupFixture struct {
	categories     *memSlugStore[models.Category, *models.Category]
	legalNatures   *memSlugStore[models.LegalNature, *models.LegalNature]
	salesAgents    *memSlugStore[models.SalesAgent, *models.SalesAgent]
	configurations *memSlugStore[models.Configuration, *models.Configuration]
	fees           *memSlugStore[models.FeeTable, *models.FeeTable]
}

func newLookupServer() (*lookupFixture, func(t *testing.T, method, target string, body any) (int, []byte)) {
	f := &lookupFixture{
		categories:     newMemSlugStore[models.Category](),
		legalNatures:   newMemSlugStore[models.LegalNature](),
		salesAgents:    newMemSlugStore[models.SalesAgent](),
		configurations: newMemSlugStore[models.Configuration](),
		fees:           newMemSlugStore[models.FeeTable](),
	}
	e, api := newTestEcho()
	RegisterLookupRoutes(api, LookupStores{
		Categories:     f.categories,
		LegalNatures:   f.legalNatures,
		SalesAgents:    f.salesAgents,
		Configurations: f.configurations,
		Fees:           f.fees,
	})
	return f, func(t *testing.T, method, target string, body any) (int, []byte) {
		rec := do(t, e, method, target, body)
		return rec.Code, rec.Body.Bytes()
	}
}

func TestCategories_CreateDerivesSlugAndDefaultsActive(t *testing.T) {
	_, call := newLookupServer()

	code, raw := call(t, http.MethodPost, "/api/v1/categories", map[string]any{
		"name": "Padarias e Confeitarias",
		"mcc":  "5462",
	})

	require.Equal(t, http.StatusCreated, code, string(raw))
	created := decodeBytes[models.Category](t, raw)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "padarias-e-confeitarias", created.Slug)
	assert.True(t, created.Active)
	assert.Equal(t, "5462", created.MCC)

	code, _ = call(t, http.MethodGet, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCategories_CreateKeepsExplicitInactive(t *testing.T) {
	_, call := newLookupServer()

	code, raw := call(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Postos", "active": false})

	require.Equal(t, http.StatusCreated, code)
	assert.False(t, decodeBytes[models.Category](t, raw).Active)
}

func TestCategories_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]any
		fields map[string]any
	}{
		{
			name:   "missing name",
			body:   map[string]any{"mcc": "5462"},
			fields: map[string]any{"name": "required"},
		},
		{
			name:   "negative waiting period",
			body:   map[string]any{"name": "Padarias", "waiting_period_cp": -1},
			fields: map[string]any{"waiting_period_cp": "gte"},
		},
		{
			name:   "slug not in slug form",
			body:   map[string]any{"name": "Padarias", "slug": "Padarias São João"},
			fields: map[string]any{"slug": "slug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, call := newLookupServer()

			code, raw := call(t, http.MethodPost, "/api/v1/categories", tt.body)

			require.Equal(t, http.StatusBadRequest, code, string(raw))
			body := decodeBytes[errorBody](t, raw)
			assert.Equal(t, "validation failed", body.Message)
			assert.Equal(t, tt.fields, body.Meta["fields"])
			assert.Empty(t, f.categories.rows)
		})
	}
}

func TestCategories_MalformedBody(t *testing.T) {
	_, call := newLookupServer()

	code, _ := call(t, http.MethodPost, "/api/v1/categories", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCategories_DuplicateSlugConflicts(t *testing.T) {
	f, call := newLookupServer()
	f.categories.seed(models.Category{Name: "Padarias"})

	code, _ := call(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Padarias"})

	assert.Equal(t, http.StatusConflict, code)
	assert.Len(t, f.categories.rows, 1)
}

func TestCategories_GetBySlug(t *testing.T) {
	f, call := newLookupServer()
	f.categories.seed(models.Category{Name: "Padarias"}, models.Category{Name: "Farmácias"})

	code, raw := call(t, http.MethodGet, "/api/v1/categories/slug/farmacias", nil)

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), `"id":2`)

	code, _ = call(t, http.MethodGet, "/api/v1/categories/slug/postos", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategories_ListPassesFilters(t *testing.T) {
	f, call := newLookupServer()
	f.categories.seed(models.Category{Name: "Padarias"})

	code, raw := call(t, http.MethodGet, "/api/v1/categories?search=pad&active=true&page=2&page_size=5&sort=name&order=desc", nil)

	require.Equal(t, http.StatusOK, code, string(raw))
	params := f.categories.lastList
	assert.Equal(t, "pad", params.Search)
	require.NotNil(t, params.Active)
	assert.True(t, *params.Active)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 5, params.PageSize)
	assert.Equal(t, "name", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestCategories_ListRejectsBadQuery(t *testing.T) {
	_, call := newLookupServer()

	for _, query := range []string{"active=maybe", "page=two", "page_size=x"} {
		code, _ := call(t, http.MethodGet, "/api/v1/categories?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, code, query)
	}
}

func TestCategories_UpdateKeepsSlugWhenEmpty(t *testing.T) {
	f, call := newLookupServer()
	f.categories.seed(models.Category{Name: "Padarias"})

	code, raw := call(t, http.MethodPut, "/api/v1/categories/1", map[string]any{"name": "Padarias e Confeitarias", "active": true})

	require.Equal(t, http.StatusOK, code, string(raw))
	assert.Equal(t, "padarias", f.categories.rows[1].Slug)
	assert.Equal(t, "Padarias e Confeitarias", f.categories.rows[1].Name)
}

func TestCategories_UpdateMissing(t *testing.T) {
	_, call := newLookupServer()

	code, _ := call(t, http.MethodPut, "/api/v1/categories/9", map[string]any{"name": "Padarias"})

	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategories_InvalidID(t *testing.T) {
	_, call := newLookupServer()

	for _, id := range []string{"abc", "0", "-3"} {
		code, _ := call(t, http.MethodGet, "/api/v1/categories/"+id, nil)
		assert.Equal(t, http.StatusBadRequest, code, id)
	}
}

func TestCategories_Delete(t *testing.T) {
	f, call := newLookupServer()
	f.categories.seed(models.Category{Name: "Padarias"}, models.Category{Name: "Farmácias"})
	f.categories.referenced[2] = true

	code, _ := call(t, http.MethodDelete, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusNoContent, code)
	assert.NotContains(t, f.categories.rows, int64(1))

	code, _ = call(t, http.MethodDelete, "/api/v1/categories/2", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, http.MethodDelete, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSalesAgents_SlugFromFullName(t *testing.T) {
	f, call := newLookupServer()

	code, raw := call(t, http.MethodPost, "/api/v1/sales-agents", map[string]any{
		"first_name": "João",
		"last_name":  "Silva",
		"email":      "joao.silva@example.com",
	})

	require.Equal(t, http.StatusCreated, code, string(raw))
	assert.Equal(t, "joao-silva", f.salesAgents.rows[1].Slug)
}

func TestSalesAgents_InvalidEmail(t *testing.T) {
	_, call := newLookupServer()

	code, _ := call(t, http.MethodPost, "/api/v1/sales-agents", map[string]any{"first_name": "João", "email": "joao"})

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLegalNaturesAndConfigurations(t *testing.T) {
	f, call := newLookupServer()

	code, _ := call(t, http.MethodPost, "/api/v1/legal-natures", map[string]any{"name": "Sociedade Empresária Limitada", "code": "206-2"})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "sociedade-empresaria-limitada", f.legalNatures.rows[1].Slug)

	code, _ = call(t, http.MethodPost, "/api/v1/configurations", map[string]any{"slug": "padrao", "url": "https://example.com/hooks"})
	assert.Equal(t, http.StatusCreated, code)

	code, _ = call(t, http.MethodPost, "/api/v1/configurations", map[string]any{"slug": "outra", "url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func feeBody(rates ...map[string]any) map[string]any {
	return map[string]any{
		"name":              "Plano Varejo",
		"anticipation_type": "AUTOMATIC",
		"anticipation_fee":  "1.99",
		"pix_fee":           "0.99",
		"brand_rates":       rates,
	}
}

func rate(brand, productType string, from, to int, mdr string) map[string]any {
	return map[string]any{
		"brand":             brand,
		"product_type":      productType,
		"installments_from": from,
		"installments_to":   to,
		"mdr":               mdr,
	}
}

func TestFees_Create(t *testing.T) {
	f, call := newLookupServer()

	code, raw := call(t, http.MethodPost, "/api/v1/fees", feeBody(
		rate("VISA", "CREDIT", 1, 1, "2.49"),
		rate("VISA", "CREDIT", 2, 6, "2.99"),
		rate("VISA", "DEBIT", 1, 1, "1.19"),
	))

	require.Equal(t, http.StatusCreated, code, string(raw))
	stored := f.fees.rows[1]
	assert.Equal(t, "plano-varejo", stored.Slug)
	require.Len(t, stored.BrandRates.Data, 3)
	assert.True(t, stored.PixFee.Equal(decimal.RequireFromString("0.99")))
}

func TestFees_RejectsOverlappingRanges(t *testing.T) {
	f, call := newLookupServer()

	code, raw := call(t, http.MethodPost, "/api/v1/fees", feeBody(
		rate("VISA", "CREDIT", 1, 6, "2.49"),
		rate("VISA", "CREDIT", 6, 12, "2.99"),
	))

	require.Equal(t, http.StatusBadRequest, code)
	body := decodeBytes[errorBody](t, raw)
	assert.Equal(t, map[string]any{"brand_rates[1].installments_from": "overlap"}, body.Meta["fields"])
	assert.Empty(t, f.fees.rows)
}

func TestCheckFeeTable(t *testing.T) {
	tests := []struct {
		name   string
		fee    models.FeeTable
		fields map[string]string
	}{
		{
			name: "valid",
			fee: models.FeeTable{BrandRates: database.NewJSONB([]models.FeeBrandRate{
				{Brand: "MASTERCARD", ProductType: "CREDIT", InstallmentsFrom: 1, InstallmentsTo: 1, MDR: decimal.RequireFromString("2.5")},
				{Brand: "VISA", ProductType: "CREDIT", InstallmentsFrom: 1, InstallmentsTo: 1, MDR: decimal.RequireFromString("2.5")},
			})},
		},
		{
			name: "same range on another product type",
			fee: models.FeeTable{BrandRates: database.NewJSONB([]models.FeeBrandRate{
				{Brand: "VISA", ProductType: "CREDIT", InstallmentsFrom: 1, InstallmentsTo: 1},
				{Brand: "VISA", ProductType: "DEBIT", InstallmentsFrom: 1, InstallmentsTo: 1},
			})},
		},
		{
			name: "inverted range",
			fee: models.FeeTable{BrandRates: database.NewJSONB([]models.FeeBrandRate{
				{Brand: "VISA", ProductType: "CREDIT", InstallmentsFrom: 6, InstallmentsTo: 2},
			})},
			fields: map[string]string{"brand_rates[0].installments_to": "gtefield"},
		},
		{
			name: "unknown product type",
			fee: models.FeeTable{BrandRates: database.NewJSONB([]models.FeeBrandRate{
				{Brand: "VISA", ProductType: "VOUCHER", InstallmentsFrom: 1, InstallmentsTo: 1},
			})},
			fields: map[string]string{"brand_rates[0].product_type": "oneof"},
		},
		{
			name: "negative amounts",
			fee: models.FeeTable{
				PixFee:          decimal.RequireFromString("-0.5"),
				AnticipationFee: decimal.RequireFromString("-1"),
				BrandRates: database.NewJSONB([]models.FeeBrandRate{
					{Brand: "ELO", ProductType: "DEBIT", InstallmentsFrom: 1, InstallmentsTo: 1, MDR: decimal.RequireFromString("-1")},
				}),
			},
			fields: map[string]string{
				"brand_rates[0].mdr": "gte",
				"anticipation_fee":   "gte",
				"pix_fee":            "gte",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFeeTable(&tt.fee)

			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.fields, httperrorFields(t, err))
		})
	}
}
