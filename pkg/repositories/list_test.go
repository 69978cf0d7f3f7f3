package repositories

import (
	"testing"

	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
)

func TestListParams_Normalize(t *testing.T) {
	allowed := []string{"name", "slug", "created_at"}

	p := ListParams{Page: 0, PageSize: 500, Sort: "password", Order: "desc"}.Normalize(allowed, "name")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, "name", p.Sort)
	assert.Equal(t, "DESC", p.Order)

	p = ListParams{Page: 3, PageSize: 10, Sort: " Created_At ", Order: "sideways"}.Normalize(allowed, "name")
	assert.Equal(t, "created_at", p.Sort)
	assert.Equal(t, "ASC", p.Order)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, []string{"created_at ASC", "id ASC"}, p.OrderBy())

	p = ListParams{}.Normalize(allowed, "name")
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestFilterWhere(t *testing.T) {
	active := true
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id").From("categories")
	sb.Where(filterWhere(sb, ListParams{Search: "Açaí 50%", Active: &active}, []string{"name", "slug"})...)

	query, args := sb.Build()
	assert.Contains(t, query, "unaccent(lower(name)) LIKE $1")
	assert.Contains(t, query, "unaccent(lower(slug)) LIKE $2")
	assert.Contains(t, query, "active = $3")
	assert.Equal(t, []any{`%acai 50\%%`, `%acai 50\%%`, true}, args)
}

func TestFilterWhere_Empty(t *testing.T) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	assert.Empty(t, filterWhere(sb, ListParams{}, []string{"name"}))
}
