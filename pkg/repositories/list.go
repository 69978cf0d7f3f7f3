package repositories

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/backoffice/pkg/slug"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListParams are the filters, paging and ordering threaded from the query string.
type ListParams struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
	Sort     string
	Order    string
}

// Normalize clamps paging and falls back to defaultSort for sort keys not in allowed.
func (p ListParams) Normalize(allowed []string, defaultSort string) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	sort := strings.ToLower(strings.TrimSpace(p.Sort))
	p.Sort = defaultSort
	for _, column := range allowed {
		if column == sort {
			p.Sort = column
			break
		}
	}

	if strings.EqualFold(p.Order, "desc") {
		p.Order = "DESC"
	} else {
		p.Order = "ASC"
	}

	p.Search = strings.TrimSpace(p.Search)
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// OrderBy renders the sort clause with id as a stable tiebreaker.
func (p ListParams) OrderBy() []string {
	clauses := []string{fmt.Sprintf("%s %s", p.Sort, p.Order)}
	if p.Sort != "id" {
		clauses = append(clauses, "id ASC")
	}
	return clauses
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterWhere builds the search and active conditions for columns.
// Search ignores case and accents on both sides.
func filterWhere(sb *sqlbuilder.SelectBuilder, p ListParams, searchColumns []string) []string {
	var where []string
	if p.Search != "" && len(searchColumns) > 0 {
		term := "%" + likeEscaper.Replace(slug.Fold(p.Search)) + "%"
		var or []string
		for _, column := range searchColumns {
			or = append(or, sb.Like(fmt.Sprintf("unaccent(lower(%s))", column), term))
		}
		where = append(where, sb.Or(or...))
	}
	if p.Active != nil {
		where = append(where, sb.Equal("active", *p.Active))
	}
	return where
}
