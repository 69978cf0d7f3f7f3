package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/slug"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

const writeTag = "write"

// entityPtr constrains PT to *T carrying the slug columns.
type entityPtr[T any] interface {
	*T
	models.SlugEntity
}

// SlugRepository is the CRUD surface shared by every slug-keyed lookup table.
type SlugRepository[T any, PT entityPtr[T]] struct {
	*Repository
	table         string
	entity        string
	structure     *database.Struct
	searchColumns []string
	sortColumns   []string
	defaultSort   string
}

type slugTable struct {
	table         string
	entity        string
	searchColumns []string
	sortColumns   []string
	defaultSort   string
}

func newSlugRepository[T any, PT entityPtr[T]](db database.DB, logger ectologger.Logger, t slugTable) *SlugRepository[T, PT] {
	return &SlugRepository[T, PT]{
		Repository:    NewRepository(db, logger),
		table:         t.table,
		entity:        t.entity,
		structure:     database.NewStruct(new(T)),
		searchColumns: t.searchColumns,
		sortColumns:   t.sortColumns,
		defaultSort:   t.defaultSort,
	}
}

func (r *SlugRepository[T, PT]) span(ctx context.Context, op string) (context.Context, func()) {
	ctx, span := tracing.StartSpan(ctx, r.entity+"Repository."+op)
	return ctx, func() { span.End() }
}

func (r *SlugRepository[T, PT]) List(ctx context.Context, params ListParams) (*models.Page[T], error) {
	ctx, end := r.span(ctx, "List")
	defer end()

	params = params.Normalize(r.sortColumns, r.defaultSort)

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)").From(r.table)
	countSb.Where(filterWhere(countSb.SelectBuilder, params, r.searchColumns)...)

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.DB().GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("failed to count %s", r.table)
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to count %s", r.table)
	}

	sb := r.structure.SelectFrom(r.table)
	sb.Where(filterWhere(sb.SelectBuilder, params, r.searchColumns)...)
	sb.OrderBy(params.OrderBy()...)
	sb.Limit(params.PageSize).Offset(params.Offset())

	query, args := sb.Build()
	items := []T{}
	if err := r.DB().SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("failed to list %s", r.table)
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to list %s", r.table)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"count": len(items),
		"total": totalCount,
	}).Debugf("Listed %s", r.table)

	return &models.Page[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}

func (r *SlugRepository[T, PT]) GetByID(ctx context.Context, id int64) (*T, error) {
	ctx, end := r.span(ctx, "GetByID")
	defer end()

	return r.getBy(ctx, "id", id)
}

func (r *SlugRepository[T, PT]) GetBySlug(ctx context.Context, value string) (*T, error) {
	ctx, end := r.span(ctx, "GetBySlug")
	defer end()

	return r.getBy(ctx, "slug", value)
}

func (r *SlugRepository[T, PT]) getBy(ctx context.Context, column string, value any) (*T, error) {
	sb := r.structure.SelectFrom(r.table)
	sb.Where(sb.Equal(column, value))

	query, args := sb.Build()
	var item T
	err := r.DB().GetContext(ctx, &item, query, args...)
	if database.IsNotFound(err) {
		return nil, NotFound("%s %v does not exist", r.entity, value)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField(column, value).Errorf("failed to get %s", r.entity)
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to get %s", r.entity)
	}
	return &item, nil
}

// Create inserts item, deriving its slug from SlugSource when empty.
func (r *SlugRepository[T, PT]) Create(ctx context.Context, item PT) error {
	ctx, end := r.span(ctx, "Create")
	defer end()

	base := item.GetBase()
	if base.Slug == "" {
		base.Slug = slug.Make(item.SlugSource())
	}
	if base.Slug == "" {
		return BadRequest("slug is required")
	}

	ib := r.structure.InsertIntoWithTag(writeTag, r.table, item)
	ib.Returning("id", "created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&base.ID, &base.CreatedAt, &base.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return r.slugConflict(base.Slug)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("slug", base.Slug).Errorf("failed to create %s", r.entity)
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to create %s", r.entity)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":   base.ID,
		"slug": base.Slug,
	}).Debugf("Created %s", r.table)
	return nil
}

// Update overwrites the writable columns of the row with item's id. An empty slug keeps the stored one.
func (r *SlugRepository[T, PT]) Update(ctx context.Context, item PT) error {
	ctx, end := r.span(ctx, "Update")
	defer end()

	base := item.GetBase()
	if base.Slug == "" {
		existing, err := r.getBy(ctx, "id", base.ID)
		if err != nil {
			return err
		}
		base.Slug = PT(existing).GetBase().Slug
	}

	ub := r.structure.UpdateWithTag(writeTag, r.table, item)
	ub.SetMore(ub.Assign("updated_at", sqlbuilder.Raw("NOW()")))
	ub.Where(ub.Equal("id", base.ID))
	ub.SQL("RETURNING created_at, updated_at")

	query, args := ub.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&base.CreatedAt, &base.UpdatedAt)
	if database.IsNotFound(err) {
		return NotFound("%s %d does not exist", r.entity, base.ID)
	}
	if database.IsUniqueViolation(err) {
		return r.slugConflict(base.Slug)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", base.ID).Errorf("failed to update %s", r.entity)
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to update %s", r.entity)
	}

	r.logger.WithContext(ctx).WithField("id", base.ID).Debugf("Updated %s", r.table)
	return nil
}

func (r *SlugRepository[T, PT]) Delete(ctx context.Context, id int64) error {
	ctx, end := r.span(ctx, "Delete")
	defer end()

	del := r.structure.DeleteFrom(r.table)
	del.Where(del.Equal("id", id))

	query, args := del.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if database.IsForeignKeyViolation(err) {
		return Conflict("%s %d is still referenced", r.entity, id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Errorf("failed to delete %s", r.entity)
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to delete %s", r.entity)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to delete %s", r.entity)
	}
	if affected == 0 {
		return NotFound("%s %d does not exist", r.entity, id)
	}

	r.logger.WithContext(ctx).WithField("id", id).Debugf("Deleted %s", r.table)
	return nil
}

func (r *SlugRepository[T, PT]) slugConflict(value string) error {
	return httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf("%s with slug '%s' already exists", r.entity, value)).
		AddMetaValue("slug", value)
}
