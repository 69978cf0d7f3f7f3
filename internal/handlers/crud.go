package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/repositories"
	"github.com/Ramsey-B/backoffice/pkg/slug"
)

type slugEntityPtr[T any] interface {
	*T
	models.SlugEntity
}

// CRUDHandler serves list, get, create, update and delete for one slug-keyed resource.
type CRUDHandler[T any, PT slugEntityPtr[T]] struct {
	store    repositories.SlugStore[T]
	resource string
	// check runs after tag validation for rules tags cannot express
	check func(PT) error
}

func NewCRUDHandler[T any, PT slugEntityPtr[T]](store repositories.SlugStore[T], resource string, check func(PT) error) *CRUDHandler[T, PT] {
	return &CRUDHandler[T, PT]{store: store, resource: resource, check: check}
}

func (h *CRUDHandler[T, PT]) RegisterRoutes(g *echo.Group) {
	group := g.Group("/" + h.resource)
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/slug/:slug", h.GetBySlug)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List handles GET /<resource>
func (h *CRUDHandler[T, PT]) List(c echo.Context) error {
	params, err := ParseListParams(c)
	if err != nil {
		return err
	}

	page, err := h.store.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return SuccessResponse(c, page)
}

// Get handles GET /<resource>/:id
func (h *CRUDHandler[T, PT]) Get(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, item)
}

// GetBySlug handles GET /<resource>/slug/:slug
func (h *CRUDHandler[T, PT]) GetBySlug(c echo.Context) error {
	item, err := h.store.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return SuccessResponse(c, item)
}

// Create handles POST /<resource>. Records are active unless the body says otherwise.
func (h *CRUDHandler[T, PT]) Create(c echo.Context) error {
	var item T
	var probe struct {
		Active *bool `json:"active"`
	}
	if err := ReadJSON(c, &item, &probe); err != nil {
		return err
	}

	base := PT(&item).GetBase()
	base.ID = 0
	base.Active = probe.Active == nil || *probe.Active

	if err := h.validate(PT(&item)); err != nil {
		return err
	}
	if err := h.store.Create(c.Request().Context(), &item); err != nil {
		return err
	}
	return CreatedResponse(c, &item)
}

// Update handles PUT /<resource>/:id. An empty slug keeps the stored one.
func (h *CRUDHandler[T, PT]) Update(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var item T
	if err := ReadJSON(c, &item); err != nil {
		return err
	}
	PT(&item).GetBase().ID = id

	if err := h.validate(PT(&item)); err != nil {
		return err
	}
	if err := h.store.Update(c.Request().Context(), &item); err != nil {
		return err
	}
	return SuccessResponse(c, &item)
}

// Delete handles DELETE /<resource>/:id
func (h *CRUDHandler[T, PT]) Delete(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return NoContentResponse(c)
}

func (h *CRUDHandler[T, PT]) validate(item PT) error {
	if err := Validate(item); err != nil {
		return err
	}
	if value := item.GetBase().Slug; value != "" && !slug.Valid(value) {
		return httperror.NewHTTPError(http.StatusBadRequest, "validation failed").
			AddMetaValue("fields", map[string]string{"slug": "slug"})
	}
	if h.check != nil {
		return h.check(item)
	}
	return nil
}
