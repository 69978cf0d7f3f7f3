package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/backoffice/pkg/repositories"
)

// MerchantHandler exposes the imported merchants read-only
type MerchantHandler struct {
	repo repositories.MerchantReader
}

func NewMerchantHandler(repo repositories.MerchantReader) *MerchantHandler {
	return &MerchantHandler{repo: repo}
}

func (h *MerchantHandler) RegisterRoutes(g *echo.Group) {
	merchants := g.Group("/merchants")
	merchants.GET("", h.List)
	merchants.GET("/:id", h.Get)
}

// List handles GET /merchants
func (h *MerchantHandler) List(c echo.Context) error {
	params, err := ParseListParams(c)
	if err != nil {
		return err
	}

	page, err := h.repo.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return SuccessResponse(c, page)
}

// Get handles GET /merchants/:id with address, contacts and pix account
func (h *MerchantHandler) Get(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.repo.GetDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, detail)
}
