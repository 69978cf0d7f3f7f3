package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/backoffice/pkg/importer"
	"github.com/Ramsey-B/backoffice/pkg/redis"
)

// ImportRunner is one configured import run.
type ImportRunner interface {
	Run(ctx context.Context) (importer.Summary, error)
}

// ImportFactory builds a run for the requested policy.
type ImportFactory func(policy importer.OnConflict, reset bool) (ImportRunner, error)

// ImportRequest is the body of POST /imports/merchants.
type ImportRequest struct {
	OnConflict string `json:"on_conflict"`
	Reset      bool   `json:"reset"`
}

type ImportHandler struct {
	factory ImportFactory
	logger  ectologger.Logger
}

func NewImportHandler(factory ImportFactory, logger ectologger.Logger) *ImportHandler {
	return &ImportHandler{factory: factory, logger: logger}
}

func (h *ImportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/imports/merchants", h.ImportMerchants)
}

// ImportMerchants handles POST /imports/merchants. The run is synchronous.
func (h *ImportHandler) ImportMerchants(c echo.Context) error {
	ctx := c.Request().Context()

	var req ImportRequest
	if err := ReadJSON(c, &req); err != nil {
		return err
	}
	policy, err := importer.ParseOnConflict(req.OnConflict)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error()).
			AddMetaValue("fields", map[string]string{"on_conflict": "oneof"})
	}

	runner, err := h.factory(policy, req.Reset)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to configure import")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to configure import")
	}

	summary, err := runner.Run(ctx)
	switch {
	case err == nil:
		return SuccessResponse(c, summary)
	case errors.Is(err, redis.ErrLockNotAcquired):
		return httperror.NewHTTPError(http.StatusConflict, "an import is already running")
	case errors.Is(err, importer.ErrFeed):
		return httperror.NewHTTPError(http.StatusBadGateway, "failed to fetch merchants from the feed").
			AddMetaValue("run_id", summary.RunID)
	case errors.Is(err, importer.ErrAborted):
		return c.JSON(http.StatusUnprocessableEntity, summary)
	default:
		h.logger.WithContext(ctx).WithError(err).WithField("import_run", summary.RunID).Error("import failed")
		return httperror.NewHTTPError(http.StatusInternalServerError, "import failed").
			AddMetaValue("run_id", summary.RunID)
	}
}
