package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/backoffice/pkg/metrics"
	"github.com/Ramsey-B/backoffice/pkg/report"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultFilename = "transacoes.xlsx"
)

type ReportHandler struct {
	logger ectologger.Logger
}

func NewReportHandler(logger ectologger.Logger) *ReportHandler {
	return &ReportHandler{logger: logger}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/reports/transactions/export", h.ExportTransactions)
}

// ExportTransactions handles POST /reports/transactions/export?filename=
// The body is the JSON array of transactions currently shown to the user.
func (h *ReportHandler) ExportTransactions(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ReportHandler.ExportTransactions")
	defer span.End()

	var txs []report.Transaction
	if err := ReadJSON(c, &txs); err != nil {
		metrics.RecordReportExport("invalid", 0)
		return err
	}

	var buf bytes.Buffer
	summary, err := report.WriteWorkbook(&buf, txs)
	if err != nil {
		metrics.RecordReportExport("error", len(txs))
		h.logger.WithContext(ctx).WithError(err).Error("failed to build transactions workbook")
		return err
	}
	metrics.RecordReportExport("ok", len(txs))

	filename := ExportFilename(c.QueryParam("filename"))
	h.logger.WithContext(ctx).WithFields(map[string]any{
		"transactions": summary.Count,
		"sheets":       len(summary.NonEmpty()) + 2,
		"filename":     filename,
	}).Info("Exported transactions workbook")

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportFilename keeps only the base name and forces the .xlsx extension.
func ExportFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	name = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
	if name == "" || name == "." || name == "/" {
		return defaultFilename
	}
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}
