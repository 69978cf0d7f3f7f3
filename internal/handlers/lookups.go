package handlers

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/backoffice/pkg/middleware"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/repositories"
)

// LookupStores are the repositories behind the back-office reference data screens.
type LookupStores struct {
	Categories     repositories.SlugStore[models.Category]
	LegalNatures   repositories.SlugStore[models.LegalNature]
	SalesAgents    repositories.SlugStore[models.SalesAgent]
	Configurations repositories.SlugStore[models.Configuration]
	Fees           repositories.SlugStore[models.FeeTable]
}

// RegisterLookupRoutes mounts the CRUD routes of every reference table on g.
func RegisterLookupRoutes(g *echo.Group, stores LookupStores) {
	NewCRUDHandler[models.Category](stores.Categories, "categories", nil).RegisterRoutes(g)
	NewCRUDHandler[models.LegalNature](stores.LegalNatures, "legal-natures", nil).RegisterRoutes(g)
	NewCRUDHandler[models.SalesAgent](stores.SalesAgents, "sales-agents", nil).RegisterRoutes(g)
	NewCRUDHandler[models.Configuration](stores.Configurations, "configurations", nil).RegisterRoutes(g)
	NewCRUDHandler[models.FeeTable](stores.Fees, "fees", CheckFeeTable).RegisterRoutes(g)
}

// CheckFeeTable validates each brand rate and rejects overlapping installment ranges
// for the same brand and product type.
func CheckFeeTable(fee *models.FeeTable) error {
	fields := map[string]string{}
	rates := fee.BrandRates.Data

	for i, rate := range rates {
		if err := Validate(&rate); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return err
			}
			for field, tag := range middleware.ValidationFields(verrs) {
				fields[fmt.Sprintf("brand_rates[%d].%s", i, field)] = tag
			}
			continue
		}
		if rate.MDR.IsNegative() {
			fields[fmt.Sprintf("brand_rates[%d].mdr", i)] = "gte"
		}
		for j := 0; j < i; j++ {
			other := rates[j]
			if other.Brand == rate.Brand && other.ProductType == rate.ProductType &&
				rate.InstallmentsFrom <= other.InstallmentsTo && other.InstallmentsFrom <= rate.InstallmentsTo {
				fields[fmt.Sprintf("brand_rates[%d].installments_from", i)] = "overlap"
			}
		}
	}
	if fee.AnticipationFee.IsNegative() {
		fields["anticipation_fee"] = "gte"
	}
	if fee.PixFee.IsNegative() {
		fields["pix_fee"] = "gte"
	}

	if len(fields) == 0 {
		return nil
	}
	return httperror.NewHTTPError(http.StatusBadRequest, "validation failed").AddMetaValue("fields", fields)
}
