package models

import (
	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// FeeBrandRate is the MDR charged for one brand and product type over an installment range.
type FeeBrandRate struct {
	Brand            string          `json:"brand" validate:"required"`
	ProductType      string          `json:"product_type" validate:"required,oneof=DEBIT CREDIT PREPAID_CREDIT PREPAID_DEBIT"`
	InstallmentsFrom int             `json:"installments_from" validate:"gte=1"`
	InstallmentsTo   int             `json:"installments_to" validate:"gtefield=InstallmentsFrom"`
	MDR              decimal.Decimal `json:"mdr"`
}

// FeeTable ("taxa") groups the fees applied to merchants of a commercial plan.
type FeeTable struct {
	Base
	Name             string                         `db:"name" json:"name" validate:"required,max=255" fieldtag:"write"`
	Description      string                         `db:"description" json:"description" fieldtag:"write"`
	AnticipationType string                         `db:"anticipation_type" json:"anticipation_type" validate:"omitempty,oneof=NOANTECIPATION AUTOMATIC SPOT" fieldtag:"write"`
	AnticipationFee  decimal.Decimal                `db:"anticipation_fee" json:"anticipation_fee" fieldtag:"write"`
	PixFee           decimal.Decimal                `db:"pix_fee" json:"pix_fee" fieldtag:"write"`
	BrandRates       database.JSONB[[]FeeBrandRate] `db:"brand_rates" json:"brand_rates" fieldtag:"write"`
}

func (FeeTable) TableName() string {
	return "fees"
}

func (f *FeeTable) SlugSource() string {
	return f.Name
}
