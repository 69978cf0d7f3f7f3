package models

// Category is a merchant category (MCC) with its anticipation risk parameters.
type Category struct {
	Base
	Name                      string `db:"name" json:"name" validate:"required,max=255" fieldtag:"write"`
	MCC                       string `db:"mcc" json:"mcc" validate:"omitempty,max=10" fieldtag:"write"`
	CNAE                      string `db:"cnae" json:"cnae" validate:"omitempty,max=20" fieldtag:"write"`
	AnticipationRiskFactorCP  int    `db:"anticipation_risk_factor_cp" json:"anticipation_risk_factor_cp" validate:"gte=0" fieldtag:"write"`
	AnticipationRiskFactorCNP int    `db:"anticipation_risk_factor_cnp" json:"anticipation_risk_factor_cnp" validate:"gte=0" fieldtag:"write"`
	WaitingPeriodCP           int    `db:"waiting_period_cp" json:"waiting_period_cp" validate:"gte=0" fieldtag:"write"`
	WaitingPeriodCNP          int    `db:"waiting_period_cnp" json:"waiting_period_cnp" validate:"gte=0" fieldtag:"write"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) SlugSource() string {
	return c.Name
}
