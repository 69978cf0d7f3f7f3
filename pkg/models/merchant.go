package models

import "github.com/shopspring/decimal"

// Merchant keeps every foreign key twice, as slug and as resolved id.
type Merchant struct {
	Base
	IDMerchant                      string          `db:"id_merchant" json:"id_merchant" fieldtag:"write"`
	Name                            string          `db:"name" json:"name" fieldtag:"write"`
	IDDocument                      string          `db:"id_document" json:"id_document" fieldtag:"write"`
	CorporateName                   string          `db:"corporate_name" json:"corporate_name" fieldtag:"write"`
	Email                           string          `db:"email" json:"email" fieldtag:"write"`
	AreaCode                        string          `db:"area_code" json:"area_code" fieldtag:"write"`
	PhoneNumber                     string          `db:"phone_number" json:"phone_number" fieldtag:"write"`
	PhoneType                       string          `db:"phone_type" json:"phone_type" fieldtag:"write"`
	Language                        string          `db:"language" json:"language" fieldtag:"write"`
	Timezone                        string          `db:"timezone" json:"timezone" fieldtag:"write"`
	RiskAnalysisStatus              string          `db:"risk_analysis_status" json:"risk_analysis_status" fieldtag:"write"`
	RiskAnalysisStatusJustification string          `db:"risk_analysis_status_justification" json:"risk_analysis_status_justification" fieldtag:"write"`
	LegalPerson                     bool            `db:"legal_person" json:"legal_person" fieldtag:"write"`
	OpeningDate                     *string         `db:"opening_date" json:"opening_date,omitempty" fieldtag:"write"`
	OpeningDays                     string          `db:"opening_days" json:"opening_days" fieldtag:"write"`
	OpeningHour                     string          `db:"opening_hour" json:"opening_hour" fieldtag:"write"`
	ClosingHour                     string          `db:"closing_hour" json:"closing_hour" fieldtag:"write"`
	MunicipalRegistration           string          `db:"municipal_registration" json:"municipal_registration" fieldtag:"write"`
	StateSubscription               string          `db:"state_subscription" json:"state_subscription" fieldtag:"write"`
	HasTEF                          bool            `db:"has_tef" json:"has_tef" fieldtag:"write"`
	HasPix                          bool            `db:"has_pix" json:"has_pix" fieldtag:"write"`
	HasTOP                          bool            `db:"has_top" json:"has_top" fieldtag:"write"`
	EstablishmentFormat             string          `db:"establishment_format" json:"establishment_format" fieldtag:"write"`
	Revenue                         decimal.Decimal `db:"revenue" json:"revenue" fieldtag:"write"`
	AddressID                       *int64          `db:"address_id" json:"address_id,omitempty" fieldtag:"write"`
	CategoryID                      *int64          `db:"category_id" json:"category_id,omitempty" fieldtag:"write"`
	SlugCategory                    *string         `db:"slug_category" json:"slug_category,omitempty" fieldtag:"write"`
	LegalNatureID                   *int64          `db:"legal_nature_id" json:"legal_nature_id,omitempty" fieldtag:"write"`
	SlugLegalNature                 *string         `db:"slug_legal_nature" json:"slug_legal_nature,omitempty" fieldtag:"write"`
	SalesAgentID                    *int64          `db:"sales_agent_id" json:"sales_agent_id,omitempty" fieldtag:"write"`
	SlugSalesAgent                  *string         `db:"slug_sales_agent" json:"slug_sales_agent,omitempty" fieldtag:"write"`
	ConfigurationID                 *int64          `db:"configuration_id" json:"configuration_id,omitempty" fieldtag:"write"`
	SlugConfiguration               *string         `db:"slug_configuration" json:"slug_configuration,omitempty" fieldtag:"write"`
}

func (Merchant) TableName() string {
	return "merchants"
}

func (m *Merchant) SlugSource() string {
	return m.Name
}

// MerchantDetail is a merchant with the rows it owns.
type MerchantDetail struct {
	Merchant
	Address    *Address            `json:"address,omitempty"`
	Contacts   []Contact           `json:"contacts"`
	PixAccount *MerchantPixAccount `json:"pix_account,omitempty"`
}
