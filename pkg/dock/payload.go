package dock

import (
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/backoffice/pkg/importer"
	"github.com/Ramsey-B/backoffice/pkg/models"
)

type AddressPayload struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	ZipCode      string `json:"zip_code"`
}

type CategoryPayload struct {
	Slug                      string `json:"slug"`
	Name                      string `json:"name"`
	MCC                       string `json:"mcc"`
	CNAE                      string `json:"cnae"`
	AnticipationRiskFactorCP  int    `json:"anticipation_risk_factor_cp"`
	AnticipationRiskFactorCNP int    `json:"anticipation_risk_factor_cnp"`
	WaitingPeriodCP           int    `json:"waiting_period_cp"`
	WaitingPeriodCNP          int    `json:"waiting_period_cnp"`
}

type LegalNaturePayload struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type SalesAgentPayload struct {
	Slug         string `json:"slug"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DocumentID   string `json:"document_id"`
	Email        string `json:"email"`
	SlugCustomer string `json:"slug_customer"`
}

type ConfigurationPayload struct {
	Slug                     string `json:"slug"`
	LockCPAnticipationOrder  bool   `json:"lock_cp_anticipation_order"`
	LockCNPAnticipationOrder bool   `json:"lock_cnp_anticipation_order"`
	URL                      string `json:"url"`
}

type ContactPayload struct {
	Name             string          `json:"name"`
	DocumentID       string          `json:"document_id"`
	Email            string          `json:"email"`
	AreaCode         string          `json:"area_code"`
	PhoneNumber      string          `json:"phone_number"`
	PhoneType        string          `json:"phone_type"`
	BirthDate        *string         `json:"birth_date"`
	MothersName      string          `json:"mothers_name"`
	IsPartnerContact bool            `json:"is_partner_contact"`
	IsPEP            bool            `json:"is_pep"`
	Address          *AddressPayload `json:"address"`
}

type PixAccountPayload struct {
	Slug                string `json:"slug"`
	IDRegistration      string `json:"id_registration"`
	IDAccount           string `json:"id_account"`
	BankNumber          string `json:"bank_number"`
	BankBranchNumber    string `json:"bank_branch_number"`
	BankBranchDigit     string `json:"bank_branch_digit"`
	BankAccountNumber   string `json:"bank_account_number"`
	BankAccountDigit    string `json:"bank_account_digit"`
	BankAccountType     string `json:"bank_account_type"`
	BankAccountStatus   string `json:"bank_account_status"`
	OnboardingPixStatus string `json:"onboarding_pix_status"`
	Message             string `json:"message"`
	BankName            string `json:"bank_name"`
}

// MerchantPayload is one entry of the feed's merchant array.
type MerchantPayload struct {
	Slug                            string                `json:"slug"`
	Active                          *bool                 `json:"active"`
	IDMerchant                      string                `json:"id_merchant"`
	Name                            string                `json:"name"`
	IDDocument                      string                `json:"id_document"`
	CorporateName                   string                `json:"corporate_name"`
	Email                           string                `json:"email"`
	AreaCode                        string                `json:"area_code"`
	PhoneNumber                     string                `json:"phone_number"`
	PhoneType                       string                `json:"phone_type"`
	Language                        string                `json:"language"`
	Timezone                        string                `json:"timezone"`
	RiskAnalysisStatus              string                `json:"risk_analysis_status"`
	RiskAnalysisStatusJustification string                `json:"risk_analysis_status_justification"`
	LegalPerson                     bool                  `json:"legal_person"`
	OpeningDate                     *string               `json:"opening_date"`
	OpeningDays                     string                `json:"opening_days"`
	OpeningHour                     string                `json:"opening_hour"`
	ClosingHour                     string                `json:"closing_hour"`
	MunicipalRegistration           string                `json:"municipal_registration"`
	StateSubscription               string                `json:"state_subscription"`
	HasTEF                          bool                  `json:"has_tef"`
	HasPix                          bool                  `json:"has_pix"`
	HasTOP                          bool                  `json:"has_top"`
	EstablishmentFormat             string                `json:"establishment_format"`
	Revenue                         decimal.NullDecimal   `json:"revenue"`
	Address                         *AddressPayload       `json:"address"`
	Category                        *CategoryPayload      `json:"category"`
	LegalNature                     *LegalNaturePayload   `json:"legal_nature"`
	SalesAgent                      *SalesAgentPayload    `json:"sales_agent"`
	Configuration                   *ConfigurationPayload `json:"configuration"`
	Contacts                        []ContactPayload      `json:"contacts"`
	PixAccount                      *PixAccountPayload    `json:"pix_account"`
}

// ToAggregate maps the payload onto the rows the importer writes. Records arrive active
// unless the feed says otherwise.
func (p MerchantPayload) ToAggregate() importer.MerchantAggregate {
	active := p.Active == nil || *p.Active

	agg := importer.MerchantAggregate{
		Merchant: models.Merchant{
			Base:                            models.Base{Slug: p.Slug, Active: active},
			IDMerchant:                      p.IDMerchant,
			Name:                            p.Name,
			IDDocument:                      p.IDDocument,
			CorporateName:                   p.CorporateName,
			Email:                           p.Email,
			AreaCode:                        p.AreaCode,
			PhoneNumber:                     p.PhoneNumber,
			PhoneType:                       p.PhoneType,
			Language:                        p.Language,
			Timezone:                        p.Timezone,
			RiskAnalysisStatus:              p.RiskAnalysisStatus,
			RiskAnalysisStatusJustification: p.RiskAnalysisStatusJustification,
			LegalPerson:                     p.LegalPerson,
			OpeningDate:                     p.OpeningDate,
			OpeningDays:                     p.OpeningDays,
			OpeningHour:                     p.OpeningHour,
			ClosingHour:                     p.ClosingHour,
			MunicipalRegistration:           p.MunicipalRegistration,
			StateSubscription:               p.StateSubscription,
			HasTEF:                          p.HasTEF,
			HasPix:                          p.HasPix,
			HasTOP:                          p.HasTOP,
			EstablishmentFormat:             p.EstablishmentFormat,
		},
		Address: p.Address.toModel(),
	}
	if p.Revenue.Valid {
		agg.Merchant.Revenue = p.Revenue.Decimal
	}

	if c := p.Category; c != nil {
		agg.Category = &models.Category{
			Base:                      models.Base{Slug: c.Slug, Active: true},
			Name:                      c.Name,
			MCC:                       c.MCC,
			CNAE:                      c.CNAE,
			AnticipationRiskFactorCP:  c.AnticipationRiskFactorCP,
			AnticipationRiskFactorCNP: c.AnticipationRiskFactorCNP,
			WaitingPeriodCP:           c.WaitingPeriodCP,
			WaitingPeriodCNP:          c.WaitingPeriodCNP,
		}
	}
	if l := p.LegalNature; l != nil {
		agg.LegalNature = &models.LegalNature{
			Base: models.Base{Slug: l.Slug, Active: true},
			Name: l.Name,
			Code: l.Code,
		}
	}
	if s := p.SalesAgent; s != nil {
		agg.SalesAgent = &models.SalesAgent{
			Base:         models.Base{Slug: s.Slug, Active: true},
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			DocumentID:   s.DocumentID,
			Email:        s.Email,
			SlugCustomer: s.SlugCustomer,
		}
	}
	if c := p.Configuration; c != nil {
		agg.Configuration = &models.Configuration{
			Base:                     models.Base{Slug: c.Slug, Active: true},
			LockCPAnticipationOrder:  c.LockCPAnticipationOrder,
			LockCNPAnticipationOrder: c.LockCNPAnticipationOrder,
			URL:                      c.URL,
		}
	}

	for _, c := range p.Contacts {
		agg.Contacts = append(agg.Contacts, importer.ContactAggregate{
			Contact: models.Contact{
				Name:             c.Name,
				DocumentID:       c.DocumentID,
				Email:            c.Email,
				AreaCode:         c.AreaCode,
				PhoneNumber:      c.PhoneNumber,
				PhoneType:        c.PhoneType,
				BirthDate:        c.BirthDate,
				MothersName:      c.MothersName,
				IsPartnerContact: c.IsPartnerContact,
				IsPEP:            c.IsPEP,
			},
			Address: c.Address.toModel(),
		})
	}

	if x := p.PixAccount; x != nil {
		agg.PixAccount = &models.MerchantPixAccount{
			Base:                models.Base{Slug: x.Slug, Active: true},
			IDRegistration:      x.IDRegistration,
			IDAccount:           x.IDAccount,
			BankNumber:          x.BankNumber,
			BankBranchNumber:    x.BankBranchNumber,
			BankBranchDigit:     x.BankBranchDigit,
			BankAccountNumber:   x.BankAccountNumber,
			BankAccountDigit:    x.BankAccountDigit,
			BankAccountType:     x.BankAccountType,
			BankAccountStatus:   x.BankAccountStatus,
			OnboardingPixStatus: x.OnboardingPixStatus,
			Message:             x.Message,
			BankName:            x.BankName,
		}
	}

	return agg
}

func (a *AddressPayload) toModel() *models.Address {
	if a == nil {
		return nil
	}
	return &models.Address{
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		ZipCode:      a.ZipCode,
	}
}
