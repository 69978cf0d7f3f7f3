package models

type MerchantPixAccount struct {
	Base
	IDRegistration      string `db:"id_registration" json:"id_registration" fieldtag:"write"`
	IDAccount           string `db:"id_account" json:"id_account" fieldtag:"write"`
	BankNumber          string `db:"bank_number" json:"bank_number" fieldtag:"write"`
	BankBranchNumber    string `db:"bank_branch_number" json:"bank_branch_number" fieldtag:"write"`
	BankBranchDigit     string `db:"bank_branch_digit" json:"bank_branch_digit" fieldtag:"write"`
	BankAccountNumber   string `db:"bank_account_number" json:"bank_account_number" fieldtag:"write"`
	BankAccountDigit    string `db:"bank_account_digit" json:"bank_account_digit" fieldtag:"write"`
	BankAccountType     string `db:"bank_account_type" json:"bank_account_type" fieldtag:"write"`
	BankAccountStatus   string `db:"bank_account_status" json:"bank_account_status" fieldtag:"write"`
	OnboardingPixStatus string `db:"onboarding_pix_status" json:"onboarding_pix_status" fieldtag:"write"`
	Message             string `db:"message" json:"message" fieldtag:"write"`
	BankName            string `db:"bank_name" json:"bank_name" fieldtag:"write"`
	MerchantID          int64  `db:"merchant_id" json:"merchant_id" fieldtag:"write"`
	MerchantSlug        string `db:"merchant_slug" json:"merchant_slug" fieldtag:"write"`
}

func (MerchantPixAccount) TableName() string {
	return "merchantpixaccount"
}

func (p *MerchantPixAccount) SlugSource() string {
	return p.MerchantSlug + "-pix"
}
