package models

import "time"

type Contact struct {
	ID               int64     `db:"id" json:"id"`
	MerchantID       int64     `db:"merchant_id" json:"merchant_id" fieldtag:"write"`
	MerchantSlug     string    `db:"merchant_slug" json:"merchant_slug" fieldtag:"write"`
	AddressID        *int64    `db:"address_id" json:"address_id,omitempty" fieldtag:"write"`
	Name             string    `db:"name" json:"name" fieldtag:"write"`
	DocumentID       string    `db:"document_id" json:"document_id" fieldtag:"write"`
	Email            string    `db:"email" json:"email" fieldtag:"write"`
	AreaCode         string    `db:"area_code" json:"area_code" fieldtag:"write"`
	PhoneNumber      string    `db:"phone_number" json:"phone_number" fieldtag:"write"`
	PhoneType        string    `db:"phone_type" json:"phone_type" fieldtag:"write"`
	BirthDate        *string   `db:"birth_date" json:"birth_date,omitempty" fieldtag:"write"`
	MothersName      string    `db:"mothers_name" json:"mothers_name" fieldtag:"write"`
	IsPartnerContact bool      `db:"is_partner_contact" json:"is_partner_contact" fieldtag:"write"`
	IsPEP            bool      `db:"is_pep" json:"is_pep" fieldtag:"write"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}
