package models

import "strings"

type SalesAgent struct {
	Base
	FirstName    string `db:"first_name" json:"first_name" validate:"required,max=255" fieldtag:"write"`
	LastName     string `db:"last_name" json:"last_name" validate:"max=255" fieldtag:"write"`
	DocumentID   string `db:"document_id" json:"document_id" validate:"omitempty,max=20" fieldtag:"write"`
	Email        string `db:"email" json:"email" validate:"omitempty,email" fieldtag:"write"`
	SlugCustomer string `db:"slug_customer" json:"slug_customer" fieldtag:"write"`
}

func (SalesAgent) TableName() string {
	return "sales_agents"
}

func (s *SalesAgent) SlugSource() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
