package models

type LegalNature struct {
	Base
	Name string `db:"name" json:"name" validate:"required,max=255" fieldtag:"write"`
	Code string `db:"code" json:"code" validate:"omitempty,max=20" fieldtag:"write"`
}

func (LegalNature) TableName() string {
	return "legal_natures"
}

func (l *LegalNature) SlugSource() string {
	return l.Name
}
