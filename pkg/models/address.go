package models

import "time"

// Address has no natural key; merchants and contacts reference it by id.
type Address struct {
	ID           int64     `db:"id" json:"id"`
	Street       string    `db:"street" json:"street" fieldtag:"write"`
	Number       string    `db:"number" json:"number" fieldtag:"write"`
	Complement   string    `db:"complement" json:"complement" fieldtag:"write"`
	Neighborhood string    `db:"neighborhood" json:"neighborhood" fieldtag:"write"`
	City         string    `db:"city" json:"city" fieldtag:"write"`
	State        string    `db:"state" json:"state" fieldtag:"write"`
	Country      string    `db:"country" json:"country" fieldtag:"write"`
	ZipCode      string    `db:"zip_code" json:"zip_code" fieldtag:"write"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (Address) TableName() string {
	return "addresses"
}
