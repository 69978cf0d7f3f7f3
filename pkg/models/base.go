package models

import "time"

// Base holds the columns shared by every slug-keyed table.
// Fields tagged write are the ones callers may set; the rest are owned by the database.
type Base struct {
	ID        int64     `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug" fieldtag:"write"`
	Active    bool      `db:"active" json:"active" fieldtag:"write"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (b *Base) GetBase() *Base {
	return b
}

// SlugEntity is a row identified by its slug.
type SlugEntity interface {
	GetBase() *Base
	// SlugSource is the display value a slug is derived from when none is supplied.
	SlugSource() string
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
}
