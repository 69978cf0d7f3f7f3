package models

type Configuration struct {
	Base
	LockCPAnticipationOrder  bool   `db:"lock_cp_anticipation_order" json:"lock_cp_anticipation_order" fieldtag:"write"`
	LockCNPAnticipationOrder bool   `db:"lock_cnp_anticipation_order" json:"lock_cnp_anticipation_order" fieldtag:"write"`
	URL                      string `db:"url" json:"url" validate:"omitempty,url" fieldtag:"write"`
}

func (Configuration) TableName() string {
	return "configurations"
}

// SlugSource falls back to the url since configurations carry no name.
func (c *Configuration) SlugSource() string {
	return c.URL
}
