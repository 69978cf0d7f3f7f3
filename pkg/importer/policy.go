package importer

import (
	"fmt"
	"strings"
)

// OnConflict decides what happens when a merchant slug is already stored.
type OnConflict string

const (
	// OnConflictFail inserts blindly and reports a duplicate slug as a conflict failure.
	OnConflictFail OnConflict = "fail"
	// OnConflictSkip leaves the stored merchant untouched and writes nothing for it.
	OnConflictSkip OnConflict = "skip"
	// OnConflictUpsert overwrites the merchant, replaces its contacts and upserts its pix account.
	OnConflictUpsert OnConflict = "upsert"
)

// ParseOnConflict requires an explicit policy. There is no default.
func ParseOnConflict(value string) (OnConflict, error) {
	switch policy := OnConflict(strings.ToLower(strings.TrimSpace(value))); policy {
	case OnConflictFail, OnConflictSkip, OnConflictUpsert:
		return policy, nil
	case "":
		return "", fmt.Errorf("on-conflict policy is required (fail, skip or upsert)")
	default:
		return "", fmt.Errorf("unknown on-conflict policy %q (fail, skip or upsert)", value)
	}
}

func (p OnConflict) Valid() bool {
	_, err := ParseOnConflict(string(p))
	return err == nil
}

func (p OnConflict) String() string {
	return string(p)
}
