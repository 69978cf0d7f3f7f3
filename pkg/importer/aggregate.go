package importer

import "github.com/Ramsey-B/backoffice/pkg/models"

// ContactAggregate is a contact with the address it owns.
type ContactAggregate struct {
	Contact models.Contact
	Address *models.Address
}

// MerchantAggregate is one merchant with everything the import writes for it.
// Nil references are simply not set on the merchant.
type MerchantAggregate struct {
	Merchant      models.Merchant
	Address       *models.Address
	Category      *models.Category
	LegalNature   *models.LegalNature
	SalesAgent    *models.SalesAgent
	Configuration *models.Configuration
	Contacts      []ContactAggregate
	PixAccount    *models.MerchantPixAccount
}
