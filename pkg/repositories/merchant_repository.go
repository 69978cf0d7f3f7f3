package repositories

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

var (
	merchantStruct   = database.NewStruct(new(models.Merchant))
	addressStruct    = database.NewStruct(new(models.Address))
	contactStruct    = database.NewStruct(new(models.Contact))
	pixAccountStruct = database.NewStruct(new(models.MerchantPixAccount))
)

var merchantSortColumns = []string{"id", "name", "corporate_name", "slug", "active", "risk_analysis_status", "created_at", "updated_at"}

// MerchantRepository reads imported merchants. Writes go through the import pipeline.
type MerchantRepository struct {
	*Repository
	merchants *SlugRepository[models.Merchant, *models.Merchant]
}

func NewMerchantRepository(db database.DB, logger ectologger.Logger) *MerchantRepository {
	return &MerchantRepository{
		Repository: NewRepository(db, logger),
		merchants: newSlugRepository[models.Merchant](db, logger, slugTable{
			table:         models.Merchant{}.TableName(),
			entity:        "merchant",
			searchColumns: []string{"name", "corporate_name", "id_document", "slug"},
			sortColumns:   merchantSortColumns,
			defaultSort:   "name",
		}),
	}
}

func (r *MerchantRepository) List(ctx context.Context, params ListParams) (*models.Page[models.Merchant], error) {
	return r.merchants.List(ctx, params)
}

// GetDetail loads a merchant with its address, contacts and pix account.
func (r *MerchantRepository) GetDetail(ctx context.Context, id int64) (*models.MerchantDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "MerchantRepository.GetDetail")
	defer span.End()

	merchant, err := r.merchants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.MerchantDetail{Merchant: *merchant, Contacts: []models.Contact{}}

	if merchant.AddressID != nil {
		sb := addressStruct.SelectFrom(models.Address{}.TableName())
		sb.Where(sb.Equal("id", *merchant.AddressID))
		query, args := sb.Build()

		var address models.Address
		err := r.DB().GetContext(ctx, &address, query, args...)
		if err != nil && !database.IsNotFound(err) {
			return nil, r.internal(ctx, err, id, "failed to load merchant address")
		}
		if err == nil {
			detail.Address = &address
		}
	}

	csb := contactStruct.SelectFrom(models.Contact{}.TableName())
	csb.Where(csb.Equal("merchant_id", id))
	csb.OrderBy("id")
	query, args := csb.Build()
	if err := r.DB().SelectContext(ctx, &detail.Contacts, query, args...); err != nil {
		return nil, r.internal(ctx, err, id, "failed to load merchant contacts")
	}

	psb := pixAccountStruct.SelectFrom(models.MerchantPixAccount{}.TableName())
	psb.Where(psb.Equal("merchant_id", id))
	psb.Limit(1)
	query, args = psb.Build()

	var pix models.MerchantPixAccount
	err = r.DB().GetContext(ctx, &pix, query, args...)
	if err != nil && !database.IsNotFound(err) {
		return nil, r.internal(ctx, err, id, "failed to load merchant pix account")
	}
	if err == nil {
		detail.PixAccount = &pix
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"merchant_id": id,
		"contacts":    len(detail.Contacts),
	}).Debugf("Retrieved %s detail", models.Merchant{}.TableName())
	return detail, nil
}

func (r *MerchantRepository) internal(ctx context.Context, err error, id int64, message string) error {
	r.logger.WithContext(ctx).WithError(err).WithField("merchant_id", id).Error(message)
	return httperror.NewHTTPError(http.StatusInternalServerError, message)
}
