package applications

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

// Repository defines persistence operations for campaign applications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, application *models.CampaignApplication) (*models.CampaignApplication, error)
	FindByID(ctx context.Context, applicationID uuid.UUID) (*models.CampaignApplication, error)
	FindByCampaignAndInfluencer(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.CampaignApplication, error)
	UpdateGuarded(ctx context.Context, applicationID uuid.UUID, expectedStatus enums.ApplicationStatus, updates map[string]any) (int64, error)
	ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.CampaignApplication, string, error)
	ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.CampaignApplication, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an applications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, application *models.CampaignApplication) (*models.CampaignApplication, error) {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func (r *repository) FindByID(ctx context.Context, applicationID uuid.UUID) (*models.CampaignApplication, error) {
	var application models.CampaignApplication
	err := r.db.WithContext(ctx).
		Where("id = ?", applicationID).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repository) FindByCampaignAndInfluencer(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.CampaignApplication, error) {
	var application models.CampaignApplication
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND influencer_id = ?", campaignID, influencerID).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// UpdateGuarded writes the given columns only while the row still holds the
// expected status. A zero count means another decision won the race.
func (r *repository) UpdateGuarded(ctx context.Context, applicationID uuid.UUID, expectedStatus enums.ApplicationStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CampaignApplication{}).
		Where("id = ? AND status = ?", applicationID, expectedStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.CampaignApplication, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CampaignApplication{}).
		Where("campaign_applications.influencer_id = ?", influencerID)
	return r.page(applyFilters(query, filters), params)
}

// ListForBrand joins through campaigns so a brand only ever sees
// applications to its own briefs.
func (r *repository) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.CampaignApplication, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CampaignApplication{}).
		Joins("JOIN campaigns ON campaigns.id = campaign_applications.campaign_id").
		Where("campaigns.brand_id = ?", brandID)
	return r.page(applyFilters(query, filters), params)
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("campaign_applications.status = ?", *filters.Status)
	}
	if filters.CampaignID != nil {
		query = query.Where("campaign_applications.campaign_id = ?", *filters.CampaignID)
	}
	return query
}

func (r *repository) page(query *gorm.DB, params pagination.Params) ([]models.CampaignApplication, string, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", err
	}
	if decodedCursor != nil {
		query = query.Where("(campaign_applications.created_at < ?) OR (campaign_applications.created_at = ? AND campaign_applications.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.CampaignApplication
	err = query.
		Order("campaign_applications.created_at DESC").
		Order("campaign_applications.id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
