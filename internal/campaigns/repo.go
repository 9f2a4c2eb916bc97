package campaigns

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

// Repository defines persistence operations for campaigns.
type Repository interface {
	Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error)
	Update(ctx context.Context, campaignID uuid.UUID, updates map[string]any) error
	ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Campaign, string, error)
	ListOpen(ctx context.Context, params pagination.Params) ([]models.Campaign, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a campaigns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *repository) FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Where("id = ?", campaignID).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) Update(ctx context.Context, campaignID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(updates).Error
}

func (r *repository) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Campaign, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("brand_id = ?", brandID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return r.page(query, params)
}

// ListOpen is the influencer-facing discovery feed and only ever shows
// campaigns currently accepting applications.
func (r *repository) ListOpen(ctx context.Context, params pagination.Params) ([]models.Campaign, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("status = ?", enums.CampaignStatusOpen)
	return r.page(query, params)
}

func (r *repository) page(query *gorm.DB, params pagination.Params) ([]models.Campaign, string, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", err
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Campaign
	err = query.
		Order("created_at DESC").
		Order("id DESC").
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
