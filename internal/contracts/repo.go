package contracts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a contracts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	if err := r.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func (r *repository) FindByID(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("id = ?", contractID).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListChain loads every contract version for one engagement. Resend chains
// never cross the (brand, influencer, campaign) triple, so this is the full
// input the resolver needs.
func (r *repository) ListChain(ctx context.Context, brandID, influencerID, campaignID uuid.UUID) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND influencer_id = ? AND campaign_id = ?", brandID, influencerID, campaignID).
		Order("created_at ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *repository) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractPage, error) {
	return r.listContracts(ctx, "influencer_id", influencerID, params, filters)
}

func (r *repository) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractPage, error) {
	return r.listContracts(ctx, "brand_id", brandID, params, filters)
}

func (r *repository) listContracts(ctx context.Context, ownerColumn string, ownerID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractPage, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where(ownerColumn+" = ?", ownerID)

	if !filters.IncludeSuperseded {
		query = query.Where("superseded_by_id IS NULL")
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filters.CampaignID)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Contract
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &ContractPage{Rows: rows, NextCursor: nextCursor}, nil
}

// UpdateGuarded applies the column updates only while the row is still in the
// expected status and has not reached a terminal column state. The caller
// inspects the affected count: zero means a concurrent writer got there first
// and the error must be classified from a fresh read.
func (r *repository) UpdateGuarded(ctx context.Context, contractID uuid.UUID, expectedStatus enums.ContractStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ? AND status = ? AND locked_at IS NULL AND superseded_by_id IS NULL", contractID, expectedStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// MarkSuperseded points the old contract at its replacement. The guard makes
// the pointer write-once: a row that is already superseded or locked is never
// re-pointed.
func (r *repository) MarkSuperseded(ctx context.Context, contractID, successorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ? AND superseded_by_id IS NULL AND locked_at IS NULL", contractID).
		Updates(map[string]any{"superseded_by_id": successorID})
	return res.RowsAffected, res.Error
}

func (r *repository) CreateSignatureImage(ctx context.Context, image *models.SignatureImage) (*models.SignatureImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (r *repository) FindSignatureImage(ctx context.Context, imageID uuid.UUID) (*models.SignatureImage, error) {
	var image models.SignatureImage
	err := r.db.WithContext(ctx).
		Where("id = ?", imageID).
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// FindStaleSent returns contracts still awaiting the influencer's first
// response after the cutoff. Contracts are inserted in sent status, so
// created_at is when the influencer was asked.
func (r *repository) FindStaleSent(ctx context.Context, cutoff time.Time, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("status = ? AND superseded_by_id IS NULL AND created_at < ?", enums.ContractStatusSent, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
