package contracts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

// Repository defines persistence operations for contract tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, contract *models.Contract) (*models.Contract, error)
	FindByID(ctx context.Context, contractID uuid.UUID) (*models.Contract, error)
	ListChain(ctx context.Context, brandID, influencerID, campaignID uuid.UUID) ([]models.Contract, error)
	ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractPage, error)
	ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractPage, error)
	UpdateGuarded(ctx context.Context, contractID uuid.UUID, expectedStatus enums.ContractStatus, updates map[string]any) (int64, error)
	MarkSuperseded(ctx context.Context, contractID, successorID uuid.UUID) (int64, error)
	CreateSignatureImage(ctx context.Context, image *models.SignatureImage) (*models.SignatureImage, error)
	FindSignatureImage(ctx context.Context, imageID uuid.UUID) (*models.SignatureImage, error)
	FindStaleSent(ctx context.Context, cutoff time.Time, limit int) ([]models.Contract, error)
}
