package auth

import (
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ActorID uuid.UUID
	Role    enums.ContractParty
	BrandID *uuid.UUID
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients. ActorID is
// the brand member or influencer id; BrandID is set only for brand actors.
type AccessTokenClaims struct {
	ActorID uuid.UUID           `json:"actor_id"`
	Role    enums.ContractParty `json:"role"`
	BrandID *uuid.UUID          `json:"brand_id,omitempty"`
	jwt.RegisteredClaims
}
