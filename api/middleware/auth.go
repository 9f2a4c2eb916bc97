package middleware

import (
	"net/http"
	"strings"

	"github.com/brandquill/brandquill-backend/api/responses"
	pkgAuth "github.com/brandquill/brandquill-backend/pkg/auth"
	"github.com/brandquill/brandquill-backend/pkg/config"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// actor's identity. Tokens are minted by the identity collaborator; this
// service only verifies the signature and claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if !claims.Role.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown party"))
				return
			}
			if claims.Role == enums.ContractPartyBrand && claims.BrandID == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "brand token missing brand id"))
				return
			}

			ctx := WithActorID(r.Context(), claims.ActorID.String())
			ctx = WithParty(ctx, claims.Role)
			if claims.BrandID != nil {
				ctx = WithBrandID(ctx, claims.BrandID.String())
			}

			if logg != nil {
				fields := map[string]any{
					"actor_id": claims.ActorID.String(),
					"party":    claims.Role.String(),
				}
				if claims.BrandID != nil {
					fields["brand_id"] = claims.BrandID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
