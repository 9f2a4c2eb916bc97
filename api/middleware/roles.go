package middleware

import (
	"net/http"

	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
)

// RequireParty gates a route group to one side of the contract.
func RequireParty(party enums.ContractParty, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual, ok := PartyFromContext(r.Context())
			if !ok || actual != party {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, party.String()+" role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
