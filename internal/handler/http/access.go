package http

import (
	"net/http"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
)

// targetUserID resolves whose data the request addresses: the {userID} URL parameter when
// present, the caller otherwise. Own data needs own (or all), anyone else's needs all.
func targetUserID(r *http.Request, own user.Permission, all user.Permission) (string, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return "", user.ErrMissingUserID
	}

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		userID = principal.UserID
	}

	if !principal.CanAccessUser(userID, own, all) {
		return "", user.ErrInsufficientPermissions
	}

	return userID, nil
}
