package middleware

import (
	"context"
	"errors"
	"net/http"

	"taskmanager/internal/common"
	"taskmanager/internal/common/security"
	"taskmanager/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey      contextKey = "userID"
	UsernameCtxKey    contextKey = "username"
	UserRoleCtxKey    contextKey = "userRole"
	PermissionsCtxKey contextKey = "userPermissions"
)

// Authenticator validates the bearer token found by jwtauth.Verifier and
// copies its claims into the request context. Authorization decisions below
// trust these claims as-is: they are not re-checked against the store, so an
// account edit only takes effect once the holder logs in again.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Access token required")
			} else {
				common.RespondWithError(w, http.StatusForbidden, "Invalid token")
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "Invalid token claims: "+err.Error())
			return
		}
		username, err := security.GetUsernameFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "Invalid token claims: "+err.Error())
			return
		}
		role, err := security.GetUserRoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "Invalid token claims: "+err.Error())
			return
		}
		permissions, err := security.GetUserPermissionsFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UsernameCtxKey, username)
		ctx = context.WithValue(ctx, UserRoleCtxKey, role)
		ctx = context.WithValue(ctx, PermissionsCtxKey, permissions)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WriteRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		permissions, ok := r.Context().Value(PermissionsCtxKey).(string)
		if !ok || permissions != model.PermissionWrite {
			common.RespondWithError(w, http.StatusForbidden, "Write permission required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get user role from context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleCtxKey).(string)
	return role, ok
}
