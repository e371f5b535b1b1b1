package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"

	// HeaderUserID identifies the acting user; the gateway sets it after
	// authenticating the session.
	HeaderUserID = "X-User-ID"

	// HeaderUserRole carries the acting user's role for role-gated routes.
	HeaderUserRole = "X-User-Role"
)

// Auth requires X-User-ID on every request and puts the identity into the
// request context. The role header is optional; role checks happen at the
// operation level.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "missing "+HeaderUserID+" header")
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "invalid "+HeaderUserID+" header")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		if role := r.Header.Get(HeaderUserRole); role != "" {
			ctx = context.WithValue(ctx, userRoleKey, domain.ApprovalRole(role))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UserRole returns the acting role from the request context.
func UserRole(ctx context.Context) (domain.ApprovalRole, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.ApprovalRole)
	return role, ok
}
