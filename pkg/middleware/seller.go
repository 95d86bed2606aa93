package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/logger"
)

type contextKeyType string

const (
	sellerIDKey contextKeyType = "seller_id"
	roleKey     contextKeyType = "role"
)

// Headers injected by the API gateway after it has validated the caller's JWT.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// SellerIdentity reads the gateway-injected identity headers and stores the
// seller ID and role in the request context. Requests without X-User-ID are
// rejected with 401.
func SellerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sellerID := r.Header.Get(HeaderUserID)
		if sellerID == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), sellerIDKey, sellerID)
		ctx = context.WithValue(ctx, roleKey, r.Header.Get(HeaderUserRole))
		ctx = logger.WithSellerID(ctx, sellerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose role (set by SellerIdentity) is not in roles.
// An empty role passes, since older gateways do not forward X-User-Role and the
// catalog enforces roles on every write anyway.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role != "" {
				if _, ok := roleSet[role]; !ok {
					writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SellerIDFromContext extracts the seller ID from the request context.
func SellerIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sellerIDKey).(string); ok {
		return id
	}
	return ""
}

// RoleFromContext extracts the caller role from the request context.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": code, "message": message},
	})
}
