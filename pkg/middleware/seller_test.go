package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/logger"
)

func TestSellerIdentity(t *testing.T) {
	var gotSeller, gotRole, gotLogSeller string
	h := SellerIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSeller = SellerIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotLogSeller = logger.SellerIDFromContext(r.Context())
	}))

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
	})

	t.Run("identity stored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, "seller-1")
		req.Header.Set(HeaderUserRole, "SELLER")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "seller-1", gotSeller)
		assert.Equal(t, "SELLER", gotRole)
		assert.Equal(t, "seller-1", gotLogSeller)
	})
}

func TestRequireRole(t *testing.T) {
	h := SellerIdentity(RequireRole("SELLER", "ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name string
		role string
		want int
	}{
		{"seller allowed", "SELLER", http.StatusNoContent},
		{"admin allowed", "ADMIN", http.StatusNoContent},
		{"customer rejected", "CUSTOMER", http.StatusForbidden},
		{"role not forwarded", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderUserID, "seller-1")
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
