package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// seller_id, trace_id, and span_id and stores it in context. Mount it after
// RequestLogging and Tracing, and after SellerIdentity on routes that have one.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if logger.SellerIDFromContext(ctx) == "" {
				if id := r.Header.Get(HeaderUserID); id != "" {
					ctx = logger.WithSellerID(ctx, id)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
