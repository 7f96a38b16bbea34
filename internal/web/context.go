package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/vendas/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for audit logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	// RemoteAddr was already resolved by TrustedRealIP
	return core.WithClientInfo(ctx, r.RemoteAddr, r.UserAgent())
}

func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequestMetadata(r.Context(), r)))
	})
}
