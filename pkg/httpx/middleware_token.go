package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/linkbot/pkg/cryptox"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
)

// RequireToken admits requests whose header carries expected. An empty
// expected token disables the wrapped endpoints entirely.
func RequireToken(header, expected string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if expected == "" {
				WriteError(w, http.StatusNotFound, "not_found", "endpoint disabled")
				return
			}

			provided := r.Header.Get(header)
			if provided == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "missing "+header+" header")
				return
			}
			if !cryptox.TokensEqual(provided, expected) {
				log.Warn("rejected request with invalid token", "header", header)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			caller := cryptox.FingerprintToken(provided)
			ctx := context.WithValue(r.Context(), CtxKeyCaller, caller)
			ctx = slogx.With(ctx, "caller", caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
