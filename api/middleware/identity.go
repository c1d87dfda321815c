package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pharaonic/basket-backend/api/responses"
	"github.com/pharaonic/basket-backend/internal/identity"
	"github.com/pharaonic/basket-backend/pkg/config"
	pkgerrors "github.com/pharaonic/basket-backend/pkg/errors"
	"github.com/pharaonic/basket-backend/pkg/logger"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Identity builds the request-scoped identity snapshot: the authenticated
// principal when a bearer token is present, the User-Agent fingerprint, and
// whether the client expects JSON. Anonymous requests pass through; only a
// present-but-invalid token is rejected.
func Identity(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := identity.Context{
				Fingerprint: r.UserAgent(),
				WantsJSON:   wantsJSON(r),
			}

			if token := bearerToken(r); token != "" {
				claims, err := identity.ParseAccessToken(cfg, token)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}
				principal := claims.Principal()
				ident.Principal = &principal
			}

			ctx := context.WithValue(r.Context(), ctxIdentity, ident)
			if logg != nil && ident.Authenticated() {
				ctx = logg.WithUserID(ctx, ident.Principal.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity snapshot seeded by Identity. The
// zero value means the middleware did not run.
func IdentityFromContext(ctx context.Context) identity.Context {
	if ident, ok := ctx.Value(ctxIdentity).(identity.Context); ok {
		return ident
	}
	return identity.Context{}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
