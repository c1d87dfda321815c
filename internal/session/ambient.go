package session

import (
	"net/http"

	"github.com/pharaonic/basket-backend/pkg/config"
)

// Resolve picks the carrier for a request. A request that presents a session
// cookie already has a server-side session, so the basket id rides in redis;
// everything else falls back to the durable client cookie. API clients that
// pass explicit basket ids never touch either carrier.
func Resolve(w http.ResponseWriter, r *http.Request, store Store, cfg config.SessionConfig) Carrier {
	if store != nil {
		if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
			return NewServerSession(store, cookie.Value, cfg.TTL)
		}
	}
	return NewCookieCarrier(w, r, cfg)
}
