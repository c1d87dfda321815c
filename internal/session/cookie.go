package session

import (
	"context"
	"net/http"
	"time"

	"github.com/pharaonic/basket-backend/pkg/config"
)

// CookieCarrier keeps the basket id in a long-lived client cookie. Used for
// browser clients that have no server-side session yet; the cookie outlives
// the redis session TTL so a returning visitor gets their basket back.
type CookieCarrier struct {
	w   http.ResponseWriter
	r   *http.Request
	cfg config.SessionConfig
}

// NewCookieCarrier builds a carrier over the request/response pair.
func NewCookieCarrier(w http.ResponseWriter, r *http.Request, cfg config.SessionConfig) *CookieCarrier {
	return &CookieCarrier{w: w, r: r, cfg: cfg}
}

// Current returns the basket id from the request cookie, "" when absent.
func (c *CookieCarrier) Current(_ context.Context) (string, error) {
	cookie, err := c.r.Cookie(c.cfg.BasketCookieName)
	if err != nil {
		// http.ErrNoCookie is the only error Cookie returns.
		return "", nil
	}
	return cookie.Value, nil
}

// Remember queues a durable cookie on the response.
func (c *CookieCarrier) Remember(_ context.Context, basketID string) error {
	http.SetCookie(c.w, c.cookie(basketID, c.maxAge()))
	return nil
}

// Forget queues an expired cookie so the client drops the id.
func (c *CookieCarrier) Forget(_ context.Context) error {
	http.SetCookie(c.w, c.cookie("", -1))
	return nil
}

func (c *CookieCarrier) maxAge() int {
	days := c.cfg.ForeverCookieDays
	if days <= 0 {
		days = 1825
	}
	return int((time.Duration(days) * 24 * time.Hour).Seconds())
}

func (c *CookieCarrier) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.BasketCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
