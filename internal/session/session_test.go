package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pharaonic/basket-backend/pkg/config"
)

type stubStore struct {
	values  map[string]string
	touched map[string]time.Duration
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}, touched: map[string]time.Duration{}}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (s *stubStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubStore) Touch(_ context.Context, key string, ttl time.Duration) error {
	s.touched[key] = ttl
	return nil
}

func (s *stubStore) SessionKey(sessionID, field string) string {
	return "basket:session:" + sessionID + ":" + field
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName:        "basket_session",
		BasketCookieName:  "basket_id",
		TTL:               time.Hour,
		ForeverCookieDays: 30,
	}
}

func TestServerSessionRoundTrip(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	carrier := NewServerSession(store, "sess-1", time.Hour)
	ctx := context.Background()

	if id, err := carrier.Current(ctx); err != nil || id != "" {
		t.Fatalf("expected empty session, got %q err %v", id, err)
	}
	if err := carrier.Remember(ctx, "basket-42"); err != nil {
		t.Fatalf("remember: %v", err)
	}
	id, err := carrier.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if id != "basket-42" {
		t.Fatalf("expected basket-42, got %q", id)
	}
	if ttl := store.touched["basket:session:sess-1:basket_id"]; ttl != time.Hour {
		t.Fatalf("expected ttl refresh on read, got %v", ttl)
	}
	if err := carrier.Forget(ctx); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if id, _ := carrier.Current(ctx); id != "" {
		t.Fatalf("expected forgotten session, got %q", id)
	}
}

func TestCookieCarrierRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	carrier := NewCookieCarrier(rec, req, cfg)
	ctx := context.Background()

	if id, err := carrier.Current(ctx); err != nil || id != "" {
		t.Fatalf("expected no cookie, got %q err %v", id, err)
	}
	if err := carrier.Remember(ctx, "basket-7"); err != nil {
		t.Fatalf("remember: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "basket_id" || cookie.Value != "basket-7" {
		t.Fatalf("unexpected cookie %q=%q", cookie.Name, cookie.Value)
	}
	if cookie.MaxAge != int((30 * 24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected max age %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
}

func TestCookieCarrierCurrentReadsRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "basket_id", Value: "basket-9"})
	carrier := NewCookieCarrier(httptest.NewRecorder(), req, testSessionConfig())

	id, err := carrier.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if id != "basket-9" {
		t.Fatalf("expected basket-9, got %q", id)
	}
}

func TestCookieCarrierForgetExpiresCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	carrier := NewCookieCarrier(rec, req, testSessionConfig())

	if err := carrier.Forget(context.Background()); err != nil {
		t.Fatalf("forget: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestResolvePrefersServerSession(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "sess-1"})

	carrier := Resolve(httptest.NewRecorder(), req, newStubStore(), cfg)
	if _, ok := carrier.(*ServerSession); !ok {
		t.Fatalf("expected server session, got %T", carrier)
	}
}

func TestResolveFallsBackToCookie(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := Resolve(httptest.NewRecorder(), req, newStubStore(), cfg).(*CookieCarrier); !ok {
		t.Fatal("expected cookie carrier without session cookie")
	}

	withSession := httptest.NewRequest(http.MethodGet, "/", nil)
	withSession.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "sess-1"})
	if _, ok := Resolve(httptest.NewRecorder(), withSession, nil, cfg).(*CookieCarrier); !ok {
		t.Fatal("expected cookie carrier when redis is unavailable")
	}
}
