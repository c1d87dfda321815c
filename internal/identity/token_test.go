package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pharaonic/basket-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "basket-backend",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	principal := Principal{Type: PrincipalTypeCustomer, ID: uuid.New()}

	token, err := MintAccessToken(cfg, time.Now(), principal)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := claims.Principal(); got != principal {
		t.Fatalf("principal mismatch: got %+v want %+v", got, principal)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), Principal{Type: "customer", ID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	mintCfg := testJWTConfig()
	mintCfg.Issuer = "someone-else"
	token, err := MintAccessToken(mintCfg, time.Now(), Principal{Type: "customer", ID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig(), token); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}

func TestMintRequiresPrincipalID(t *testing.T) {
	t.Parallel()

	if _, err := MintAccessToken(testJWTConfig(), time.Now(), Principal{Type: "customer"}); err == nil {
		t.Fatal("expected error for nil principal id")
	}
}

func TestClaimsPrincipalDefaultsType(t *testing.T) {
	t.Parallel()

	claims := &AccessTokenClaims{UserID: uuid.New()}
	if claims.Principal().Type != PrincipalTypeCustomer {
		t.Fatalf("expected default principal type, got %q", claims.Principal().Type)
	}
}
