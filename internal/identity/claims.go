package identity

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrincipalTypeCustomer is the default owner discriminator for end users.
const PrincipalTypeCustomer = "customer"

// AccessTokenClaims represents the typed JWT accepted from clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID `json:"user_id"`
	PrincipalType string    `json:"principal_type,omitempty"`
	jwt.RegisteredClaims
}

// Principal maps the claims onto the owner pair stored on baskets.
func (c *AccessTokenClaims) Principal() Principal {
	principalType := c.PrincipalType
	if principalType == "" {
		principalType = PrincipalTypeCustomer
	}
	return Principal{Type: principalType, ID: c.UserID}
}
