package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/enums"
)

// Identity is the per-request identity fact supplied by the external session
// layer: who is calling, in what role, and which shop they operate if any.
type Identity struct {
	UserID uuid.UUID
	Role   enums.UserRole
	ShopID *uuid.UUID
}

// AccessTokenClaims is the typed JWT the session layer issues. The core only
// parses it; it never mints or stores credentials in production paths.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	ShopID *uuid.UUID     `json:"shop_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts claims into the request-scoped identity context.
func (c *AccessTokenClaims) Identity() Identity {
	return Identity{
		UserID: c.UserID,
		Role:   c.Role,
		ShopID: c.ShopID,
	}
}
