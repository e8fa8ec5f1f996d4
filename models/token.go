package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. It asserts the identity of the
// user that logged in and carries the standard registered claims (exp, iat, iss).
type Claims struct {
	// ID is the user identifier.
	ID int64 `json:"id"`

	// Email is the user's email at the moment the token was issued.
	Email string `json:"email"`

	// Username is the user's username at the moment the token was issued.
	Username string `json:"username"`

	jwt.RegisteredClaims
}

// Token wraps a signed session token together with its decoded claims.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// Claims holds the decoded payload.
	Claims Claims `json:"-"`
}

// ExpiresAt returns the expiry of the token or the zero time if the token
// carries no exp claim.
func (t Token) ExpiresAt() time.Time {
	if t.Claims.ExpiresAt == nil {
		return time.Time{}
	}
	return t.Claims.ExpiresAt.Time
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
