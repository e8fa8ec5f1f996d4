package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-notes-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

const bearerScheme = "Bearer"

var (
	// ErrInvalidTokenParams is returned when a token is requested without
	// a signing key, a positive duration or an identity.
	ErrInvalidTokenParams = errors.New("invalid params for generating JWT token")
	// ErrNoBearerToken is returned when the Authorization header carries no token.
	ErrNoBearerToken = errors.New("no bearer token in authorization header")
)

// GenerateJWTToken signs an HS256 session token for the given identity.
//
// The token carries the identity claims (id, email, username) and the
// standard registered claims:
//   - iss: issuer, omitted when empty;
//   - iat: issuedAt;
//   - exp: issuedAt + tokenDuration.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken(claims, time.Now(), time.Hour, "notes", "secret")
func GenerateJWTToken(identity models.Claims, issuedAt time.Time, tokenDuration time.Duration, issuer, signKey string) (models.Token, error) {
	if signKey == "" || tokenDuration <= 0 || identity.ID == 0 {
		return models.Token{}, ErrInvalidTokenParams
	}

	claims := models.Claims{
		ID:       identity.ID,
		Email:    identity.Email,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{SignedString: signed, Claims: claims}, nil
}

// ValidateAndParseJWTToken verifies the signature, algorithm, expiry and
// (when tokenIssuer is not empty) issuer of tokenString and returns its claims.
//
// now supplies the verification time; nil means time.Now. A token whose exp
// is not strictly after now is rejected.
func ValidateAndParseJWTToken(tokenString, signKey, tokenIssuer string, now func() time.Time) (models.Token, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if tokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(tokenIssuer))
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}

	claims := models.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, opts...)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.ID == 0 {
		return models.Token{}, errors.New("token carries no user id")
	}

	return models.Token{SignedString: tokenString, Claims: claims}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrNoBearerToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoBearerToken
	}

	return token, nil
}
