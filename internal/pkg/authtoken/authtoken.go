// Package authtoken signs and verifies the bearer credential shared by
// the REST API and the realtime gateway handshake.
package authtoken

import (
	"errors"
	"time"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload: the standard registered claims plus the
// actor's role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated actor extracted from a verified token.
type Principal struct {
	UserID kernel.UUID
	Role   access.Role
}

// Sign issues an HS256 token for the given actor.
func Sign(secret []byte, userID kernel.UUID, role access.Role, ttl time.Duration) (string, error) {
	if err := userID.Validate(); err != nil {
		return "", err
	}
	if !access.ValidRole(role) {
		return "", errs.NewValueIsInvalidError("role")
	}

	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies the token signature and expiry and returns the actor.
// Every failure maps to ErrAuthentication so callers can treat the whole
// class uniformly.
func Parse(secret []byte, tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, errs.NewAuthenticationError("missing credential")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Principal{}, errs.NewAuthenticationErrorWithCause("invalid credential", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, errs.NewAuthenticationError("invalid credential")
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return Principal{}, errs.NewAuthenticationErrorWithCause("invalid subject", err)
	}

	role := access.Role(claims.Role)
	if !access.ValidRole(role) {
		return Principal{}, errs.NewAuthenticationError("invalid role")
	}

	return Principal{UserID: userID, Role: role}, nil
}
