package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated user id. The claim key is "id" for
// compatibility with existing clients.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenSigner holds the HS256 secret. Built once in main from config; no
// per-call environment reads.
type TokenSigner struct {
	secret []byte
}

func newTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// Sign mints a token for the user. ttl <= 0 embeds no expiry claim: the
// token stays valid for as long as the signature does.
func (s *TokenSigner) Sign(userID string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

func (s *TokenSigner) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := token.Claims.(*Claims); ok && token.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
