// Package auth signs the continuation token handed out when a registration is
// blocked on an incomplete profile.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidContinuation is returned for tampered, expired or foreign tokens.
var ErrInvalidContinuation = errors.New("invalid continuation token")

// ContinuationClaims remember which registration the user was attempting.
type ContinuationClaims struct {
	jwt.RegisteredClaims
	UserID      uint64 `json:"uid"`
	EventID     uint64 `json:"event_id"`
	IsTeamEvent bool   `json:"is_team_event"`
}

// Continuation issues and verifies continuation tokens.
type Continuation struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewContinuation(secret []byte, ttl time.Duration) *Continuation {
	return &Continuation{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for the user resuming a registration to eventID.
func (c *Continuation) Issue(userID, eventID uint64, isTeamEvent bool) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ContinuationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID:      userID,
		EventID:     eventID,
		IsTeamEvent: isTeamEvent,
	})

	return token.SignedString(c.secret)
}

// Parse verifies the token and checks it belongs to userID.
func (c *Continuation) Parse(tokenString string, userID uint64) (*ContinuationClaims, error) {
	claims := &ContinuationClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidContinuation
	}
	if claims.UserID != userID {
		return nil, ErrInvalidContinuation
	}

	return claims, nil
}
