package services

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	stateIssuer = "jukejam"
	stateTTL    = 10 * time.Minute
)

// StateSigner issues and verifies the OAuth state parameter as a short-lived HS256 token
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner creates a signer. An empty secret is replaced by a random one,
// which invalidates outstanding logins on restart.
func NewStateSigner(secret string) *StateSigner {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("failed to generate state secret: %v", err))
		}
		slog.Warn("STATE_SECRET not set; using a random per-process secret")
	}
	return &StateSigner{secret: key, ttl: stateTTL, now: time.Now}
}

// Issue returns a new signed state value
func (s *StateSigner) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    stateIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of a state value
func (s *StateSigner) Verify(state string) error {
	if state == "" {
		return ErrInvalidState
	}
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
