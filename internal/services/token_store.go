package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"jukejam/internal/cache"
	"jukejam/internal/models"
)

const (
	tokenKeyPrefix = "spotify:token:"
	tokenTTL       = 30 * 24 * time.Hour
)

// StoredToken is a Spotify token together with the identity it belongs to
type StoredToken struct {
	Token       *oauth2.Token `json:"token"`
	DisplayName string        `json:"display_name,omitempty"`
}

// TokenStore persists Spotify tokens in the cache keyed by lowercased Spotify user id
type TokenStore struct {
	cache cache.Cache
}

// NewTokenStore creates a token store backed by c
func NewTokenStore(c cache.Cache) *TokenStore {
	return &TokenStore{cache: c}
}

func tokenKey(spotifyUserID string) string {
	return tokenKeyPrefix + models.UserKey(spotifyUserID)
}

// Save stores the token for a user, replacing any previous one
func (s *TokenStore) Save(ctx context.Context, spotifyUserID string, token StoredToken) error {
	if err := cache.SetJSON(ctx, s.cache, tokenKey(spotifyUserID), token, tokenTTL); err != nil {
		return fmt.Errorf("failed to store spotify token: %w", err)
	}
	return nil
}

// Load returns the stored token, or ErrNotConnected if there is none
func (s *TokenStore) Load(ctx context.Context, spotifyUserID string) (StoredToken, error) {
	var token StoredToken
	found, err := cache.GetJSON(ctx, s.cache, tokenKey(spotifyUserID), &token)
	if err != nil {
		return StoredToken{}, fmt.Errorf("failed to load spotify token: %w", err)
	}
	if !found || token.Token == nil {
		return StoredToken{}, ErrNotConnected
	}
	return token, nil
}
