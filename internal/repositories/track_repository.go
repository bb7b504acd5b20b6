package repositories

import (
	"context"
	"errors"

	"jukejam/internal/models"
)

var (
	// ErrUserNotFound is returned when no profile exists for a user id
	ErrUserNotFound = errors.New("user not found")

	// ErrTrackNotFound is returned when a track id is not in the catalog
	ErrTrackNotFound = errors.New("track not found")
)

// TrackRepository is a persistent source of catalog tracks
type TrackRepository interface {
	// LoadAll returns every stored track
	LoadAll(ctx context.Context) ([]models.Track, error)

	// SaveMany upserts tracks by id
	SaveMany(ctx context.Context, tracks []models.Track) error

	Count(ctx context.Context) (int64, error)
}
