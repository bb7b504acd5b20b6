package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jukejam/internal/models"
)

// MockTrackRepository is a mock implementation of TrackRepository for testing
type MockTrackRepository struct {
	mock.Mock
}

func (m *MockTrackRepository) LoadAll(ctx context.Context) ([]models.Track, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Track), args.Error(1)
}

func (m *MockTrackRepository) SaveMany(ctx context.Context, tracks []models.Track) error {
	args := m.Called(ctx, tracks)
	return args.Error(0)
}

func (m *MockTrackRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
