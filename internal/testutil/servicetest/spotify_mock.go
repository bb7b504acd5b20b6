// Package servicetest holds mocks of service-layer interfaces. It lives apart
// from testutil so that services tests can import testutil without a cycle.
package servicetest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"jukejam/internal/services"
)

// MockSpotifyAPI is a mock implementation of services.SpotifyAPI
type MockSpotifyAPI struct {
	mock.Mock
}

var _ services.SpotifyAPI = (*MockSpotifyAPI)(nil)

func (m *MockSpotifyAPI) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockSpotifyAPI) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockSpotifyAPI) Me(ctx context.Context, token *oauth2.Token) (*services.SpotifyUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SpotifyUser), args.Error(1)
}

func (m *MockSpotifyAPI) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockSpotifyAPI) TopArtists(ctx context.Context, token *oauth2.Token, limit int) ([]services.SpotifyArtist, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SpotifyArtist), args.Error(1)
}

func (m *MockSpotifyAPI) TopTracks(ctx context.Context, token *oauth2.Token, limit int) ([]services.SpotifyTrack, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SpotifyTrack), args.Error(1)
}

func (m *MockSpotifyAPI) AudioFeatures(ctx context.Context, token *oauth2.Token, ids []string) ([]services.SpotifyAudioFeatures, error) {
	args := m.Called(ctx, token, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SpotifyAudioFeatures), args.Error(1)
}

func (m *MockSpotifyAPI) RecentlyPlayed(ctx context.Context, token *oauth2.Token, limit int) ([]services.SpotifyPlayHistory, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SpotifyPlayHistory), args.Error(1)
}
