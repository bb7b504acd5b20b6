package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when no Spotify token is stored for a user
	ErrNotConnected = errors.New("user not connected to spotify")

	// ErrTokenExpired is returned when Spotify rejects the stored access token
	ErrTokenExpired = errors.New("spotify token expired")

	// ErrSpotifyDisabled is returned when no Spotify client credentials are configured
	ErrSpotifyDisabled = errors.New("spotify integration is not configured")

	// ErrInvalidState is returned when an OAuth state parameter fails verification
	ErrInvalidState = errors.New("invalid oauth state")
)

// PlatformError represents an error from an external music platform
type PlatformError struct {
	Platform   string
	Operation  string
	Message    string
	StatusCode int
	Err        error
}

func (e *PlatformError) Error() string {
	msg := e.Platform + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
