// Package weather is the gateway to the live weather provider.
package weather

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no provider credential is available
var ErrNotConfigured = errors.New("weather API key not configured")

// ProviderError means the provider answered, but not with usable weather
type ProviderError struct {
	Location   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather provider error for %q (status %d): %v", e.Location, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("weather provider error for %q (status %d)", e.Location, e.StatusCode)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TransportError means the provider could not be reached in time
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("weather transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage turns a Fetch failure into the text shown to the farmer
func UserMessage(err error) string {
	var provErr *ProviderError
	var transErr *TransportError

	switch {
	case errors.Is(err, ErrNotConfigured):
		return "Weather API key not configured. Please contact support."
	case errors.As(err, &provErr):
		return fmt.Sprintf("Could not fetch weather for '%s'. Please check the location name.", provErr.Location)
	case errors.As(err, &transErr):
		return fmt.Sprintf("Weather service error: %v", transErr.Err)
	default:
		return fmt.Sprintf("Weather service error: %v", err)
	}
}
