package core

import (
	"fmt"
	"time"
)

type LocationErrorCode int

const (
	PermissionDenied    LocationErrorCode = 1
	PositionUnavailable LocationErrorCode = 2
	Timeout             LocationErrorCode = 3
)

func (c LocationErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "Location access denied by user"
	case PositionUnavailable:
		return "Location information unavailable"
	case Timeout:
		return "Location request timeout"
	default:
		return "Unknown error"
	}
}

// Valid reports whether c is one of the three geolocation error categories.
func (c LocationErrorCode) Valid() bool {
	return c >= PermissionDenied && c <= Timeout
}

type LocationError struct {
	Code   LocationErrorCode
	Detail string
}

func NewLocationError(code LocationErrorCode, detail string) *LocationError {
	return &LocationError{Code: code, Detail: detail}
}

func (e *LocationError) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

type PositionOptions struct {
	HighAccuracy bool
	// Timeout bounds the wait for the first fix. Zero waits forever.
	Timeout time.Duration
	// MaximumAge is how old a cached fix may be to be delivered on subscribe.
	MaximumAge time.Duration
}

type SubscriptionID string

// PositionHandler receives either a sample or a location error, never both.
type PositionHandler func(sample LocationSample, err *LocationError)

type PositionStream interface {
	Subscribe(opts PositionOptions, handler PositionHandler) (SubscriptionID, error)
	Unsubscribe(id SubscriptionID)
}
