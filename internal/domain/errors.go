package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionDataMissing = errors.New("session data not found")
	ErrUnauthorized       = errors.New("user is not authorized")
	ErrUnknownHorizon     = errors.New("unknown horizon")
)

// ProviderUnavailableError is returned when the provider answers with a non-success status.
type ProviderUnavailableError struct {
	Status int
}

func (e ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider unavailable: status %d", e.Status)
}

// ProviderRejectedError is returned when a success response carries a rate-limit
// or error marker, or is not a JSON object.
type ProviderRejectedError struct {
	Reason string
}

func (e ProviderRejectedError) Error() string {
	return "provider rejected request: " + e.Reason
}

// MalformedPayloadError is returned when the latest value cannot be extracted from a payload.
type MalformedPayloadError struct {
	Indicator Indicator
	Reason    string
}

func (e MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed %s payload: %s", e.Indicator, e.Reason)
}
