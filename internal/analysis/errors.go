package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential is returned when no API key is stored.
	ErrNoCredential = errors.New("no api credential configured")
	// ErrInvalidCredential is returned when the stored key fails re-validation.
	ErrInvalidCredential = errors.New("stored api credential is invalid")
	// ErrInvalidURL is returned when the endpoint fails the HTTPS allow-list.
	ErrInvalidURL = errors.New("analysis endpoint not allowed")
	// ErrMalformedRequest is returned when the request body cannot be built.
	ErrMalformedRequest = errors.New("malformed analysis request")
	// ErrInvalidResponseShape is returned for structurally invalid JSON.
	ErrInvalidResponseShape = errors.New("invalid response format")
	// ErrServerError classifies upstream 5xx responses; matchable via
	// errors.Is on an UnexpectedStatusError.
	ErrServerError = errors.New("upstream server error")
	// ErrImageProcessing is returned for empty or non-image payloads.
	ErrImageProcessing = errors.New("image processing failed")
	// ErrParsing is returned when a structurally valid response violates the
	// result contract.
	ErrParsing = errors.New("response parsing failed")
)

// UnexpectedStatusError reports a non-2xx upstream status.
type UnexpectedStatusError struct {
	Code int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("upstream returned unexpected status %d", e.Code)
}

// Is classifies 5xx statuses as ErrServerError.
func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrServerError && e.Code >= 500
}

// TransportError wraps network-level failures, timeouts included.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis request transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
