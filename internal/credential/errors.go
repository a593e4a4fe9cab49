package credential

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable means the secure store cannot be reached at all.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrInvalidInput covers empty or all-whitespace input.
	ErrInvalidInput = errors.New("invalid credential input")
	// ErrInvalidFormat covers keys failing the format grammar.
	ErrInvalidFormat = errors.New("invalid api key format")
	// ErrEncodingFailed means the key could not be encoded for storage.
	ErrEncodingFailed = errors.New("credential encoding failed")
	// ErrDecodingFailed means a stored payload could not be decoded back.
	ErrDecodingFailed = errors.New("credential decoding failed")
	// ErrItemNotFound means no credential is stored.
	ErrItemNotFound = errors.New("credential not found")
	// ErrCorruptData means the stored payload failed authentication/decryption.
	ErrCorruptData = errors.New("credential data corrupt")

	// Biometric kinds complete the closed taxonomy. No server-side backend
	// emits them today; a store gated on operator presence would.
	ErrBiometricUnavailable = errors.New("biometric authentication unavailable")
	ErrBiometricFailed      = errors.New("biometric authentication failed")
)

// OpError reports a secure-store layer failure with the platform code
// preserved, so "the store is broken" is distinguishable from "your key is
// malformed".
type OpError struct {
	Op   string // "store", "retrieve", "delete"
	Code int
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("credential %s failed (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// wrapf keeps kind matchable via errors.Is while carrying the cause detail.
func wrapf(kind, cause error) error {
	return fmt.Errorf("%w: %v", kind, cause)
}
