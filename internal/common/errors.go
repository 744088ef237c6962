// Package common defines shared constants and sentinel errors used across
// the retrieval pipeline, the sources and the CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Pipeline errors. Any of them aborts the current retrieval.
	ErrTransportDecode  = errors.New("transport decode error")
	ErrKeyImport        = errors.New("key import error")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrIntegrity        = errors.New("integrity check failed")

	// Source errors.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("source unavailable")

	// Sink errors.
	ErrInvalidName = errors.New("invalid file name")
)

// FailureKind is the coarse failure class shown to the user.
type FailureKind int

const (
	KindUnknown FailureKind = iota
	// KindUnreadable: the data could not be fetched or decoded.
	KindUnreadable
	// KindIntegrity: the data failed its authenticity check.
	KindIntegrity
	// KindMisconfigured: key material or framing sizes do not match the server.
	KindMisconfigured
)

// KindOf classifies err into a FailureKind.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrIntegrity):
		return KindIntegrity
	case errors.Is(err, ErrKeyImport), errors.Is(err, ErrMalformedPayload):
		return KindMisconfigured
	case errors.Is(err, ErrTransportDecode), errors.Is(err, ErrNotFound), errors.Is(err, ErrUnavailable):
		return KindUnreadable
	default:
		return KindUnknown
	}
}

func (k FailureKind) String() string {
	switch k {
	case KindUnreadable:
		return "unreadable"
	case KindIntegrity:
		return "integrity"
	case KindMisconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// Message returns a user-facing description that carries no internal detail.
func (k FailureKind) Message() string {
	switch k {
	case KindUnreadable:
		return "could not read the file data"
	case KindIntegrity:
		return "the file failed its integrity check and was discarded"
	case KindMisconfigured:
		return "decryption settings do not match the server"
	default:
		return "the operation failed"
	}
}
