// Package common defines shared constants and sentinel errors used across
// the client pipeline and the server. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Pipeline validation (count, media type, size). Raised before any
	// network call is issued.
	ErrValidation = errors.New("validation error")

	// A local file could not be read while digesting.
	ErrRead = errors.New("read error")

	// The descriptor exchange with the metadata authority failed or was
	// rejected as a whole.
	ErrNegotiationFailed = errors.New("negotiation failed")

	// The authority's response does not line up with the request batch
	// (length or correlation id divergence).
	ErrProtocolMismatch = errors.New("protocol mismatch")

	// A direct transfer to the object store failed. Per-file; sibling
	// transfers are unaffected.
	ErrTransferFailed = errors.New("transfer failed")

	// The product already holds the maximum number of images.
	ErrTooManyImages = errors.New("too many images")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
