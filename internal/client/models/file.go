// Package models defines the client-side data model of the upload pipeline.
package models

import "io"

// LocalFile is a read-only handle to user-selected binary content. The
// pipeline never mutates it and never pulls the whole content into memory;
// digesting and transfer both read through the ReaderAt.
type LocalFile struct {
	// Name is the display name shown to the user (usually the base name
	// of the selected path).
	Name string
	// MediaType is the declared media type, e.g. "image/png".
	MediaType string
	// Size is the content length in bytes.
	Size int64
	// Content provides random access to the bytes.
	Content io.ReaderAt
}

// UploadDescriptor describes one not-yet-uploaded file to the metadata
// authority. Descriptors are sent as one ordered batch; the authority's
// permissions come back in the same order.
type UploadDescriptor struct {
	// CorrelationID is a client-generated id the authority must echo on
	// the matching permission. It guards the positional contract.
	CorrelationID string `json:"correlation_id"`
	Name          string `json:"name"`
	MediaType     string `json:"media_type"`
	Size          int64  `json:"size"`
	// DigestSHA256 is the base64 encoding of the raw SHA-256 digest of
	// the file content. Used for integrity verification, not dedup.
	DigestSHA256 string `json:"sha256"`
}

// UploadPermission is a short-lived, single-use authorization to write one
// file to one object-store location.
type UploadPermission struct {
	CorrelationID string `json:"correlation_id"`
	// ImageID is the id of the placeholder record the authority created
	// when issuing this permission.
	ImageID string `json:"image_id"`
	// UploadURL is the presigned PUT target.
	UploadURL string `json:"upload_url"`
	// StoredURL is where the object will be readable once the bytes land.
	StoredURL string `json:"stored_url"`
}

// TransferOutcome records the result of one direct transfer attempt.
// Outcomes are positionally aligned with the original file selection.
type TransferOutcome struct {
	// Position is the index of the file in the original selection.
	Position int
	// ImageID of the remote record, when the permission was granted.
	ImageID string
	// StoredURL is the final location, set on success.
	StoredURL string
	// Err is nil on success.
	Err error
}

// TransferItem pairs a file with its descriptor and granted permission for
// the transfer stage. The three legs stay positionally aligned.
type TransferItem struct {
	File       LocalFile
	Descriptor UploadDescriptor
	Permission UploadPermission
}

// RemoteImage is an image record owned by the authority.
type RemoteImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
}

// ProductUpdate carries changed non-image product fields. Nil pointers mean
// "unchanged".
type ProductUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
}

// Empty reports whether the update carries no changes.
func (u *ProductUpdate) Empty() bool {
	return u == nil || (u.Title == nil && u.Description == nil && u.PriceCents == nil)
}
