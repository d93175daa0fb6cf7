// Package models defines server-side data models persisted in the database.
package models

import "time"

// Product is a catalog product row. Only the fields the media pipeline
// touches are modeled here.
type Product struct {
	ID          string
	Title       string
	Description string
	PriceCents  int64
	UpdatedAt   time.Time
}

// Image upload lifecycle states. A row is created as pending when the
// permission is issued (the placeholder) and flipped to completed once the
// client reports delivered bytes.
const (
	ImageStatusPending   = "pending"
	ImageStatusCompleted = "completed"
)

// ProductImage describes one stored (or soon-to-be-stored) product image.
// The bytes themselves live in object storage under StorageKey.
type ProductImage struct {
	// ID is the record identifier, also echoed to clients as the image id.
	ID string
	// ProductID is the owning product.
	ProductID string
	// StorageKey is the object-storage key of the image bytes.
	StorageKey string
	// FileName is the display name the client declared.
	FileName string
	// MediaType is the declared media type.
	MediaType string
	// SizeBytes is the declared content length.
	SizeBytes int64
	// DigestSHA256 is the base64-encoded binary SHA-256 digest the client
	// declared; the object store enforces it on the direct PUT.
	DigestSHA256 string
	// Status is pending or completed.
	Status    string
	CreatedAt time.Time
}
