// Package common contains shared constants and sentinel errors used across
// shopmedia components.
package common

const (
	// MaxImagesPerProduct caps how many image records may exist for one
	// product at any time. Enforced by the pipeline before any network
	// call and by the authority inside the negotiate transaction.
	MaxImagesPerProduct = 5

	// MaxImageSizeBytes is the per-file upload size limit (5 MiB).
	MaxImageSizeBytes = 5 * 1024 * 1024

	// ChecksumHeaderName carries the base64-encoded binary SHA-256 digest
	// on the direct PUT so the object store verifies received bytes.
	ChecksumHeaderName = "x-amz-checksum-sha256"
)

// AllowedMediaTypes lists the media types accepted for product images.
var AllowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}
