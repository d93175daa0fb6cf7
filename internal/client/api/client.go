// Package api implements the REST client for the metadata authority: the
// backend that owns product records and issues upload permissions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopmedia/internal/client/models"
	"shopmedia/internal/common"
)

// Client is the subset of the authority's surface the pipeline needs.
type Client interface {
	// NegotiateUploads exchanges one ordered descriptor batch for an
	// equally long, positionally aligned batch of permissions. The
	// authority applies the image-count limit atomically; either the
	// whole batch is granted or none of it is.
	NegotiateUploads(ctx context.Context, productID string, descriptors []models.UploadDescriptor) ([]models.UploadPermission, error)

	// DeleteImages removes image records (and their stored objects) in bulk.
	DeleteImages(ctx context.Context, productID string, imageIDs []string) error

	// UpdateProduct submits changed non-image fields.
	UpdateProduct(ctx context.Context, productID string, update models.ProductUpdate) error

	// CompleteImage reports that the bytes for a placeholder record have
	// been delivered to the object store.
	CompleteImage(ctx context.Context, imageID string) error

	// ListImages returns the live image records of a product.
	ListImages(ctx context.Context, productID string) ([]models.RemoteImage, error)
}

// HTTPClient talks to the authority over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// New returns an HTTPClient for the authority at baseURL (no trailing slash
// required).
func New(baseURL string, timeout time.Duration) *HTTPClient {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type negotiateRequest struct {
	Files []models.UploadDescriptor `json:"files"`
}

type negotiateResponse struct {
	Permissions []models.UploadPermission `json:"permissions"`
}

func (c *HTTPClient) NegotiateUploads(ctx context.Context, productID string, descriptors []models.UploadDescriptor) ([]models.UploadPermission, error) {
	var resp negotiateResponse
	err := c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/api/products/%s/images/negotiate", productID),
		negotiateRequest{Files: descriptors}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNegotiationFailed, err)
	}

	// The response must pair 1:1 with the request, in order. Anything
	// else is a protocol violation, not something to best-effort around.
	if len(resp.Permissions) != len(descriptors) {
		return nil, fmt.Errorf("%w: sent %d descriptors, got %d permissions",
			common.ErrProtocolMismatch, len(descriptors), len(resp.Permissions))
	}
	for i, p := range resp.Permissions {
		if p.CorrelationID != descriptors[i].CorrelationID {
			return nil, fmt.Errorf("%w: permission %d echoes correlation id %q, want %q",
				common.ErrProtocolMismatch, i, p.CorrelationID, descriptors[i].CorrelationID)
		}
	}

	return resp.Permissions, nil
}

type deleteImagesRequest struct {
	IDs []string `json:"ids"`
}

func (c *HTTPClient) DeleteImages(ctx context.Context, productID string, imageIDs []string) error {
	return c.doJSON(ctx, http.MethodDelete,
		fmt.Sprintf("/api/products/%s/images", productID),
		deleteImagesRequest{IDs: imageIDs}, nil)
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, productID string, update models.ProductUpdate) error {
	return c.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("/api/products/%s", productID), update, nil)
}

func (c *HTTPClient) CompleteImage(ctx context.Context, imageID string) error {
	return c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/api/images/%s/complete", imageID), nil, nil)
}

type listImagesResponse struct {
	Images []models.RemoteImage `json:"images"`
}

func (c *HTTPClient) ListImages(ctx context.Context, productID string) ([]models.RemoteImage, error) {
	var resp listImagesResponse
	err := c.doJSON(ctx, http.MethodGet,
		fmt.Sprintf("/api/products/%s/images", productID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Images, nil
}

// doJSON issues one request with a JSON body (when in != nil) and decodes a
// JSON response into out (when out != nil). Non-2xx responses become errors
// carrying the authority's message.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("authority returned %s: %s", resp.Status, string(b))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
