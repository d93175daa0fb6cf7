// Package pipeline sequences a full "save product media" operation: field
// updates, deletions of superseded remote images, and the digest →
// negotiate → transfer chain for newly selected files.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shopmedia/internal/client/api"
	"shopmedia/internal/client/digest"
	"shopmedia/internal/client/models"
	"shopmedia/internal/common"
	"shopmedia/internal/logging"
)

// digestConcurrency caps how many files are digested at once. Windows of a
// single file are always read sequentially.
const digestConcurrency = 4

// Runner is the transfer stage; satisfied by *transfer.Executor.
type Runner interface {
	Run(ctx context.Context, items []models.TransferItem) []models.TransferOutcome
}

// SaveRequest describes one user-facing save of a product's media state.
type SaveRequest struct {
	ProductID string

	// Update holds changed non-image fields, nil or empty when untouched.
	Update *models.ProductUpdate

	// DeleteImageIDs lists existing remote images marked for deletion.
	DeleteImageIDs []string

	// NewFiles are the locally selected files to upload, in selection order.
	NewFiles []models.LocalFile

	// RemainingImages is how many remote images the product will still
	// have after the marked deletions are applied.
	RemainingImages int
}

func (r *SaveRequest) empty() bool {
	return r.Update.Empty() && len(r.DeleteImageIDs) == 0 && len(r.NewFiles) == 0
}

// SaveResult maps each new file, by its position in the original selection,
// to its outcome.
type SaveResult struct {
	Outcomes []models.TransferOutcome
}

// StoredURLs returns position → stored URL for the files that made it.
func (r *SaveResult) StoredURLs() map[int]string {
	out := make(map[int]string)
	for _, o := range r.Outcomes {
		if o.Err == nil && o.StoredURL != "" {
			out[o.Position] = o.StoredURL
		}
	}
	return out
}

// Orchestrator drives the save operation against the metadata authority and
// the object store.
type Orchestrator struct {
	api    api.Client
	runner Runner
	logger logging.Logger
}

func New(client api.Client, runner Runner, logger logging.Logger) *Orchestrator {
	return &Orchestrator{api: client, runner: runner, logger: logger}
}

// Save runs the operation in a fixed order chosen to minimise the chance of
// an inconsistent end state: cheap field update first, then deletions, then
// the upload chain. The first failing step stops later steps; effects of
// completed steps stay in place (failures here are user-correctable, so
// simplicity wins over atomicity — no compensating transactions).
//
// A request with no changes issues zero network calls.
func (o *Orchestrator) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if req.empty() {
		return &SaveResult{}, nil
	}

	if err := o.validate(req); err != nil {
		return nil, err
	}

	if !req.Update.Empty() {
		if err := o.api.UpdateProduct(ctx, req.ProductID, *req.Update); err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}

	if len(req.DeleteImageIDs) > 0 {
		if err := o.api.DeleteImages(ctx, req.ProductID, req.DeleteImageIDs); err != nil {
			return nil, fmt.Errorf("delete images: %w", err)
		}
	}

	if len(req.NewFiles) == 0 {
		return &SaveResult{}, nil
	}

	descriptors, err := o.describe(ctx, req.NewFiles)
	if err != nil {
		return nil, err
	}

	permissions, err := o.api.NegotiateUploads(ctx, req.ProductID, descriptors)
	if err != nil {
		return nil, err
	}

	items := make([]models.TransferItem, len(req.NewFiles))
	for i := range req.NewFiles {
		items[i] = models.TransferItem{
			File:       req.NewFiles[i],
			Descriptor: descriptors[i],
			Permission: permissions[i],
		}
	}

	outcomes := o.runner.Run(ctx, items)

	// Report delivered bytes so the authority flips its placeholder
	// records. A failed report degrades that file to a failure: the
	// bytes may be durable but the record never became visible.
	for i := range outcomes {
		if outcomes[i].Err != nil {
			continue
		}
		if err := o.api.CompleteImage(ctx, outcomes[i].ImageID); err != nil {
			outcomes[i].Err = fmt.Errorf("%w: completion not recorded: %v",
				common.ErrTransferFailed, err)
			outcomes[i].StoredURL = ""
		}
	}

	result := &SaveResult{Outcomes: outcomes}

	var failed int
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		if o.logger != nil {
			o.logger.Warn(ctx, "save finished with failed transfers",
				"product", req.ProductID, "failed", failed, "total", len(outcomes))
		}
		return result, fmt.Errorf("%w: %d of %d files", common.ErrTransferFailed, failed, len(outcomes))
	}

	return result, nil
}

// validate enforces every local pre-condition before any network call:
// image count limit, accepted media types, size limits. Violations abort
// the whole operation with zero remote effects.
func (o *Orchestrator) validate(req SaveRequest) error {
	if req.ProductID == "" {
		return fmt.Errorf("%w: missing product id", common.ErrValidation)
	}
	if req.RemainingImages+len(req.NewFiles) > common.MaxImagesPerProduct {
		return fmt.Errorf("%w: %d existing + %d new images exceeds the limit of %d",
			common.ErrValidation, req.RemainingImages, len(req.NewFiles), common.MaxImagesPerProduct)
	}
	for i, f := range req.NewFiles {
		if _, ok := common.AllowedMediaTypes[f.MediaType]; !ok {
			return fmt.Errorf("%w: file %d (%s): unsupported media type %q",
				common.ErrValidation, i, f.Name, f.MediaType)
		}
		if f.Size <= 0 {
			return fmt.Errorf("%w: file %d (%s): empty file", common.ErrValidation, i, f.Name)
		}
		if f.Size > common.MaxImageSizeBytes {
			return fmt.Errorf("%w: file %d (%s): %d bytes exceeds the %d byte limit",
				common.ErrValidation, i, f.Name, f.Size, common.MaxImageSizeBytes)
		}
	}
	return nil
}

// describe digests the files (concurrently across files) and builds the
// ordered descriptor batch, each descriptor tagged with a correlation id
// the authority must echo.
func (o *Orchestrator) describe(ctx context.Context, files []models.LocalFile) ([]models.UploadDescriptor, error) {
	descriptors := make([]models.UploadDescriptor, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(digestConcurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			d, err := digest.Compute(gctx, f.Content, f.Size)
			if err != nil {
				return fmt.Errorf("digest %s: %w", f.Name, err)
			}
			descriptors[i] = models.UploadDescriptor{
				CorrelationID: uuid.NewString(),
				Name:          f.Name,
				MediaType:     f.MediaType,
				Size:          f.Size,
				DigestSHA256:  d,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// FirstFailure returns the first failed outcome, or nil.
func FirstFailure(outcomes []models.TransferOutcome) *models.TransferOutcome {
	for i := range outcomes {
		if outcomes[i].Err != nil {
			return &outcomes[i]
		}
	}
	return nil
}
