// Package transfer delivers file bytes to the object-store locations named
// by upload permissions. All transfers of a batch are launched concurrently
// and the executor waits for every one to settle, so the caller always gets
// a complete per-file picture instead of a short-circuited one.
package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"shopmedia/internal/client/models"
	"shopmedia/internal/common"
	"shopmedia/internal/logging"
)

// Executor performs direct PUTs against presigned object-store URLs.
type Executor struct {
	client *http.Client
	logger logging.Logger
}

func NewExecutor(client *http.Client, logger logging.Logger) *Executor {
	if client == nil {
		client = &http.Client{}
	}
	return &Executor{client: client, logger: logger}
}

// Run transfers every item and returns outcomes positionally aligned with
// items. Failed transfers are recorded, never retried here; retry policy
// belongs to the caller.
//
// The PUT requests intentionally detach from ctx's cancellation: once a
// transfer is in flight it is allowed to complete even if the caller goes
// away. A half-delivered file with no completed record is consistent state;
// the authority's placeholder bookkeeping is the source of truth.
func (e *Executor) Run(ctx context.Context, items []models.TransferItem) []models.TransferOutcome {
	outcomes := make([]models.TransferOutcome, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item models.TransferItem) {
			defer wg.Done()
			outcomes[i] = e.transferOne(ctx, i, item)
		}(i, item)
	}
	wg.Wait()

	return outcomes
}

func (e *Executor) transferOne(ctx context.Context, position int, item models.TransferItem) models.TransferOutcome {
	out := models.TransferOutcome{
		Position: position,
		ImageID:  item.Permission.ImageID,
	}

	body := io.NewSectionReader(item.File.Content, 0, item.File.Size)

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx),
		http.MethodPut, item.Permission.UploadURL, body)
	if err != nil {
		out.Err = fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
		return out
	}
	req.ContentLength = item.File.Size
	req.Header.Set("Content-Type", item.File.MediaType)
	// The object store recomputes the digest over received bytes and
	// rejects the write on mismatch.
	req.Header.Set(common.ChecksumHeaderName, item.Descriptor.DigestSHA256)

	resp, err := e.client.Do(req)
	if err != nil {
		out.Err = fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		out.Err = fmt.Errorf("%w: %s: %s", common.ErrTransferFailed, resp.Status, string(b))
		if e.logger != nil {
			e.logger.Warn(ctx, "direct transfer rejected",
				"position", position, "name", item.File.Name, "status", resp.Status)
		}
		return out
	}

	out.StoredURL = item.Permission.StoredURL
	return out
}
