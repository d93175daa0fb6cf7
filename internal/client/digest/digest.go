// Package digest computes content digests of file-like byte sources that are
// too large to hold in memory. The source is read in fixed-size windows fed
// sequentially into an incremental SHA-256 accumulator.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"shopmedia/internal/common"
)

// WindowSize is how many bytes are read per window (2 MiB).
const WindowSize = 2 * 1024 * 1024

// Compute digests size bytes from r and returns the base64 encoding of the
// raw 32-byte SHA-256 digest. This is the same encoding the object store
// expects in its integrity header, so the value can be passed through
// unchanged.
//
// Windows are read strictly in file order; the accumulator is stateful and
// an out-of-order or skipped window would corrupt the digest silently, so
// Compute counts consumed windows and refuses to finalize unless every
// window was seen. No partial digest is ever returned: any failed read
// yields a common.ErrRead.
//
// Compute is a pure function of the content. Different files may be digested
// concurrently; a single call reads its windows sequentially.
func Compute(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("%w: non-positive size %d", common.ErrValidation, size)
	}

	windows := int((size + WindowSize - 1) / WindowSize)

	h := sha256.New()
	buf := make([]byte, WindowSize)
	consumed := 0

	for i := 0; i < windows; i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: window %d: %v", common.ErrRead, i, err)
		}

		off := int64(i) * WindowSize
		want := size - off
		if want > WindowSize {
			want = WindowSize
		}

		n, err := r.ReadAt(buf[:want], off)
		if int64(n) < want {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("%w: window %d: %v", common.ErrRead, i, err)
		}

		h.Write(buf[:want])
		consumed++
	}

	if consumed != windows {
		return "", fmt.Errorf("%w: consumed %d of %d windows", common.ErrRead, consumed, windows)
	}

	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
