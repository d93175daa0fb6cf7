// Package filex loads user-selected files into the pipeline's LocalFile
// handle. It keeps filesystem concerns (afero, media-type sniffing) out of
// the pipeline itself.
package filex

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"shopmedia/internal/client/models"
	"shopmedia/internal/common"
)

// sniffLen is how many leading bytes are inspected for the media type.
const sniffLen = 3072

// Load opens path on fs and builds a LocalFile for it. The media type is
// sniffed from the leading bytes rather than trusted from the extension.
// The returned closer releases the underlying file; the LocalFile reads
// through it, so close only after the pipeline is done.
func Load(fs afero.Fs, path string) (models.LocalFile, io.Closer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return models.LocalFile{}, nil, fmt.Errorf("%w: open %s: %v", common.ErrRead, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return models.LocalFile{}, nil, fmt.Errorf("%w: stat %s: %v", common.ErrRead, path, err)
	}

	header := make([]byte, sniffLen)
	n, err := f.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		_ = f.Close()
		return models.LocalFile{}, nil, fmt.Errorf("%w: sniff %s: %v", common.ErrRead, path, err)
	}

	lf := models.LocalFile{
		Name:      filepath.Base(path),
		MediaType: mimetype.Detect(header[:n]).String(),
		Size:      info.Size(),
		Content:   f,
	}
	return lf, f, nil
}
