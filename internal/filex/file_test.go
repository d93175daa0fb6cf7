package filex

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmedia/internal/common"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestLoad_SniffsMediaTypeAndSize(t *testing.T) {
	fs := afero.NewMemMapFs()

	content := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	require.NoError(t, afero.WriteFile(fs, "/photos/shoe.png", content, 0o644))

	lf, closer, err := Load(fs, "/photos/shoe.png")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, "shoe.png", lf.Name)
	assert.Equal(t, "image/png", lf.MediaType)
	assert.Equal(t, int64(len(content)), lf.Size)

	// The handle reads the actual content.
	buf := make([]byte, 4)
	_, err = lf.Content.ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("PNG\r"), buf)
}

func TestLoad_JPEGSniff(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.jpg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0}, 0o644))

	lf, closer, err := Load(fs, "a.jpg")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, "image/jpeg", lf.MediaType)
}

func TestLoad_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, _, err := Load(fs, "/nope.png")
	assert.ErrorIs(t, err, common.ErrRead)
}

func TestLoad_ExtensionIsNotTrusted(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "fake.png", []byte("just some text"), 0o644))

	lf, closer, err := Load(fs, "fake.png")
	require.NoError(t, err)
	defer closer.Close()

	assert.NotEqual(t, "image/png", lf.MediaType)
}
