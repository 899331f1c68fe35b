package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeDataURI(t *testing.T) {
	raw := []byte("image-bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeDataURI("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeDataURI(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = DecodeDataURI("")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = DecodeDataURI("data:image/png;base64")
	assert.Error(t, err, "data URI without a comma is malformed")

	_, err = DecodeDataURI("!!! not base64 !!!")
	assert.Error(t, err)
}

func TestNormalizeProducesBothRenditions(t *testing.T) {
	jpegData, webpData, err := Normalize(testImage(t, 64, 48), MasterMaxSize)
	require.NoError(t, err)
	assert.NotEmpty(t, jpegData)
	assert.NotEmpty(t, webpData)

	img, format, err := image.Decode(bytes.NewReader(jpegData))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestNormalizeCapsLongestEdge(t *testing.T) {
	jpegData, _, err := Normalize(testImage(t, 400, 100), 200)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(jpegData))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy(), "aspect ratio preserved")
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, _, err := Normalize([]byte("not an image"), MasterMaxSize)
	assert.Error(t, err)

	_, _, err = Normalize(nil, MasterMaxSize)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestDiskStoreUploadDestroy(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "/media/")
	ctx := context.Background()

	asset, err := store.Upload(ctx, "posts", testImage(t, 32, 32))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.PublicID, "posts"+string(filepath.Separator)) ||
		strings.HasPrefix(asset.PublicID, "posts/"))
	assert.True(t, strings.HasPrefix(asset.URL, "/media/posts/"))
	assert.True(t, strings.HasSuffix(asset.URL, ".jpg"))

	jpegPath := filepath.Join(dir, asset.PublicID+".jpg")
	_, err = os.Stat(jpegPath)
	require.NoError(t, err, "jpeg master written to disk")

	require.NoError(t, store.Destroy(ctx, asset.PublicID))
	_, err = os.Stat(jpegPath)
	assert.True(t, os.IsNotExist(err))

	// Destroying again, or destroying nothing, is a no-op.
	require.NoError(t, store.Destroy(ctx, asset.PublicID))
	require.NoError(t, store.Destroy(ctx, ""))
}

func TestDiskStoreDestroyRejectsEscape(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/media")
	assert.Error(t, store.Destroy(context.Background(), "../etc/passwd"))
	assert.Error(t, store.Destroy(context.Background(), "/etc/passwd"))
}
