package storage_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maisonneuve/internal/storage"
)

// formFile packs body into a parsed multipart header the way an upload
// handler receives it.
func formFile(t *testing.T, name string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessUpload_RecompressesToJPEG(t *testing.T) {
	out, err := storage.ProcessUpload(formFile(t, "pic.png", pngBytes(t)))
	require.NoError(t, err)
	require.NotEmpty(t, out)

	// JPEG magic
	assert.Equal(t, []byte{0xFF, 0xD8}, out[:2])

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessUpload_RejectsNonImages(t *testing.T) {
	_, err := storage.ProcessUpload(formFile(t, "evil.jpg", []byte("<script>alert(1)</script>")))
	assert.ErrorIs(t, err, storage.ErrBadImage)

	_, err = storage.ProcessUpload(formFile(t, "empty.png", nil))
	assert.ErrorIs(t, err, storage.ErrBadImage)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	url, err := store.Put(ctx, "products/p1/a.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "mem://products/p1/a.jpg", url)
	assert.Equal(t, 1, store.Len())

	assert.Equal(t, "products/p1/a.jpg", store.KeyFor(url))
	assert.Equal(t, "", store.KeyFor("https://images.unsplash.com/photo-x"))

	require.NoError(t, store.Delete(ctx, "products/p1/a.jpg"))
	assert.Equal(t, 0, store.Len())
}
