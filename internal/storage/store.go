package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"strings"
	"sync"
)

// MaxUploadBytes caps a single product image upload.
const MaxUploadBytes = 5 << 20

var (
	ErrTooLarge   = errors.New("image exceeds the 5 MiB limit")
	ErrBadImage   = errors.New("file is not a JPEG or PNG image")
	jpegQuality   = 80
	allowedFormat = map[string]bool{"jpeg": true, "png": true}
)

// ImageStore is the object-store boundary for product images.
type ImageStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	// KeyFor maps an object URL back to its key. Empty means the URL
	// does not belong to this store (seeded external images).
	KeyFor(url string) string
}

// ProcessUpload validates an uploaded file and recompresses it to JPEG.
// Returns the encoded bytes ready for ImageStore.Put.
func ProcessUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil || !allowedFormat[format] {
		return nil, ErrBadImage
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MemoryStore keeps objects in a map. Used by tests and as a stand-in
// when no bucket is configured.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	return fmt.Sprintf("mem://%s", key), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) KeyFor(url string) string {
	if strings.HasPrefix(url, "mem://") {
		return strings.TrimPrefix(url, "mem://")
	}
	return ""
}

// Len reports how many objects are held (test helper).
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
