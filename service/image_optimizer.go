package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// Max dimension of a logo kept for previews
	maxPreviewLogoSize = 1024
)

// ErrInvalidImage is returned when an upload cannot be decoded as an image
var ErrInvalidImage = errors.New("file is not a supported image")

// ErrPreviewNotFound is returned for unknown or revoked preview handles
var ErrPreviewNotFound = errors.New("preview handle not found")

// DecodeImage decodes PNG, JPEG or GIF bytes, applying EXIF orientation
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// OptimizeForPreview bounds the logo to maxPreviewLogoSize (keeping the aspect ratio) and encodes it as PNG
// PNG keeps the transparency produced by background removal
func OptimizeForPreview(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxPreviewLogoSize || bounds.Dy() > maxPreviewLogoSize {
		log.Printf("🔄 Resizing preview logo: %dx%d -> max %d", bounds.Dx(), bounds.Dy(), maxPreviewLogoSize)
		img = imaging.Fit(img, maxPreviewLogoSize, maxPreviewLogoSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

type previewEntry struct {
	mimeType string
	data     []byte
}

// PreviewStore holds revocable local preview handles for uploaded logos
// A handle stays valid until Revoke is called
type PreviewStore struct {
	mu      sync.RWMutex
	entries map[string]previewEntry
}

// NewPreviewStore creates an empty PreviewStore
func NewPreviewStore() *PreviewStore {
	return &PreviewStore{entries: make(map[string]previewEntry)}
}

// Allocate stores preview bytes and returns their handle
func (s *PreviewStore) Allocate(data []byte, mimeType string) string {
	handle := uuid.NewString()
	s.mu.Lock()
	s.entries[handle] = previewEntry{mimeType: mimeType, data: data}
	s.mu.Unlock()
	log.Printf("✓ Preview allocated: handle=%s, size=%d bytes", handle, len(data))
	return handle
}

// Get returns the preview bytes and MIME type of a handle
func (s *PreviewStore) Get(handle string) ([]byte, string, error) {
	s.mu.RLock()
	entry, exists := s.entries[handle]
	s.mu.RUnlock()
	if !exists {
		return nil, "", ErrPreviewNotFound
	}
	return entry.data, entry.mimeType, nil
}

// Revoke releases a handle. Revoking an unknown handle is a no-op.
func (s *PreviewStore) Revoke(handle string) bool {
	if handle == "" {
		return false
	}
	s.mu.Lock()
	_, exists := s.entries[handle]
	delete(s.entries, handle)
	s.mu.Unlock()
	if exists {
		log.Printf("🗑️  Preview revoked: handle=%s", handle)
	}
	return exists
}

// Has reports whether a handle is still allocated
func (s *PreviewStore) Has(handle string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.entries[handle]
	return exists
}

// Len returns the number of allocated handles
func (s *PreviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
