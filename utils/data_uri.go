package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// EmbeddedImagePrefix is the prefix every embedded (self-describing) image carries
const EmbeddedImagePrefix = "data:image/"

// ErrNotEmbeddedImage is returned when a string is not a base64 data URI image
var ErrNotEmbeddedImage = errors.New("not an embedded image")

// EncodeDataURI builds a "data:<mime>;base64,<payload>" string
func EncodeDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// IsEmbeddedImage reports whether s looks like an embedded image (and not a URL or bare string)
func IsEmbeddedImage(s string) bool {
	return strings.HasPrefix(s, EmbeddedImagePrefix)
}

// DecodeDataURI splits an embedded image into its MIME type and raw bytes
func DecodeDataURI(s string) (string, []byte, error) {
	if !IsEmbeddedImage(s) {
		return "", nil, ErrNotEmbeddedImage
	}
	header, payload, found := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !found {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrNotEmbeddedImage)
	}
	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("%w: unsupported encoding %q", ErrNotEmbeddedImage, encoding)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode embedded image: %w", err)
	}
	return mimeType, data, nil
}

// DetectImageMIME returns the image MIME type of data
// The declared content type wins when it is an image type, otherwise the bytes are sniffed
// Falls back to image/png when nothing image-like is found
func DetectImageMIME(data []byte, declared string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mediaType, "image/") {
			return mediaType
		}
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return "image/png"
}
