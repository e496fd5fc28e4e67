package service

import (
	"context"

	"aynext-storefront/models"
)

// BackgroundRemoverInterface defines the contract for background removal operations
type BackgroundRemoverInterface interface {
	// IsConfigured reports whether a provider credential is present
	IsConfigured() bool
	// RemoveBackground sends the image to the provider and returns the background-free image.
	// overrides are merged over the default processing options.
	RemoveBackground(ctx context.Context, file models.UploadedImage, overrides map[string]string) (*RemovalResult, error)
}
