package service

import (
	"context"
	"image"
)

// MockupSourceInterface defines the contract for garment mockup images
type MockupSourceInterface interface {
	// Mockup returns the hoodie image for a palette color, sized MockupWidth x MockupHeight
	Mockup(ctx context.Context, hexColor string) (image.Image, error)
}
