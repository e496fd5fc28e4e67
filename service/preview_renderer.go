package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"aynext-storefront/models"
	"aynext-storefront/utils"
)

// anchor is the logo center on the mockup, as fractions of width and height
type anchor struct{ x, y float64 }

var positionAnchors = map[models.LogoPosition]anchor{
	models.PositionChest:  {0.50, 0.40},
	models.PositionBack:   {0.50, 0.45},
	models.PositionSleeve: {0.17, 0.50},
	models.PositionHood:   {0.50, 0.15},
	models.PositionPocket: {0.50, 0.69},
}

// LogoPlacement returns the top-left point where a logo of the given bounds is drawn
// The logo is centered on the position anchor and kept inside the mockup
func LogoPlacement(mockup image.Rectangle, logo image.Rectangle, position models.LogoPosition) image.Point {
	a, exists := positionAnchors[position]
	if !exists {
		a = positionAnchors[models.PositionChest]
	}
	x := mockup.Min.X + int(a.x*float64(mockup.Dx())) - logo.Dx()/2
	y := mockup.Min.Y + int(a.y*float64(mockup.Dy())) - logo.Dy()/2

	x = max(mockup.Min.X, min(x, mockup.Max.X-logo.Dx()))
	y = max(mockup.Min.Y, min(y, mockup.Max.Y-logo.Dy()))
	return image.Pt(x, y)
}

// RenderPreview draws the logo onto the mockup and returns the PNG bytes
// logo may be nil, in which case the bare mockup is rendered
func RenderPreview(mockup image.Image, logo image.Image, position models.LogoPosition, size int) ([]byte, error) {
	canvas := imaging.Clone(mockup)

	if logo != nil {
		size = utils.ClampLogoSize(size)
		resized := imaging.Fit(logo, size, size, imaging.Lanczos)
		if resized.Bounds().Dx() < size && resized.Bounds().Dy() < size {
			// Fit never upscales, small logos are scaled up to the requested size
			resized = imaging.Resize(logo, size, 0, imaging.Lanczos)
			if resized.Bounds().Dy() > size {
				resized = imaging.Resize(logo, 0, size, imaging.Lanczos)
			}
		}
		canvas = imaging.Overlay(canvas, resized, LogoPlacement(canvas.Bounds(), resized.Bounds(), position), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
