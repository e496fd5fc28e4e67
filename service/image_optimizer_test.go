package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aynext-storefront/models"
)

func TestPreviewStore_AllocateGetRevoke(t *testing.T) {
	s := NewPreviewStore()
	h1 := s.Allocate([]byte("one"), "image/png")
	h2 := s.Allocate([]byte("two"), "image/jpeg")
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, s.Len())

	data, mime, err := s.Get(h2)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
	assert.Equal(t, "image/jpeg", mime)

	assert.True(t, s.Revoke(h1))
	assert.False(t, s.Revoke(h1))
	assert.False(t, s.Revoke(""))
	assert.False(t, s.Has(h1))

	_, _, err = s.Get(h1)
	assert.ErrorIs(t, err, ErrPreviewNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestDecodeImage_RejectsNonImages(t *testing.T) {
	_, err := DecodeImage(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = DecodeImage([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestOptimizeForPreview_BoundsLargeLogos(t *testing.T) {
	data, err := OptimizeForPreview(imaging.New(2048, 1024, color.NRGBA{A: 255}))
	require.NoError(t, err)

	img, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())

	data, err = OptimizeForPreview(imaging.New(100, 50, color.NRGBA{A: 255}))
	require.NoError(t, err)
	img, err = DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), img.Bounds())
}

func TestLogoPlacement(t *testing.T) {
	mockup := image.Rect(0, 0, 400, 480)
	logo := image.Rect(0, 0, 80, 80)

	tests := []struct {
		position models.LogoPosition
		want     image.Point
	}{
		{models.PositionChest, image.Pt(160, 152)},
		{models.PositionBack, image.Pt(160, 176)},
		{models.PositionHood, image.Pt(160, 32)},
		{models.PositionPocket, image.Pt(160, 291)},
		{models.PositionSleeve, image.Pt(28, 200)},
		{"collar", image.Pt(160, 152)},
	}

	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			assert.Equal(t, tt.want, LogoPlacement(mockup, logo, tt.position))
		})
	}
}

func TestLogoPlacement_StaysInsideMockup(t *testing.T) {
	p := LogoPlacement(image.Rect(0, 0, 100, 100), image.Rect(0, 0, 120, 40), models.PositionSleeve)
	assert.Equal(t, 0, p.X)
}

func TestRenderPreview_DrawsLogoAtPosition(t *testing.T) {
	mockup := imaging.New(400, 480, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	logo := imaging.New(20, 20, color.NRGBA{R: 255, A: 255})

	data, err := RenderPreview(mockup, logo, models.PositionChest, 80)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, mockup.Bounds(), img.Bounds())

	// small logos are scaled up to the requested size around the anchor at (200, 192)
	r, g, b, _ := img.At(200, 192).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
	r, g, b, _ = img.At(200, 192-50).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestRenderPreview_WithoutLogo(t *testing.T) {
	mockup := imaging.New(40, 40, color.NRGBA{B: 255, A: 255})
	data, err := RenderPreview(mockup, nil, models.PositionChest, 80)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, mockup.Bounds(), img.Bounds())
}

func TestGeneratedMockupService(t *testing.T) {
	img, err := GeneratedMockupService{}.Mockup(context.Background(), "#DC2626")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, MockupWidth, MockupHeight), img.Bounds())

	// body center carries the garment color
	r, g, b, _ := img.At(200, 200).RGBA()
	assert.Equal(t, [3]uint32{0xdcdc, 0x2626, 0x2626}, [3]uint32{r, g, b})

	_, err = GeneratedMockupService{}.Mockup(context.Background(), "red")
	assert.Error(t, err)
}

type failingMockups struct{ calls int }

func (f *failingMockups) Mockup(context.Context, string) (image.Image, error) {
	f.calls++
	return nil, errors.New("drive unavailable")
}

func TestFallbackMockupService(t *testing.T) {
	primary := &failingMockups{}
	svc := NewFallbackMockupService(primary, GeneratedMockupService{})

	img, err := svc.Mockup(context.Background(), "#166534")
	require.NoError(t, err)
	assert.Equal(t, MockupWidth, img.Bounds().Dx())
	assert.Equal(t, 1, primary.calls)
}
