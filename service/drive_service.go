package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"aynext-storefront/utils"
)

const (
	MockupWidth  = 400
	MockupHeight = 480
)

// DriveMockupService loads garment mockups from a Google Drive folder
// Files are named after the color hex without '#', e.g. 000000.png
// Implements MockupSourceInterface
type DriveMockupService struct {
	client   *drive.Service
	folderID string

	mu    sync.Mutex
	cache map[string]image.Image
}

// Ensure DriveMockupService implements MockupSourceInterface
var _ MockupSourceInterface = (*DriveMockupService)(nil)

// NewDriveMockupService creates a new DriveMockupService
// credentialsPath should be the path to the Service Account JSON file
func NewDriveMockupService(ctx context.Context, credentialsPath, folderID string) (*DriveMockupService, error) {
	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveMockupService{
		client:   driveService,
		folderID: folderID,
		cache:    make(map[string]image.Image),
	}, nil
}

// Mockup downloads (once) and returns the mockup of a color
func (ds *DriveMockupService) Mockup(ctx context.Context, hexColor string) (image.Image, error) {
	key := strings.TrimPrefix(utils.NormalizeHex(hexColor), "#")

	ds.mu.Lock()
	cached, exists := ds.cache[key]
	ds.mu.Unlock()
	if exists {
		return cached, nil
	}

	fileID, err := ds.findFile(ctx, key)
	if err != nil {
		return nil, err
	}

	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download mockup %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mockup %s: %w", key, err)
	}

	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mockup %s: %w", key, err)
	}
	img = imaging.Fill(img, MockupWidth, MockupHeight, imaging.Center, imaging.Lanczos)

	ds.mu.Lock()
	ds.cache[key] = img
	ds.mu.Unlock()

	log.Printf("✓ Mockup loaded from Drive: color=%s, file_id=%s", key, fileID)
	return img, nil
}

// findFile returns the ID of the first image in the folder named after key
func (ds *DriveMockupService) findFile(ctx context.Context, key string) (string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false and (name = '%s.png' or name = '%s.jpg')", ds.folderID, key, key)

	r, err := ds.client.Files.List().
		Q(query).
		Fields("files(id, name, mimeType)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to list files: %w", err)
	}

	for _, file := range r.Files {
		if strings.HasPrefix(strings.ToLower(file.MimeType), "image/") {
			return file.Id, nil
		}
	}
	return "", fmt.Errorf("no mockup found in Drive for color %s", key)
}

// GeneratedMockupService draws a flat hoodie silhouette tinted with the color
// Implements MockupSourceInterface
type GeneratedMockupService struct{}

// Ensure GeneratedMockupService implements MockupSourceInterface
var _ MockupSourceInterface = GeneratedMockupService{}

// Mockup draws the silhouette for a color
func (GeneratedMockupService) Mockup(_ context.Context, hexColor string) (image.Image, error) {
	fill, err := utils.ParseHexColor(hexColor)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(MockupWidth, MockupHeight, color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf5, A: 0xff})

	// hood, body, sleeves, front pocket
	canvas = imaging.Paste(canvas, imaging.New(130, 90, fill), image.Pt(135, 30))
	canvas = imaging.Paste(canvas, imaging.New(220, 300, fill), image.Pt(90, 110))
	sleeve := imaging.Rotate(imaging.New(55, 230, fill), 12, color.Transparent)
	canvas = imaging.Overlay(canvas, sleeve, image.Pt(40, 115), 1.0)
	canvas = imaging.Overlay(canvas, imaging.FlipH(sleeve), image.Pt(MockupWidth-40-sleeve.Bounds().Dx(), 115), 1.0)
	canvas = imaging.Overlay(canvas, imaging.New(130, 60, shade(fill)), image.Pt(135, 300), 1.0)

	return canvas, nil
}

// shade darkens a color slightly, used for seams and the pocket
func shade(c color.NRGBA) color.NRGBA {
	darken := func(v uint8) uint8 { return uint8(int(v) * 85 / 100) }
	if c.R < 0x20 && c.G < 0x20 && c.B < 0x20 {
		return color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	}
	return color.NRGBA{R: darken(c.R), G: darken(c.G), B: darken(c.B), A: 0xff}
}

// FallbackMockupService uses primary and falls back on error
// Implements MockupSourceInterface
type FallbackMockupService struct {
	primary  MockupSourceInterface
	fallback MockupSourceInterface
}

// Ensure FallbackMockupService implements MockupSourceInterface
var _ MockupSourceInterface = (*FallbackMockupService)(nil)

// NewFallbackMockupService creates a new FallbackMockupService
func NewFallbackMockupService(primary, fallback MockupSourceInterface) *FallbackMockupService {
	return &FallbackMockupService{primary: primary, fallback: fallback}
}

// Mockup returns the primary mockup, or the fallback one when the primary fails
func (s *FallbackMockupService) Mockup(ctx context.Context, hexColor string) (image.Image, error) {
	img, err := s.primary.Mockup(ctx, hexColor)
	if err == nil {
		return img, nil
	}
	log.Printf("⚠️  Mockup source failed for %s, using generated mockup: %v", hexColor, err)
	return s.fallback.Mockup(ctx, hexColor)
}
