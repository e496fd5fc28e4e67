package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
	"aynext-storefront/utils"
)

var (
	// ErrWidgetClosed is returned for draft operations while the customizer is hidden
	ErrWidgetClosed = errors.New("customizer is closed")
	// ErrUnknownPosition is returned for positions outside the enumerated set
	ErrUnknownPosition = errors.New("unknown logo position")
	// ErrUnknownColor is returned for colors outside the palette
	ErrUnknownColor = errors.New("unknown garment color")
)

// CustomizerWidget is the hoodie customizer of one visitor
// It owns the visitor's design draft while visible and discards it when closed
type CustomizerWidget struct {
	visitorID string
	remover   BackgroundRemoverInterface
	previews  *PreviewStore
	mockups   MockupSourceInterface
	triggers  *TriggerRegistry

	mu         sync.Mutex
	visible    bool
	generation uint64
	draft      *models.DesignDraft
	releases   []func()

	submitting atomic.Bool
}

// VisitorID returns the browser session the widget belongs to
func (w *CustomizerWidget) VisitorID() string { return w.visitorID }

// Triggers returns the widget's trigger registry
func (w *CustomizerWidget) Triggers() *TriggerRegistry { return w.triggers }

// Open shows the widget with a fresh draft and wires the close triggers
// Opening a visible widget keeps the current draft
func (w *CustomizerWidget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible {
		return
	}
	w.visible = true
	w.generation++
	w.draft = models.NewDesignDraft()
	w.releases = []func(){
		w.triggers.Register(TriggerEscape, func() { w.Close() }),
		w.triggers.Register(TriggerBack, func() { w.Close() }),
	}
	log.Printf("🧥 Customizer opened for visitor %s", w.visitorID)
}

// Close hides the widget, unwires its triggers, revokes the logo preview and discards the draft
// Returns false when the widget was already closed
func (w *CustomizerWidget) Close() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// CloseIfGeneration closes the widget only while it still holds the draft of generation
// A widget that was closed and reopened since is left alone
func (w *CustomizerWidget) CloseIfGeneration(generation uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != generation {
		log.Printf("⏭️  Keeping customizer of visitor %s open (reopened since generation %d)", w.visitorID, generation)
		return false
	}
	return w.closeLocked()
}

func (w *CustomizerWidget) closeLocked() bool {
	if !w.visible {
		return false
	}
	w.visible = false
	w.generation++
	for _, release := range w.releases {
		release()
	}
	w.releases = nil
	if w.draft != nil {
		w.previews.Revoke(w.draft.PreviewHandle)
	}
	w.draft = nil
	log.Printf("🚪 Customizer closed for visitor %s", w.visitorID)
	return true
}

// Visible reports whether the widget is open
func (w *CustomizerWidget) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Draft returns a copy of the current draft
func (w *CustomizerWidget) Draft() (models.DesignDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible {
		return models.DesignDraft{}, ErrWidgetClosed
	}
	return *w.draft, nil
}

// DraftGeneration returns a copy of the current draft and the open generation it belongs to
func (w *CustomizerWidget) DraftGeneration() (models.DesignDraft, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible {
		return models.DesignDraft{}, 0, ErrWidgetClosed
	}
	return *w.draft, w.generation, nil
}

// OwnsPreview reports whether handle is the preview of the current draft
func (w *CustomizerWidget) OwnsPreview(handle string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return handle != "" && w.visible && w.draft.PreviewHandle == handle
}

// update runs fn on the draft under the widget lock
func (w *CustomizerWidget) update(fn func(d *models.DesignDraft) error) (models.DesignDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible {
		return models.DesignDraft{}, ErrWidgetClosed
	}
	if err := fn(w.draft); err != nil {
		return *w.draft, err
	}
	return *w.draft, nil
}

// SetColor changes the garment color, only palette colors are accepted
func (w *CustomizerWidget) SetColor(hex string) (models.DesignDraft, error) {
	return w.update(func(d *models.DesignDraft) error {
		if !utils.IsPaletteColor(hex) {
			return fmt.Errorf("%w: %s", ErrUnknownColor, hex)
		}
		d.Color = utils.NormalizeHex(hex)
		return nil
	})
}

// SetPosition moves the logo and resets its size to the position's recommendation
func (w *CustomizerWidget) SetPosition(raw string) (models.DesignDraft, error) {
	return w.update(func(d *models.DesignDraft) error {
		position, known := utils.ParsePosition(raw)
		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownPosition, raw)
		}
		d.LogoPosition = position
		d.LogoSize = utils.RecommendedLogoSize(position)
		return nil
	})
}

// SetSize changes the logo size, clamped to the slider bounds
func (w *CustomizerWidget) SetSize(size int) (models.DesignDraft, error) {
	return w.update(func(d *models.DesignDraft) error {
		d.LogoSize = utils.ClampLogoSize(size)
		return nil
	})
}

// ClearLogo removes the logo and releases its preview handle
func (w *CustomizerWidget) ClearLogo() (models.DesignDraft, error) {
	return w.update(func(d *models.DesignDraft) error {
		w.previews.Revoke(d.PreviewHandle)
		d.PreviewHandle = ""
		d.LogoImage = ""
		return nil
	})
}

// UploadLogo sets the logo from an uploaded file.
// The background is removed when the provider is configured, any provider failure falls back to the original file.
// The draft is only touched once the new logo is complete: on error the previous logo (or none) is kept.
// If the widget is closed while the provider call is in flight the result is discarded.
func (w *CustomizerWidget) UploadLogo(ctx context.Context, file models.UploadedImage) (*RemovalResult, error) {
	original, err := DecodeImage(file.Data)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if !w.visible {
		w.mu.Unlock()
		return nil, ErrWidgetClosed
	}
	generation := w.generation
	w.mu.Unlock()

	result := RemoveOrFallback(ctx, w.remover, file)

	previewImg := original
	if result.Kind == Removed {
		if decoded, err := DecodeImage(result.Data); err == nil {
			previewImg = decoded
		} else {
			log.Printf("⚠️  Provider output for %s is not decodable, using original image: %v", file.FileName, err)
			result = UnprocessedResult(file)
		}
	}
	previewData, err := OptimizeForPreview(previewImg)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible || w.generation != generation {
		log.Printf("⏭️  Discarding logo for visitor %s (customizer closed during upload)", w.visitorID)
		return nil, ErrWidgetClosed
	}

	handle := w.previews.Allocate(previewData, "image/png")
	previous := w.draft.PreviewHandle
	w.draft.LogoImage = result.DataURI()
	w.draft.PreviewHandle = handle
	w.previews.Revoke(previous)

	log.Printf("✅ Logo set for visitor %s: %s, %s", w.visitorID, file.FileName, result.Kind)
	return result, nil
}

// Preview renders the current design as PNG bytes
func (w *CustomizerWidget) Preview(ctx context.Context) ([]byte, error) {
	draft, err := w.Draft()
	if err != nil {
		return nil, err
	}

	mockup, err := w.mockups.Mockup(ctx, draft.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to load mockup: %w", err)
	}

	var logo image.Image
	if draft.PreviewHandle != "" {
		data, _, err := w.previews.Get(draft.PreviewHandle)
		if err != nil {
			return nil, fmt.Errorf("failed to load logo preview: %w", err)
		}
		if logo, err = DecodeImage(data); err != nil {
			return nil, err
		}
	}

	return RenderPreview(mockup, logo, draft.LogoPosition, draft.LogoSize)
}

// BeginSubmit marks a submission as in flight, false when one already is
func (w *CustomizerWidget) BeginSubmit() bool {
	return w.submitting.CompareAndSwap(false, true)
}

// EndSubmit re-enables submission
func (w *CustomizerWidget) EndSubmit() {
	w.submitting.Store(false)
}

// Submitting reports whether a submission is in flight
func (w *CustomizerWidget) Submitting() bool {
	return w.submitting.Load()
}

type widgetEntry struct {
	widget   *CustomizerWidget
	lastSeen time.Time
}

// CustomizerService keeps one customizer widget per visitor
// Widgets untouched for longer than the idle timeout are closed and dropped by EvictIdle
type CustomizerService struct {
	remover  BackgroundRemoverInterface
	previews *PreviewStore
	mockups  MockupSourceInterface
	now      func() time.Time

	mu      sync.Mutex
	widgets map[string]*widgetEntry
}

// NewCustomizerService creates a new CustomizerService
func NewCustomizerService(remover BackgroundRemoverInterface, previews *PreviewStore, mockups MockupSourceInterface) *CustomizerService {
	if mockups == nil {
		mockups = GeneratedMockupService{}
	}
	return &CustomizerService{
		remover:  remover,
		previews: previews,
		mockups:  mockups,
		now:      time.Now,
		widgets:  make(map[string]*widgetEntry),
	}
}

// Widget returns the visitor's widget, creating a closed one on first use
func (s *CustomizerService) Widget(visitorID string) *CustomizerWidget {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, exists := s.widgets[visitorID]; exists {
		entry.lastSeen = s.now()
		return entry.widget
	}
	w := &CustomizerWidget{
		visitorID: visitorID,
		remover:   s.remover,
		previews:  s.previews,
		mockups:   s.mockups,
		triggers:  NewTriggerRegistry(),
	}
	s.widgets[visitorID] = &widgetEntry{widget: w, lastSeen: s.now()}
	return w
}

// Lookup returns the visitor's widget without creating one
func (s *CustomizerService) Lookup(visitorID string) (*CustomizerWidget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, exists := s.widgets[visitorID]
	if !exists {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.widget, true
}

// BackgroundRemovalAvailable reports whether uploads go through the removal provider
func (s *CustomizerService) BackgroundRemovalAvailable() bool {
	return s.remover != nil && s.remover.IsConfigured()
}

// Drop closes and forgets the visitor's widget
func (s *CustomizerService) Drop(visitorID string) {
	s.mu.Lock()
	entry, exists := s.widgets[visitorID]
	delete(s.widgets, visitorID)
	s.mu.Unlock()
	if exists {
		entry.widget.Close()
	}
}

// EvictIdle closes and drops every widget untouched for longer than maxIdle
// Widgets with a submission in flight are kept. Returns the evicted visitor ids.
func (s *CustomizerService) EvictIdle(maxIdle time.Duration) []string {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var evicted []*CustomizerWidget
	for visitorID, entry := range s.widgets {
		if entry.lastSeen.After(cutoff) || entry.widget.Submitting() {
			continue
		}
		delete(s.widgets, visitorID)
		evicted = append(evicted, entry.widget)
	}
	s.mu.Unlock()

	ids := make([]string, 0, len(evicted))
	for _, w := range evicted {
		w.Close()
		ids = append(ids, w.visitorID)
	}
	if len(ids) > 0 {
		log.Printf("🧹 Evicted %d idle customizer(s)", len(ids))
	}
	return ids
}

// RunEviction calls EvictIdle every interval until ctx is done
// onEvict, when set, is called for each evicted visitor
func (s *CustomizerService) RunEviction(ctx context.Context, interval, maxIdle time.Duration, onEvict func(visitorID string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, visitorID := range s.EvictIdle(maxIdle) {
				if onEvict != nil {
					onEvict(visitorID)
				}
			}
		}
	}
}

// Len returns the number of tracked widgets
func (s *CustomizerService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.widgets)
}

// Previews returns the shared preview store
func (s *CustomizerService) Previews() *PreviewStore { return s.previews }
