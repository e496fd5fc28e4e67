package service

import (
	"bytes"
	"context"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"aynext-storefront/models"
)

// testPNG returns an encoded PNG of the given size filled with c
func testPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, c), imaging.PNG))
	return buf.Bytes()
}

func testUpload(t *testing.T) models.UploadedImage {
	t.Helper()
	return models.UploadedImage{
		FileName:    "logo.png",
		ContentType: "image/png",
		Data:        testPNG(t, 64, 48, color.NRGBA{R: 200, G: 30, B: 30, A: 255}),
	}
}

// fakeRemover is a scriptable BackgroundRemoverInterface
type fakeRemover struct {
	configured bool
	result     *RemovalResult
	err        error
	started    chan struct{} // closed when RemoveBackground is entered
	release    chan struct{} // RemoveBackground waits on it when set
	calls      atomic.Int32
}

func (f *fakeRemover) IsConfigured() bool { return f.configured }

func (f *fakeRemover) RemoveBackground(_ context.Context, _ models.UploadedImage, _ map[string]string) (*RemovalResult, error) {
	f.calls.Add(1)
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func newTestCustomizer(remover BackgroundRemoverInterface) *CustomizerService {
	return NewCustomizerService(remover, NewPreviewStore(), GeneratedMockupService{})
}

// openWidget returns an open widget of a fresh customizer
func openWidget(t *testing.T, remover BackgroundRemoverInterface) (*CustomizerService, *CustomizerWidget) {
	t.Helper()
	svc := newTestCustomizer(remover)
	w := svc.Widget("visitor-1")
	w.Open()
	return svc, w
}

// setLogo writes the draft logo directly, bypassing upload validation
func setLogo(w *CustomizerWidget, logo string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.LogoImage = logo
}
