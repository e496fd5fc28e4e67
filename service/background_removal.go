package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
	"aynext-storefront/utils"
)

const (
	DefaultRemoveBgURL     = "https://api.remove.bg/v1.0/removebg"
	defaultRemovalFailure  = "background removal failed"
	removeBgAPIKeyHeader   = "X-Api-Key"
	removeBgImageFileField = "image_file"
)

// ErrNotConfigured is returned when no provider credential is set
var ErrNotConfigured = errors.New("background removal is not configured")

// RemovalError is returned when the provider call fails (bad status or network error)
type RemovalError struct {
	StatusCode int // 0 for network-level failures
	Reason     string
	Err        error
}

func (e *RemovalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("background removal provider returned status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("background removal request failed: %s", e.Reason)
}

func (e *RemovalError) Unwrap() error { return e.Err }

// RemovalKind tells whether the provider actually processed the image
type RemovalKind int

const (
	// Removed means the provider returned a background-free image
	Removed RemovalKind = iota
	// Unprocessed means the original image is used as is
	Unprocessed
)

func (k RemovalKind) String() string {
	if k == Removed {
		return "removed"
	}
	return "unprocessed"
}

// RemovalResult is the image produced by the removal step, in either variant
type RemovalResult struct {
	Kind     RemovalKind
	MIMEType string
	Data     []byte
}

// DataURI returns the embedded-image encoding of the result
func (r *RemovalResult) DataURI() string {
	return utils.EncodeDataURI(r.MIMEType, r.Data)
}

// UnprocessedResult wraps the original file as a result, encoded the same way as a removed one
func UnprocessedResult(file models.UploadedImage) *RemovalResult {
	return &RemovalResult{
		Kind:     Unprocessed,
		MIMEType: utils.DetectImageMIME(file.Data, file.ContentType),
		Data:     file.Data,
	}
}

// removeBgErrorBody is the JSON error body returned by the provider
// Example: {"errors": [{"title": "Could not identify foreground in image", "code": "unknown_foreground"}]}
type removeBgErrorBody struct {
	Errors []struct {
		Title string `json:"title"`
		Code  string `json:"code,omitempty"`
	} `json:"errors"`
}

// RemoveBgService is the HTTP client of the remove.bg background removal API
// Implements BackgroundRemoverInterface
type RemoveBgService struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	defaults   map[string]string
}

// Ensure RemoveBgService implements BackgroundRemoverInterface
var _ BackgroundRemoverInterface = (*RemoveBgService)(nil)

// NewRemoveBgService creates a new RemoveBgService
// An empty apiURL uses the public remove.bg endpoint, an empty apiKey leaves the service unconfigured
func NewRemoveBgService(apiURL, apiKey string, timeout time.Duration) *RemoveBgService {
	if apiURL == "" {
		apiURL = DefaultRemoveBgURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoveBgService{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
		defaults: map[string]string{
			"size":   "auto",
			"format": "png",
			"type":   "auto",
		},
	}
}

// IsConfigured reports whether an API key is set
func (s *RemoveBgService) IsConfigured() bool {
	return s.apiKey != ""
}

// RemoveBackground posts the image to the provider and returns the processed image
func (s *RemoveBgService) RemoveBackground(ctx context.Context, file models.UploadedImage, overrides map[string]string) (*RemovalResult, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, contentType, err := s.buildForm(file, overrides)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(removeBgAPIKeyHeader, s.apiKey)

	log.Printf("🪄 Sending %s (%d bytes) to background removal provider", file.FileName, len(file.Data))
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &RemovalError{Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemovalError{Reason: fmt.Sprintf("error reading response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemovalError{StatusCode: resp.StatusCode, Reason: providerErrorReason(respBody)}
	}

	result := &RemovalResult{
		Kind:     Removed,
		MIMEType: utils.DetectImageMIME(respBody, resp.Header.Get("Content-Type")),
		Data:     respBody,
	}
	log.Printf("✅ Background removed for %s: output_size=%d bytes", file.FileName, len(respBody))
	return result, nil
}

// buildForm writes the multipart body with the image and the merged processing options
func (s *RemoveBgService) buildForm(file models.UploadedImage, overrides map[string]string) (io.Reader, string, error) {
	options := make(map[string]string, len(s.defaults)+len(overrides))
	for k, v := range s.defaults {
		options[k] = v
	}
	for k, v := range overrides {
		options[k] = v
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fileName := file.FileName
	if fileName == "" {
		fileName = "logo"
	}
	part, err := writer.CreateFormFile(removeBgImageFileField, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image to form: %w", err)
	}

	for k, v := range options {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// providerErrorReason extracts errors[0].title, or a generic message when the body is malformed
func providerErrorReason(body []byte) string {
	var errBody removeBgErrorBody
	if err := json.Unmarshal(body, &errBody); err != nil || len(errBody.Errors) == 0 || errBody.Errors[0].Title == "" {
		return defaultRemovalFailure
	}
	return errBody.Errors[0].Title
}

// RemoveOrFallback runs background removal when available and falls back to the original image otherwise.
// It never fails: provider errors are only logged.
func RemoveOrFallback(ctx context.Context, remover BackgroundRemoverInterface, file models.UploadedImage) *RemovalResult {
	if remover == nil || !remover.IsConfigured() {
		return UnprocessedResult(file)
	}

	result, err := remover.RemoveBackground(ctx, file, nil)
	if err != nil {
		log.Printf("⚠️  Background removal failed for %s, using original image: %v", file.FileName, err)
		return UnprocessedResult(file)
	}
	if result == nil || len(result.Data) == 0 {
		log.Printf("⚠️  Background removal returned an empty image for %s, using original image", file.FileName)
		return UnprocessedResult(file)
	}
	return result
}
