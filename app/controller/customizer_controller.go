package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
	"aynext-storefront/service"
	"aynext-storefront/utils"
)

const maxLogoUploadBytes = 10 << 20

// CustomizerController handles HTTP requests for the hoodie customizer
type CustomizerController struct {
	customizer *service.CustomizerService
	orders     *service.OrderService
	sessions   service.SessionProviderInterface
	notifier   *service.FlashNotifier
	visitors   VisitorCookies
}

// NewCustomizerController creates a new CustomizerController
func NewCustomizerController(
	customizer *service.CustomizerService,
	orders *service.OrderService,
	sessions service.SessionProviderInterface,
	notifier *service.FlashNotifier,
	visitors VisitorCookies,
) *CustomizerController {
	return &CustomizerController{
		customizer: customizer,
		orders:     orders,
		sessions:   sessions,
		notifier:   notifier,
		visitors:   visitors,
	}
}

// lookup returns the visitor's widget, nil when the visitor never opened the customizer
func (c *CustomizerController) lookup(w http.ResponseWriter, r *http.Request) *service.CustomizerWidget {
	widget, _ := c.customizer.Lookup(c.visitors.VisitorID(w, r))
	return widget
}

// state builds the customizer state response of a widget, widget may be nil
func (c *CustomizerController) state(widget *service.CustomizerWidget) models.CustomizerStateResponse {
	resp := models.CustomizerStateResponse{
		PriceLabel:        utils.FormatEUR(models.CustomHoodiePrice),
		BackgroundRemoval: c.customizer.BackgroundRemovalAvailable(),
		Palette:           utils.Palette(),
		Positions:         utils.Positions(),
		MinLogoSize:       models.MinLogoSize,
		MaxLogoSize:       models.MaxLogoSize,
	}
	if widget == nil {
		return resp
	}
	resp.Submitting = widget.Submitting()
	if draft, err := widget.Draft(); err == nil {
		resp.Visible = true
		resp.Draft = &draft
		resp.ColorName = utils.MapColorToName(draft.Color)
		resp.CanSubmit = draft.HasLogo() && !resp.Submitting
	}
	return resp
}

// writeDraftError maps draft operation errors to HTTP errors
func writeDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWidgetClosed):
		writeJSONError(w, http.StatusConflict, "customizer is not open")
	case errors.Is(err, service.ErrUnknownColor),
		errors.Is(err, service.ErrUnknownPosition),
		errors.Is(err, service.ErrInvalidImage):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// GetState handles GET /customizer
func (c *CustomizerController) GetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, c.state(c.lookup(w, r)))
}

// Open handles POST /customizer/open
func (c *CustomizerController) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	widget := c.customizer.Widget(c.visitors.VisitorID(w, r))
	widget.Open()
	writeJSON(w, http.StatusOK, c.state(widget))
}

// Close handles POST /customizer/close
func (c *CustomizerController) Close(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	widget := c.lookup(w, r)
	if widget != nil {
		widget.Close()
	}
	writeJSON(w, http.StatusOK, c.state(widget))
}

// FireTrigger handles POST /customizer/trigger?name=escape
// Fired by the page on escape key or back navigation, only wired while the customizer is open
func (c *CustomizerController) FireTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name parameter is required", http.StatusBadRequest)
		return
	}
	fired, visible := false, false
	if widget := c.lookup(w, r); widget != nil {
		fired = widget.Triggers().Fire(name)
		visible = widget.Visible()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trigger": name,
		"fired":   fired,
		"visible": visible,
	})
}

// UpdateColor handles POST /customizer/color
// Example request: {"color": "#DC2626"}
func (c *CustomizerController) UpdateColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req models.UpdateColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	widget := c.lookup(w, r)
	if widget == nil {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	if _, err := widget.SetColor(req.Color); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.state(widget))
}

// UpdatePosition handles POST /customizer/position
// Example request: {"position": "hood"}
func (c *CustomizerController) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req models.UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	widget := c.lookup(w, r)
	if widget == nil {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	if _, err := widget.SetPosition(req.Position); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.state(widget))
}

// UpdateSize handles POST /customizer/size
// Example request: {"size": 95}
func (c *CustomizerController) UpdateSize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req models.UpdateSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	widget := c.lookup(w, r)
	if widget == nil {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	if _, err := widget.SetSize(req.Size); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.state(widget))
}

// Logo handles POST (upload) and DELETE (clear) /customizer/logo
func (c *CustomizerController) Logo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.UploadLogo(w, r)
	case http.MethodDelete:
		c.ClearLogo(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// UploadLogo handles POST /customizer/logo with a multipart "logo" file
func (c *CustomizerController) UploadLogo(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UploadLogo: Received %s request to %s", r.Method, r.URL.Path)

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoUploadBytes)
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		log.Printf("❌ UploadLogo: Failed to parse form: %v", err)
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		http.Error(w, "logo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read logo: %v", err), http.StatusBadRequest)
		return
	}

	upload := models.UploadedImage{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	widget := c.lookup(w, r)
	if widget == nil {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	// The upload outlives a client disconnect so the draft never depends on it
	result, err := widget.UploadLogo(context.WithoutCancel(r.Context()), upload)
	if err != nil {
		log.Printf("❌ UploadLogo: %v", err)
		writeDraftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"backgroundRemoved": result.Kind == service.Removed,
		"state":             c.state(widget),
	})
}

// ClearLogo handles DELETE /customizer/logo
func (c *CustomizerController) ClearLogo(w http.ResponseWriter, r *http.Request) {
	widget := c.lookup(w, r)
	if widget == nil {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	if _, err := widget.ClearLogo(); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.state(widget))
}

// Preview handles GET /customizer/preview and returns the composed PNG
func (c *CustomizerController) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	widget := c.lookup(w, r)
	if widget == nil {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	png, err := widget.Preview(r.Context())
	if err != nil {
		writeDraftError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// PreviewLogo handles GET /customizer/preview/logo?h=<handle>
func (c *CustomizerController) PreviewLogo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handle := r.URL.Query().Get("h")
	widget := c.lookup(w, r)
	if widget == nil || !widget.OwnsPreview(handle) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	data, mimeType, err := c.customizer.Previews().Get(handle)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Submit handles POST /customizer/submit
// Example response:
// {
//   "status": "success",
//   "message": "Commande envoyée avec succès !",
//   "order": {"id": "a81f", "status": "pending"}
// }
func (c *CustomizerController) Submit(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Submit: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	visitorID := c.visitors.VisitorID(w, r)
	widget, exists := c.customizer.Lookup(visitorID)
	if !exists {
		writeDraftError(w, service.ErrWidgetClosed)
		return
	}
	session, _ := c.sessions.Current(visitorID)

	order, err := c.orders.Submit(context.WithoutCancel(r.Context()), session, widget)
	if err != nil {
		var pre *service.PreconditionError
		switch {
		case errors.As(err, &pre):
			status := http.StatusBadRequest
			if pre.Reason == service.ReasonNoSession {
				status = http.StatusUnauthorized
			}
			writeJSONError(w, status, pre.Message)
		case errors.Is(err, service.ErrSubmissionInFlight):
			writeJSONError(w, http.StatusConflict, service.MsgOrderInProgress)
		case errors.Is(err, service.ErrWidgetClosed):
			writeDraftError(w, err)
		default:
			writeJSONError(w, http.StatusBadGateway, service.OrderFailureMessage(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.SubmitOrderResponse{
		Status:  "success",
		Message: service.MsgOrderSuccess,
		Order:   order,
	})
}

// Notifications handles GET /notifications and drains the visitor's messages
func (c *CustomizerController) Notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	visitorID := c.visitors.VisitorID(w, r)
	writeJSON(w, http.StatusOK, models.NotificationListResponse{
		Notifications: c.notifier.Drain(visitorID),
	})
}
