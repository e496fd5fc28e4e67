package router

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/app/controller"
)

type Controllers struct {
	Page       *controller.PageController
	Auth       *controller.AuthController
	Customizer *controller.CustomizerController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// statusRecorder keeps the response status for the access log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withAccessLog logs method, path, status and duration of every request
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		entry := log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		})
		if rec.status >= 400 {
			entry.Warn("Request failed")
		} else {
			entry.Debug("Request processed")
		}
	})
}

// SetupRoutes registers every storefront route and returns the logged handler
func SetupRoutes(controllers *Controllers) http.Handler {
	mux := http.NewServeMux()

	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Pages
	mux.HandleFunc("/", controllers.Page.Home)
	mux.HandleFunc("/login", controllers.Page.Login)

	// Auth
	mux.HandleFunc("/auth/callback", controllers.Auth.Callback)
	mux.HandleFunc("/logout", controllers.Auth.Logout)

	// Transient messages
	mux.HandleFunc("/notifications", controllers.Customizer.Notifications)

	// Customizer widget
	mux.HandleFunc("/customizer", controllers.Customizer.GetState)
	mux.HandleFunc("/customizer/open", controllers.Customizer.Open)
	mux.HandleFunc("/customizer/close", controllers.Customizer.Close)
	mux.HandleFunc("/customizer/trigger", controllers.Customizer.FireTrigger)
	mux.HandleFunc("/customizer/color", controllers.Customizer.UpdateColor)
	mux.HandleFunc("/customizer/position", controllers.Customizer.UpdatePosition)
	mux.HandleFunc("/customizer/size", controllers.Customizer.UpdateSize)
	mux.HandleFunc("/customizer/logo", controllers.Customizer.Logo)
	mux.HandleFunc("/customizer/preview", controllers.Customizer.Preview)
	mux.HandleFunc("/customizer/preview/logo", controllers.Customizer.PreviewLogo)
	mux.HandleFunc("/customizer/submit", controllers.Customizer.Submit)

	return withAccessLog(mux)
}
