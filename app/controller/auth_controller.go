package controller

import (
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/service"
)

// AuthController handles the OAuth callback and logout
type AuthController struct {
	sessions   *service.SessionService
	customizer *service.CustomizerService
	visitors   VisitorCookies
}

// NewAuthController creates a new AuthController
func NewAuthController(sessions *service.SessionService, customizer *service.CustomizerService, visitors VisitorCookies) *AuthController {
	return &AuthController{
		sessions:   sessions,
		customizer: customizer,
		visitors:   visitors,
	}
}

// Callback handles GET /auth/callback?token=...&name=...&email=...
// The backend redirects here after the OAuth provider flow
func (c *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	if errMsg := query.Get("error"); errMsg != "" {
		log.Printf("❌ OAuth callback error: %s", errMsg)
		http.Redirect(w, r, "/login?error="+url.QueryEscape(errMsg), http.StatusFound)
		return
	}

	token := strings.TrimSpace(query.Get("token"))
	if token == "" {
		log.Printf("❌ OAuth callback without token")
		http.Redirect(w, r, "/login?error="+url.QueryEscape("missing_token"), http.StatusFound)
		return
	}

	visitorID := c.visitors.VisitorID(w, r)
	c.sessions.Login(visitorID, token, query.Get("name"), query.Get("email"))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles POST /logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	visitorID := c.visitors.VisitorID(w, r)
	c.sessions.Logout(visitorID)
	c.customizer.Drop(visitorID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
