package controller

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const visitorCookieName = "aynext_session"

// VisitorCookies issues and reads the opaque browser session cookie
type VisitorCookies struct {
	Secure bool
}

// VisitorID returns the visitor id of the request, issuing a new cookie when missing
func (v VisitorCookies) VisitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(visitorCookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   v.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	// Make the id visible to handlers reading the cookie later in this request
	r.AddCookie(&http.Cookie{Name: visitorCookieName, Value: id})
	return id
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

// writeJSONError writes {"status": "error", "message": ...}
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
