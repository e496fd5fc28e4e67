package service

import (
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
)

// SessionProviderInterface exposes the current authenticated identity of a visitor
type SessionProviderInterface interface {
	Current(visitorID string) (*models.Session, bool)
}

// SessionService keeps authenticated sessions in memory, keyed by visitor id
// Implements SessionProviderInterface
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// Ensure SessionService implements SessionProviderInterface
var _ SessionProviderInterface = (*SessionService)(nil)

// NewSessionService creates an empty SessionService
func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

// Login attaches an identity to a visitor, as done by the OAuth callback
func (s *SessionService) Login(visitorID, token, userName, email string) *models.Session {
	session := &models.Session{
		VisitorID: visitorID,
		Token:     token,
		UserName:  strings.TrimSpace(userName),
		Email:     strings.TrimSpace(email),
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.sessions[visitorID] = session
	s.mu.Unlock()
	log.Printf("🔐 Session established for visitor %s (%s)", visitorID, session.UserName)
	return session
}

// Logout drops the visitor's session
func (s *SessionService) Logout(visitorID string) bool {
	s.mu.Lock()
	_, exists := s.sessions[visitorID]
	delete(s.sessions, visitorID)
	s.mu.Unlock()
	if exists {
		log.Printf("👋 Session dropped for visitor %s", visitorID)
	}
	return exists
}

// Current returns a copy of the visitor's session
func (s *SessionService) Current(visitorID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[visitorID]
	if !exists {
		return nil, false
	}
	copied := *session
	return &copied, true
}

// Expire drops sessions established more than ttl ago and returns how many were dropped
func (s *SessionService) Expire(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for visitorID, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, visitorID)
			dropped++
		}
	}
	if dropped > 0 {
		log.Printf("🧹 Expired %d session(s)", dropped)
	}
	return dropped
}
