package models

import "time"

// Session represents an authenticated visitor
type Session struct {
	VisitorID string    `json:"-"`
	Token     string    `json:"-"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationLevel is the severity of a transient user message
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a transient message shown to the visitor
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NotificationListResponse represents the response for GET /notifications
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
}
