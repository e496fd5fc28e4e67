package service

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
)

const maxFlashNotifications = 20

// NotifierInterface delivers transient messages to a visitor, fire-and-forget
type NotifierInterface interface {
	Notify(visitorID string, level models.NotificationLevel, message string)
}

// FlashNotifier queues notifications per visitor until they are drained
// Implements NotifierInterface
type FlashNotifier struct {
	mu     sync.Mutex
	queues map[string][]models.Notification
}

// Ensure FlashNotifier implements NotifierInterface
var _ NotifierInterface = (*FlashNotifier)(nil)

// NewFlashNotifier creates an empty FlashNotifier
func NewFlashNotifier() *FlashNotifier {
	return &FlashNotifier{queues: make(map[string][]models.Notification)}
}

// Notify queues a message, keeping only the most recent ones
func (n *FlashNotifier) Notify(visitorID string, level models.NotificationLevel, message string) {
	log.WithFields(log.Fields{"visitor": visitorID, "level": level}).Info(message)

	n.mu.Lock()
	defer n.mu.Unlock()
	queue := append(n.queues[visitorID], models.Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(queue) > maxFlashNotifications {
		queue = queue[len(queue)-maxFlashNotifications:]
	}
	n.queues[visitorID] = queue
}

// Drain returns and clears the visitor's queued notifications
func (n *FlashNotifier) Drain(visitorID string) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	queue := n.queues[visitorID]
	delete(n.queues, visitorID)
	if queue == nil {
		return []models.Notification{}
	}
	return queue
}

// Forget drops the visitor's queued notifications
func (n *FlashNotifier) Forget(visitorID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.queues, visitorID)
}
