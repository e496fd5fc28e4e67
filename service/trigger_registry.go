package service

import "sync"

const (
	TriggerEscape = "escape"
	TriggerBack   = "back"
)

type triggerEntry struct {
	token   uint64
	handler func()
}

// TriggerRegistry maps named UI triggers (escape key, back navigation) to handlers
// Registrations are scoped: Register returns the release func that unwires it
type TriggerRegistry struct {
	mu       sync.Mutex
	next     uint64
	handlers map[string]triggerEntry
}

// NewTriggerRegistry creates an empty TriggerRegistry
func NewTriggerRegistry() *TriggerRegistry {
	return &TriggerRegistry{handlers: make(map[string]triggerEntry)}
}

// Register wires handler to name, replacing any previous handler.
// The returned release only removes this registration and is safe to call more than once.
func (r *TriggerRegistry) Register(name string, handler func()) func() {
	r.mu.Lock()
	r.next++
	token := r.next
	r.handlers[name] = triggerEntry{token: token, handler: handler}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if entry, exists := r.handlers[name]; exists && entry.token == token {
				delete(r.handlers, name)
			}
		})
	}
}

// Fire runs the handler wired to name and reports whether one was wired
// The handler runs outside the registry lock so it may release registrations
func (r *TriggerRegistry) Fire(name string) bool {
	r.mu.Lock()
	entry, exists := r.handlers[name]
	r.mu.Unlock()
	if !exists {
		return false
	}
	entry.handler()
	return true
}

// Active reports whether a handler is wired to name
func (r *TriggerRegistry) Active(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.handlers[name]
	return exists
}

// Len returns the number of wired triggers
func (r *TriggerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}
