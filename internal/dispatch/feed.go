// Package dispatch owns the in-process notification feed and the
// best-effort fan-out to external gateway channels.
package dispatch

import (
	"sync"
	"time"

	"aqua_project/internal/domain"

	"github.com/google/uuid"
)

// AlertInput is what callers hand to the dispatcher; id, timestamp and
// read state are assigned here
type AlertInput struct {
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Level    domain.Level `json:"level"`
	DeviceID string       `json:"device_id"`
}

// Feed is the in-process, subscribable notification list backing the UI
// bell icon. Newest first, capped, entries are never deleted before the
// cap evicts them, only marked read. Constructed explicitly and passed
// around; there is no package-level instance.
type Feed struct {
	mu          sync.Mutex
	cap         int
	items       []domain.Notification
	subscribers map[string]func([]domain.Notification)
}

// NewFeed creates a feed holding at most capacity notifications
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 200
	}
	return &Feed{
		cap:         capacity,
		subscribers: make(map[string]func([]domain.Notification)),
	}
}

// Add stores a new unread notification at the head of the feed, notifies
// all current subscribers synchronously and returns the stored entity
func (f *Feed) Add(in AlertInput) domain.Notification {
	n := domain.Notification{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Message:   in.Message,
		Level:     in.Level,
		DeviceID:  in.DeviceID,
		Timestamp: time.Now(),
		Read:      false,
	}

	f.mu.Lock()
	f.items = append([]domain.Notification{n}, f.items...)
	if len(f.items) > f.cap {
		f.items = f.items[:f.cap]
	}
	f.mu.Unlock()

	f.notify()
	return n
}

// Subscribe registers a callback invoked with the current feed contents
// on every mutation. The returned unsubscribe func is idempotent.
func (f *Feed) Subscribe(fn func([]domain.Notification)) func() {
	token := uuid.New().String()

	f.mu.Lock()
	f.subscribers[token] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, token)
			f.mu.Unlock()
		})
	}
}

// MarkAsRead marks one notification read in place and re-notifies
// subscribers. Returns false when the id is unknown.
func (f *Feed) MarkAsRead(id string) bool {
	f.mu.Lock()
	found := false
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			found = true
			break
		}
	}
	f.mu.Unlock()

	if found {
		f.notify()
	}
	return found
}

// MarkAllAsRead marks every notification read and returns how many
// changed state
func (f *Feed) MarkAllAsRead() int {
	f.mu.Lock()
	changed := 0
	for i := range f.items {
		if !f.items[i].Read {
			f.items[i].Read = true
			changed++
		}
	}
	f.mu.Unlock()

	if changed > 0 {
		f.notify()
	}
	return changed
}

// UnreadCount returns the number of unread notifications
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// List returns a copy of the feed, newest first
func (f *Feed) List() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// notify snapshots the feed and subscriber set under the lock, then
// invokes callbacks outside it so a subscriber may call back into the
// feed without deadlocking
func (f *Feed) notify() {
	f.mu.Lock()
	snapshot := make([]domain.Notification, len(f.items))
	copy(snapshot, f.items)
	callbacks := make([]func([]domain.Notification), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		callbacks = append(callbacks, fn)
	}
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(snapshot)
	}
}
