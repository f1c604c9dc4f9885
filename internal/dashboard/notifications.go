package dashboard

import (
	"sync"
	"time"
)

// Notification is one entry in the dashboard's transient alert feed.
type Notification struct {
	ID        int64     `json:"id"`
	BookingID string    `json:"booking_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationLog is an append-only, insertion-ordered alert feed with
// bounded retention: once the cap is reached the oldest entries are evicted.
// Entries are never mutated after append.
type NotificationLog struct {
	mu      sync.Mutex
	nextID  int64
	cap     int
	entries []Notification
}

// NewNotificationLog creates a log retaining at most the newest `retention`
// entries.
func NewNotificationLog(retention int) *NotificationLog {
	if retention <= 0 {
		retention = 200
	}
	return &NotificationLog{cap: retention}
}

// Append adds one notification and returns it. Display order is insertion
// order, newest last.
func (l *NotificationLog) Append(bookingID, message string) Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	n := Notification{
		ID:        l.nextID,
		BookingID: bookingID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	l.entries = append(l.entries, n)
	if len(l.entries) > l.cap {
		l.entries = append([]Notification(nil), l.entries[len(l.entries)-l.cap:]...)
	}
	return n
}

// All returns a copy of the retained notifications, oldest first.
func (l *NotificationLog) All() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the number of retained notifications.
func (l *NotificationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
