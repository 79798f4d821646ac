// Package notifications fans platform events out to connected clients over
// Server-Sent Events. Services publish through the Broadcaster and every
// subscribed client receives the event on its own buffered channel.
package notifications

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a single notification pushed to subscribers.
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CourseID  string    `json:"courseId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Encode renders the event payload as JSON for the SSE data field.
func (e Event) Encode() string {
	b, err := json.Marshal(e)
	if err != nil {
		return `{"type":"error"}`
	}
	return string(b)
}

// Broadcaster manages subscriber channels and event fan-out.
type Broadcaster struct {
	clients map[string]chan Event
	mu      sync.RWMutex
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[string]chan Event),
	}
}

// Subscribe registers a new client and returns its id and event channel.
// The channel is buffered so slow readers never block publishers.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clientID := uuid.NewString()
	ch := make(chan Event, 32)
	b.clients[clientID] = ch
	return clientID, ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broadcaster) Unsubscribe(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.clients[clientID]; ok {
		close(ch)
		delete(b.clients, clientID)
	}
}

// Publish delivers the event to every subscriber. Clients whose buffers are
// full miss the event rather than stalling the publisher.
func (b *Broadcaster) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.clients {
		select {
		case ch <- event:
		default:
			log.Printf("notifications: dropping event for slow client %s", id)
		}
	}
}

// ClientCount reports the number of connected subscribers.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// CoursePublished notifies subscribers that a new course went live. It
// satisfies the Notifier interface the course service depends on.
func (b *Broadcaster) CoursePublished(courseID, title string) {
	b.Publish(Event{
		Type:      "course.published",
		Message:   "new course published: " + title,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	})
}
