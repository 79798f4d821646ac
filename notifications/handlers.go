package notifications

import (
	"fmt"
	"net/http"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/web"
)

// Handlers exposes the notification stream over HTTP.
type Handlers struct {
	broadcaster *Broadcaster
	respond     *web.Responder
}

// NewHandlers creates the notification Handlers.
func NewHandlers(broadcaster *Broadcaster, respond *web.Responder) *Handlers {
	return &Handlers{broadcaster: broadcaster, respond: respond}
}

// HandleStream godoc
// @Summary Notification stream
// @Description Streams platform events to the client as Server-Sent Events.
// @Tags Notifications
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *Handlers) HandleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			h.respond.Error(w, r, apperror.NewInternalError("streaming not supported", nil))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		clientID, events := h.broadcaster.Subscribe()
		defer h.broadcaster.Unsubscribe(clientID)

		// Initial comment line so proxies start forwarding the stream.
		fmt.Fprintf(w, ": connected %s\n\n", clientID)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-events:
				if !open {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Encode())
				flusher.Flush()
			}
		}
	}
}
