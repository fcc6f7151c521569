package websocket

import (
	"github.com/sirupsen/logrus"

	"github.com/ramonehamilton/card-binder/internal/events"
	"github.com/ramonehamilton/card-binder/internal/logging"
)

// WebSocketObserver forwards binder events to WebSocket clients.
type WebSocketObserver struct {
	name string
	hub  *Hub
	log  *logrus.Entry
}

// NewWebSocketObserver creates a new observer that forwards events to WebSocket clients.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{
		name: "WebSocketObserver",
		hub:  hub,
		log:  logging.Component("WebSocketObserver"),
	}
}

// OnEvent forwards the event to all connected WebSocket clients.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		o.log.Warnf("Cannot emit event %s: hub is nil", event.Type)
		return nil
	}

	o.hub.BroadcastEvent(Event{
		Type: event.Type,
		Data: event.Data,
		Time: event.Time,
	})
	o.log.Debugf("Broadcast event to %d clients: %s", o.hub.ClientCount(), event.Type)

	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *WebSocketObserver) ShouldHandle(eventType string) bool {
	return true
}

var _ events.Observer = (*WebSocketObserver)(nil)
