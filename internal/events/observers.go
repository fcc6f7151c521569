package events

import (
	"github.com/sirupsen/logrus"

	"github.com/ramonehamilton/card-binder/internal/logging"
)

// LoggingObserver logs all events for debugging purposes.
type LoggingObserver struct {
	name    string
	verbose bool
	log     *logrus.Entry
}

// NewLoggingObserver creates a new observer that logs events.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{
		name:    "LoggingObserver",
		verbose: verbose,
		log:     logging.Component("LoggingObserver"),
	}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		o.log.WithField("data", event.Data).Debugf("Event: %s", event.Type)
	} else {
		o.log.Debugf("Event: %s", event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events (logs everything).
func (o *LoggingObserver) ShouldHandle(eventType string) bool {
	return true
}

// ChannelObserver forwards events into a buffered channel so a consumer running
// its own loop (such as the terminal UI) can pick them up without blocking dispatch.
type ChannelObserver struct {
	name   string
	types  map[string]bool
	events chan Event
}

// NewChannelObserver creates an observer with the given buffer size. With no
// types given, every event is forwarded.
func NewChannelObserver(name string, buffer int, types ...string) *ChannelObserver {
	filter := make(map[string]bool, len(types))
	for _, t := range types {
		filter[t] = true
	}
	return &ChannelObserver{
		name:   name,
		types:  filter,
		events: make(chan Event, buffer),
	}
}

// OnEvent queues the event. When the buffer is full the oldest event is dropped
// so the newest state always gets through.
func (o *ChannelObserver) OnEvent(event Event) error {
	for {
		select {
		case o.events <- event:
			return nil
		default:
		}
		select {
		case <-o.events:
			logging.Component(o.name).Warnf("Event buffer full, dropped oldest event before %s", event.Type)
		default:
		}
	}
}

// Events returns the receive side of the queue.
func (o *ChannelObserver) Events() <-chan Event {
	return o.events
}

// GetName returns the observer's name.
func (o *ChannelObserver) GetName() string {
	return o.name
}

// ShouldHandle filters by the configured event types.
func (o *ChannelObserver) ShouldHandle(eventType string) bool {
	return len(o.types) == 0 || o.types[eventType]
}
