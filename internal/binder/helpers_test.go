package binder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ramonehamilton/card-binder/internal/card"
	"github.com/ramonehamilton/card-binder/internal/events"
)

func makeCard(id string) card.Card {
	return card.Card{
		ID:        id,
		Name:      "Card " + id,
		ImageURIs: &card.ImageURIs{Normal: id + ".jpg", Small: id + "-s.jpg", PNG: id + ".png"},
	}
}

func makeCards(prefix string, n int) []card.Card {
	out := make([]card.Card, n)
	for i := range out {
		out[i] = makeCard(fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func ids(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock records scheduled continuations; tests fire them explicitly.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) active() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// fire runs every pending continuation, as if the settle delay elapsed.
func (c *fakeClock) fire() {
	for _, t := range c.active() {
		t.fired = true
		t.f()
	}
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Dispatch(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) ofType(t string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func lastPayload[T any](r *recorder, eventType string) (T, bool) {
	evs := r.ofType(eventType)
	if len(evs) == 0 {
		var zero T
		return zero, false
	}
	return events.GetTypedData[T](evs[len(evs)-1])
}

type sourceResult struct {
	cards []card.Card
	err   error
}

// fakeSource answers from fixed tables. A gate registered for a key blocks that
// request until the gate is closed, letting tests choose arrival order.
type fakeSource struct {
	mu           sync.Mutex
	search       map[string]sourceResult
	reprints     map[string]sourceResult
	gates        map[string]chan struct{}
	reprintCalls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		search:   make(map[string]sourceResult),
		reprints: make(map[string]sourceResult),
		gates:    make(map[string]chan struct{}),
	}
}

func (f *fakeSource) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeSource) wait(ctx context.Context, key string) {
	f.mu.Lock()
	ch := f.gates[key]
	f.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]card.Card, error) {
	f.wait(ctx, query)
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.search[query]
	if !ok {
		return nil, ErrNotFound
	}
	return res.cards, res.err
}

func (f *fakeSource) ResolveReprints(ctx context.Context, handle string) ([]card.Card, error) {
	f.mu.Lock()
	f.reprintCalls = append(f.reprintCalls, handle)
	f.mu.Unlock()

	f.wait(ctx, handle)
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reprints[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return res.cards, res.err
}

func newTestController(src DataSource, discardStale bool) (*Controller, *fakeClock, *recorder) {
	clock := &fakeClock{}
	rec := &recorder{}
	c := NewController(Options{
		Source:              src,
		Dispatcher:          rec,
		Clock:               clock,
		FlipDelay:           DefaultFlipDelay,
		DiscardStaleResults: discardStale,
	})
	return c, clock, rec
}

func fill(c *Controller, n int) {
	for _, cd := range makeCards("c", n) {
		c.Append(cd)
	}
}

func runtimeYield() {
	time.Sleep(time.Millisecond)
}
