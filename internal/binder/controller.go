package binder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ramonehamilton/card-binder/internal/card"
	"github.com/ramonehamilton/card-binder/internal/events"
	"github.com/ramonehamilton/card-binder/internal/logging"
)

// DefaultFlipDelay is how long a page flip settles before the new spread is committed.
const DefaultFlipDelay = 300 * time.Millisecond

// Dispatcher receives binder events. *events.EventDispatcher implements it.
type Dispatcher interface {
	Dispatch(event events.Event)
}

// State is the binder's complete mutable state: the collection and its cursor.
type State struct {
	Cards *Collection
	View  ViewState
}

// Options configures a Controller.
type Options struct {
	Source     DataSource
	Dispatcher Dispatcher
	Clock      Clock

	// FlipDelay is the settle time of a page flip. Zero or negative means
	// DefaultFlipDelay.
	FlipDelay time.Duration

	// DiscardStaleResults drops search and reprint responses that arrive after a
	// newer request was issued. When false, responses apply in arrival order.
	DiscardStaleResults bool

	// Context bounds data source requests. Defaults to context.Background().
	Context context.Context
}

type pendingFlip struct {
	id     string
	token  uint64
	target int
	timer  Timer
}

type searchState struct {
	token    uint64
	query    string
	pending  bool
	notFound bool
	failed   string
	results  []card.Card
}

type detailsState struct {
	open     bool
	index    int
	card     card.Card
	token    uint64
	pending  bool
	reprints []card.Card

	// reprintsFor is the slot whose lookup produced reprints. It differs from
	// index only when a late lookup lands in arrival-order mode.
	reprintsFor int
}

// Controller owns a binder's State and funnels every mutation through its
// methods. Each mutation recomputes the spread and dispatches events while the
// state lock is held, so observers never see a collection/cursor pair that
// violates the pagination invariants. Observers must not call back into the
// Controller from OnEvent.
type Controller struct {
	mu    sync.Mutex
	id    string
	state State

	source       DataSource
	dispatcher   Dispatcher
	clock        Clock
	flipDelay    time.Duration
	discardStale bool

	flip    *pendingFlip
	flipSeq uint64

	search    searchState
	searchSeq uint64

	details    detailsState
	detailsSeq uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logrus.Entry
}

// NewController creates a controller over an empty binder.
func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.FlipDelay <= 0 {
		opts.FlipDelay = DefaultFlipDelay
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	id := uuid.NewString()
	return &Controller{
		id:           id,
		state:        State{Cards: NewCollection()},
		source:       opts.Source,
		dispatcher:   opts.Dispatcher,
		clock:        opts.Clock,
		flipDelay:    opts.FlipDelay,
		discardStale: opts.DiscardStaleResults,
		ctx:          ctx,
		cancel:       cancel,
		log:          logging.Component("Controller").WithField("binder", id),
	}
}

// ID returns the binder's identifier.
func (c *Controller) ID() string {
	return c.id
}

// Start dispatches the initial (empty) spread.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked()
}

// Close cancels pending flips and data requests and waits for in-flight
// resolutions to return.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelFlipLocked()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// Wait blocks until every in-flight data resolution has been applied or dropped.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// SetFlipDelay changes the settle delay used by subsequent flips. Zero restores
// DefaultFlipDelay; negative values are ignored.
func (c *Controller) SetFlipDelay(d time.Duration) {
	if d < 0 {
		return
	}
	if d == 0 {
		d = DefaultFlipDelay
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if d != c.flipDelay {
		c.log.Infof("Flip delay changed from %s to %s", c.flipDelay, d)
	}
	c.flipDelay = d
}

// Snapshot returns the current spread.
func (c *Controller) Snapshot() Spread {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spreadLocked()
}

// View returns a copy of the cursor.
func (c *Controller) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.View
}

// Len returns the number of cards in the binder.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Cards.Len()
}

// Card returns the card at a global index.
func (c *Controller) Card(index int) (card.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Cards.At(index)
}

// Cards returns a copy of every card in order.
func (c *Controller) Cards() []card.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Cards.Cards()
}

// RequestPageChange starts a page flip. It returns false without error when the
// flip is rejected because another flip is settling or the edge was reached.
// The new spread is committed FlipDelay later.
func (c *Controller) RequestPageChange(d Direction) (bool, error) {
	if !d.Valid() {
		return false, ErrInvalidDirection
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.View.Locked {
		c.log.Debugf("Page change %s ignored: flip in progress", d)
		return false, nil
	}

	target, ok := c.state.View.Target(d, c.state.Cards.Len())
	if !ok {
		c.log.Debugf("Page change %s ignored: edge reached at view %d", d, c.state.View.ViewIndex)
		return false, nil
	}

	c.flipSeq++
	flip := &pendingFlip{
		id:     uuid.NewString(),
		token:  c.flipSeq,
		target: target,
	}
	c.flip = flip
	c.state.View.Locked = true

	c.dispatchLocked(events.TypeFlip, FlipBegan{
		BinderID:  c.id,
		FlipID:    flip.id,
		Direction: d,
		From:      c.state.View.ViewIndex,
		To:        target,
	})

	token := flip.token
	flip.timer = c.clock.AfterFunc(c.flipDelay, func() { c.commitFlip(token) })
	return true, nil
}

// commitFlip is the second phase of a page change. Commits for a flip that has
// since been cancelled or superseded are ignored.
func (c *Controller) commitFlip(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flip == nil || c.flip.token != token {
		return
	}
	target := c.flip.target
	c.flip = nil

	c.state.View = ViewState{ViewIndex: target}.Clamp(c.state.Cards.Len())
	c.renderLocked()
}

// Append adds a card at the end of the binder and jumps to the last view so the
// new card is visible. Returns the card's global index.
func (c *Controller) Append(cd card.Card) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(cd)
}

func (c *Controller) appendLocked(cd card.Card) int {
	index := c.state.Cards.Append(cd)
	c.cancelFlipLocked()
	c.state.View = ViewState{ViewIndex: LastView(c.state.Cards.Len())}
	c.renderLocked()
	c.log.Debugf("Appended %q at index %d", cd.Name, index)
	return index
}

// ReplaceAt swaps the card at index and re-renders the current spread.
func (c *Controller) ReplaceAt(index int, cd card.Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replaceLocked(index, cd)
}

func (c *Controller) replaceLocked(index int, cd card.Card) error {
	if err := c.state.Cards.ReplaceAt(index, cd); err != nil {
		return err
	}
	c.renderLocked()
	return nil
}

// Clear empties the binder and resets the cursor to the first view.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelFlipLocked()
	c.state.Cards.Clear()
	c.state.View = ViewState{}
	if c.details.open {
		c.closeDetailsLocked()
	}
	c.renderLocked()
}

func (c *Controller) cancelFlipLocked() {
	if c.flip == nil {
		return
	}
	if c.flip.timer != nil {
		c.flip.timer.Stop()
	}
	c.log.Debugf("Cancelled flip %s", c.flip.id)
	c.flip = nil
	c.state.View.Locked = false
}

func (c *Controller) spreadLocked() Spread {
	s := ComputeSpread(c.state.Cards.view(), c.state.View)
	s.BinderID = c.id
	return s
}

func (c *Controller) renderLocked() {
	c.dispatchLocked(events.TypeRender, c.spreadLocked())
}

func (c *Controller) dispatchLocked(eventType string, payload any) {
	if c.dispatcher == nil {
		return
	}
	c.dispatcher.Dispatch(events.NewTypedEvent(c.ctx, eventType, payload))
}
