package binder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/card-binder/internal/events"
)

func TestController_StartRendersEmptyState(t *testing.T) {
	c, _, rec := newTestController(nil, true)
	c.Start()

	spread, ok := lastPayload[Spread](rec, events.TypeRender)
	require.True(t, ok)
	assert.True(t, spread.Empty)
	assert.Equal(t, EmptyIndicator, spread.Indicator)
	assert.Equal(t, c.ID(), spread.BinderID)
}

func TestController_EmptyNavigationRejected(t *testing.T) {
	c, clock, rec := newTestController(nil, true)

	for _, d := range []Direction{Prev, Next} {
		accepted, err := c.RequestPageChange(d)
		require.NoError(t, err)
		assert.False(t, accepted)
	}
	assert.Equal(t, ViewState{}, c.View())
	assert.Equal(t, 0, clock.scheduled())
	assert.Empty(t, rec.ofType(events.TypeFlip))
}

func TestController_InvalidDirection(t *testing.T) {
	c, clock, _ := newTestController(nil, true)
	fill(c, 40)

	for _, d := range []Direction{0, 2, -2} {
		accepted, err := c.RequestPageChange(d)
		assert.ErrorIs(t, err, ErrInvalidDirection)
		assert.False(t, accepted)
	}
	assert.Equal(t, 0, clock.scheduled())
}

func TestController_TwoPhaseFlip(t *testing.T) {
	c, clock, rec := newTestController(nil, true)
	fill(c, 20)

	// Appends jump to the last view; go back to the start first.
	accepted, err := c.RequestPageChange(Prev)
	require.NoError(t, err)
	require.True(t, accepted)
	clock.fire()
	require.Equal(t, 0, c.View().ViewIndex)
	rec.reset()

	accepted, err = c.RequestPageChange(Next)
	require.NoError(t, err)
	require.True(t, accepted)

	// Begin phase: locked, flip announced, content not yet changed.
	assert.Equal(t, ViewState{ViewIndex: 0, Locked: true}, c.View())
	assert.Equal(t, []string{events.TypeFlip}, rec.types())
	flip, ok := lastPayload[FlipBegan](rec, events.TypeFlip)
	require.True(t, ok)
	assert.Equal(t, Next, flip.Direction)
	assert.Equal(t, 0, flip.From)
	assert.Equal(t, 1, flip.To)
	assert.NotEmpty(t, flip.FlipID)

	timers := clock.active()
	require.Len(t, timers, 1)
	assert.Equal(t, DefaultFlipDelay, timers[0].d)

	// Commit phase.
	clock.fire()
	assert.Equal(t, ViewState{ViewIndex: 1, Locked: false}, c.View())
	assert.Equal(t, []string{events.TypeFlip, events.TypeRender}, rec.types())

	spread, ok := lastPayload[Spread](rec, events.TypeRender)
	require.True(t, ok)
	assert.Equal(t, 18, spread.Left.Offset)
	assert.Equal(t, []string{"c18", "c19"}, ids(spread.Left.Cards))
	assert.Empty(t, spread.Right.Cards)
	assert.False(t, spread.Locked)
	assert.True(t, spread.CanPrev)
	assert.False(t, spread.CanNext)
	assert.Equal(t, "Page 2 of 2", spread.Indicator)
}

func TestController_LockedRequestsAreNoOps(t *testing.T) {
	c, clock, rec := newTestController(nil, true)
	fill(c, 60) // views 0..3, cursor on 3

	accepted, err := c.RequestPageChange(Prev)
	require.NoError(t, err)
	require.True(t, accepted)
	before := c.View()
	scheduled := clock.scheduled()
	flips := len(rec.ofType(events.TypeFlip))

	for _, d := range []Direction{Prev, Next, Prev} {
		accepted, err := c.RequestPageChange(d)
		require.NoError(t, err)
		assert.False(t, accepted)
	}

	assert.Equal(t, before, c.View())
	assert.Equal(t, scheduled, clock.scheduled(), "no second timer may start while locked")
	assert.Len(t, rec.ofType(events.TypeFlip), flips)

	clock.fire()
	assert.Equal(t, ViewState{ViewIndex: 2}, c.View())
}

func TestController_BoundaryIdempotence(t *testing.T) {
	c, clock, _ := newTestController(nil, true)
	fill(c, 30) // two views, cursor on the last

	last := c.View()
	require.Equal(t, 1, last.ViewIndex)
	accepted, err := c.RequestPageChange(Next)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, last, c.View())

	accepted, _ = c.RequestPageChange(Prev)
	require.True(t, accepted)
	clock.fire()
	require.Equal(t, 0, c.View().ViewIndex)

	accepted, err = c.RequestPageChange(Prev)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, ViewState{}, c.View())
}

func TestController_AppendJumpsToLastView(t *testing.T) {
	c, _, rec := newTestController(nil, true)

	for n := 1; n <= 40; n++ {
		index := c.Append(makeCard("n"))
		require.Equal(t, n-1, index)

		view := c.View()
		require.Equal(t, TotalViews(n)-1, view.ViewIndex)

		spread, ok := lastPayload[Spread](rec, events.TypeRender)
		require.True(t, ok)
		start := SpreadStart(spread.ViewIndex)
		assert.True(t, index >= start && index < start+SlotsPerSpread,
			"index %d not visible in view %d", index, spread.ViewIndex)
	}
}

func TestController_AppendCancelsInFlightFlip(t *testing.T) {
	c, clock, _ := newTestController(nil, true)
	fill(c, 40) // views 0..2, cursor on 2

	accepted, _ := c.RequestPageChange(Prev)
	require.True(t, accepted)
	timers := clock.active()
	require.Len(t, timers, 1)

	c.Append(makeCard("new"))
	assert.True(t, timers[0].stopped)
	assert.Equal(t, ViewState{ViewIndex: 2}, c.View())

	// A late commit from the cancelled flip must not move the cursor.
	timers[0].f()
	assert.Equal(t, ViewState{ViewIndex: 2}, c.View())
}

func TestController_ReplaceAtKeepsIndices(t *testing.T) {
	c, _, rec := newTestController(nil, true)
	fill(c, 10)
	rec.reset()

	require.NoError(t, c.ReplaceAt(5, makeCard("x")))
	assert.Equal(t, 10, c.Len())

	got, err := c.Card(5)
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
	for j, cd := range c.Cards() {
		if j != 5 {
			assert.Equal(t, makeCards("c", 10)[j].ID, cd.ID)
		}
	}
	assert.Equal(t, []string{events.TypeRender}, rec.types())

	err = c.ReplaceAt(10, makeCard("y"))
	assert.True(t, IsIndexOutOfRange(err))
}

func TestController_ClearResets(t *testing.T) {
	c, clock, rec := newTestController(nil, true)
	fill(c, 40)
	_, _ = c.RequestPageChange(Prev)
	require.True(t, c.View().Locked)

	c.Clear()
	assert.Equal(t, ViewState{}, c.View())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, clock.active())

	spread, ok := lastPayload[Spread](rec, events.TypeRender)
	require.True(t, ok)
	assert.True(t, spread.Empty)
}

func TestController_SetFlipDelay(t *testing.T) {
	c, clock, _ := newTestController(nil, true)
	fill(c, 20)

	c.SetFlipDelay(50 * time.Millisecond)
	c.SetFlipDelay(-1)
	_, _ = c.RequestPageChange(Prev)

	timers := clock.active()
	require.Len(t, timers, 1)
	assert.Equal(t, 50*time.Millisecond, timers[0].d)
}

func TestController_ZeroFlipDelayUsesDefault(t *testing.T) {
	clock := &fakeClock{}
	c := NewController(Options{Clock: clock})
	defer c.Close()
	fill(c, 20)

	_, _ = c.RequestPageChange(Prev)
	timers := clock.active()
	require.Len(t, timers, 1)
	assert.Equal(t, DefaultFlipDelay, timers[0].d)
	clock.fire()

	c.SetFlipDelay(50 * time.Millisecond)
	c.SetFlipDelay(0)
	_, _ = c.RequestPageChange(Next)
	timers = clock.active()
	require.Len(t, timers, 1)
	assert.Equal(t, DefaultFlipDelay, timers[0].d)
}

func TestController_SnapshotMatchesRender(t *testing.T) {
	c, _, rec := newTestController(nil, true)
	fill(c, 25)

	spread, ok := lastPayload[Spread](rec, events.TypeRender)
	require.True(t, ok)
	assert.Equal(t, spread, c.Snapshot())
}
