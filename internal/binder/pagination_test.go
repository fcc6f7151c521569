package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalViews(t *testing.T) {
	assert.Equal(t, 0, TotalViews(0))
	assert.Equal(t, 1, TotalViews(1))
	assert.Equal(t, 1, TotalViews(18))
	assert.Equal(t, 2, TotalViews(19))
	assert.Equal(t, 2, TotalViews(36))
	assert.Equal(t, 3, TotalViews(37))

	for n := 1; n <= 200; n++ {
		want := (n + 17) / 18
		require.Equal(t, want, TotalViews(n), "n=%d", n)
	}
}

func TestBatches_TwentyCards(t *testing.T) {
	cards := makeCards("c", 20)

	left, right := Batches(cards, 0)
	assert.Equal(t, 0, left.Offset)
	assert.Equal(t, 9, left.Len())
	assert.Equal(t, "c0", left.Cards[0].ID)
	assert.Equal(t, "c8", left.Cards[8].ID)
	assert.Equal(t, 9, right.Offset)
	assert.Equal(t, 9, right.Len())
	assert.Equal(t, "c9", right.Cards[0].ID)
	assert.Equal(t, "c17", right.Cards[8].ID)

	left, right = Batches(cards, 1)
	assert.Equal(t, 18, left.Offset)
	assert.Equal(t, []string{"c18", "c19"}, ids(left.Cards))
	assert.Equal(t, 27, right.Offset)
	assert.Empty(t, right.Cards)
	assert.NotNil(t, right.Cards)
}

func TestBatches_LengthProperty(t *testing.T) {
	for n := 0; n <= 60; n++ {
		cards := makeCards("c", n)
		views := TotalViews(n)
		for v := 0; v < views; v++ {
			left, right := Batches(cards, v)
			want := n - v*SlotsPerSpread
			if want > SlotsPerSpread {
				want = SlotsPerSpread
			}
			if want < 0 {
				want = 0
			}
			require.Equal(t, want, left.Len()+right.Len(), "n=%d view=%d", n, v)
		}
	}
}

func TestBatches_PartitionProperty(t *testing.T) {
	for n := 0; n <= 60; n++ {
		cards := makeCards("c", n)
		seen := make([]int, n)
		for v := 0; v < TotalViews(n); v++ {
			left, right := Batches(cards, v)
			for _, b := range []Batch{left, right} {
				for i, cd := range b.Cards {
					g := b.GlobalIndex(i)
					require.Equal(t, cards[g].ID, cd.ID)
					seen[g]++
				}
			}
		}
		for g, count := range seen {
			require.Equal(t, 1, count, "n=%d index %d seen %d times", n, g, count)
		}
	}
}

func TestBatches_PastEnd(t *testing.T) {
	cards := makeCards("c", 5)
	left, right := Batches(cards, 3)
	assert.Empty(t, left.Cards)
	assert.Empty(t, right.Cards)

	left, right = Batches(cards, -1)
	assert.Empty(t, left.Cards)
	assert.Empty(t, right.Cards)
}

func TestBatches_ReturnsCopies(t *testing.T) {
	cards := makeCards("c", 3)
	left, _ := Batches(cards, 0)
	left.Cards[0].ID = "changed"
	assert.Equal(t, "c0", cards[0].ID)
}

func TestViewBoundaries(t *testing.T) {
	assert.True(t, IsFirstView(0))
	assert.False(t, IsFirstView(1))

	assert.True(t, IsLastView(0, 0))
	assert.True(t, IsLastView(0, 18))
	assert.False(t, IsLastView(0, 19))
	assert.True(t, IsLastView(1, 19))

	assert.Equal(t, 0, LastView(0))
	assert.Equal(t, 0, LastView(18))
	assert.Equal(t, 1, LastView(19))
}

func TestComputeSpread(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := ComputeSpread(nil, ViewState{})
		assert.True(t, s.Empty)
		assert.Equal(t, 0, s.TotalViews)
		assert.Equal(t, EmptyIndicator, s.Indicator)
		assert.False(t, s.CanPrev)
		assert.False(t, s.CanNext)
		assert.Empty(t, s.Left.Cards)
		assert.Empty(t, s.Right.Cards)
	})

	t.Run("middle view", func(t *testing.T) {
		s := ComputeSpread(makeCards("c", 40), ViewState{ViewIndex: 1})
		assert.False(t, s.Empty)
		assert.Equal(t, 3, s.TotalViews)
		assert.Equal(t, "Page 2 of 3", s.Indicator)
		assert.True(t, s.CanPrev)
		assert.True(t, s.CanNext)
	})

	t.Run("single view", func(t *testing.T) {
		s := ComputeSpread(makeCards("c", 3), ViewState{})
		assert.Equal(t, "Page 1 of 1", s.Indicator)
		assert.False(t, s.CanPrev)
		assert.False(t, s.CanNext)
	})
}

func TestViewState_Target(t *testing.T) {
	v := ViewState{}
	_, ok := v.Target(Prev, 20)
	assert.False(t, ok)

	next, ok := v.Target(Next, 20)
	assert.True(t, ok)
	assert.Equal(t, 1, next)

	_, ok = ViewState{ViewIndex: 1}.Target(Next, 20)
	assert.False(t, ok)

	_, ok = v.Target(Next, 0)
	assert.False(t, ok)

	assert.False(t, ViewState{Locked: true}.CanTransition(Next, 40))
	assert.False(t, v.CanTransition(Direction(2), 40))
	assert.True(t, v.CanTransition(Next, 40))
}

func TestViewState_Clamp(t *testing.T) {
	assert.Equal(t, 0, ViewState{ViewIndex: 5}.Clamp(0).ViewIndex)
	assert.Equal(t, 1, ViewState{ViewIndex: 5}.Clamp(20).ViewIndex)
	assert.Equal(t, 0, ViewState{ViewIndex: -2}.Clamp(20).ViewIndex)
}

func TestDirection(t *testing.T) {
	assert.True(t, Prev.Valid())
	assert.True(t, Next.Valid())
	assert.False(t, Direction(0).Valid())
	assert.False(t, Direction(2).Valid())
	assert.Equal(t, "next", Next.String())
	assert.Equal(t, "prev", Prev.String())
	assert.Equal(t, "invalid", Direction(3).String())
}
