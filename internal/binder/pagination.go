package binder

import (
	"fmt"

	"github.com/ramonehamilton/card-binder/internal/card"
)

const (
	// SlotsPerPage is the number of card slots on one binder page.
	SlotsPerPage = 9

	// SlotsPerSpread is the number of slots visible at once (two facing pages).
	SlotsPerSpread = 2 * SlotsPerPage

	// EmptyIndicator is shown instead of a page number when the binder holds no cards.
	EmptyIndicator = "Empty binder"
)

// Batch is the run of cards shown on one page, with the global index of its first slot.
type Batch struct {
	Offset int         `json:"offset"`
	Cards  []card.Card `json:"cards"`
}

// GlobalIndex returns the collection index of the i-th card in the batch.
func (b Batch) GlobalIndex(i int) int {
	return b.Offset + i
}

// Len returns the number of cards in the batch.
func (b Batch) Len() int {
	return len(b.Cards)
}

// Spread is a fully computed view of one two-page spread.
type Spread struct {
	BinderID   string `json:"binder_id,omitempty"`
	ViewIndex  int    `json:"view_index"`
	TotalViews int    `json:"total_views"`
	Count      int    `json:"count"`
	Left       Batch  `json:"left"`
	Right      Batch  `json:"right"`
	Locked     bool   `json:"locked"`
	CanPrev    bool   `json:"can_prev"`
	CanNext    bool   `json:"can_next"`
	Empty      bool   `json:"empty"`
	Indicator  string `json:"indicator"`
}

// TotalViews returns ceil(n / SlotsPerSpread); zero cards means zero views.
func TotalViews(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + SlotsPerSpread - 1) / SlotsPerSpread
}

// LastView returns the index of the last view, or 0 for an empty binder.
func LastView(n int) int {
	if total := TotalViews(n); total > 0 {
		return total - 1
	}
	return 0
}

// SpreadStart returns the global index of the first slot of a view.
func SpreadStart(viewIndex int) int {
	return viewIndex * SlotsPerSpread
}

// IsFirstView reports whether viewIndex is the first view.
func IsFirstView(viewIndex int) bool {
	return viewIndex == 0
}

// IsLastView reports whether viewIndex is the last view of an n-card binder.
// An empty binder is always on its last view.
func IsLastView(viewIndex, n int) bool {
	if n == 0 {
		return true
	}
	return viewIndex == TotalViews(n)-1
}

// Batches slices the left and right page of a view. Slicing past the end yields
// shorter or empty batches. The returned cards are copies.
func Batches(cards []card.Card, viewIndex int) (left, right Batch) {
	start := SpreadStart(viewIndex)
	left = Batch{Offset: start, Cards: window(cards, start, start+SlotsPerPage)}
	right = Batch{Offset: start + SlotsPerPage, Cards: window(cards, start+SlotsPerPage, start+SlotsPerSpread)}
	return left, right
}

func window(cards []card.Card, from, to int) []card.Card {
	if from < 0 {
		from = 0
	}
	if to > len(cards) {
		to = len(cards)
	}
	if from >= to {
		return []card.Card{}
	}
	out := make([]card.Card, to-from)
	copy(out, cards[from:to])
	return out
}

// ComputeSpread builds the spread for a view state over the given cards.
func ComputeSpread(cards []card.Card, view ViewState) Spread {
	n := len(cards)
	left, right := Batches(cards, view.ViewIndex)

	s := Spread{
		ViewIndex:  view.ViewIndex,
		TotalViews: TotalViews(n),
		Count:      n,
		Left:       left,
		Right:      right,
		Locked:     view.Locked,
		Empty:      n == 0,
	}

	if s.Empty {
		s.Indicator = EmptyIndicator
		return s
	}

	s.CanPrev = !IsFirstView(view.ViewIndex)
	s.CanNext = !IsLastView(view.ViewIndex, n)
	s.Indicator = fmt.Sprintf("Page %d of %d", view.ViewIndex+1, s.TotalViews)
	return s
}
