package binder

// Direction is a page-turn direction.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Valid reports whether d is exactly Prev or Next.
func (d Direction) Valid() bool {
	return d == Prev || d == Next
}

func (d Direction) String() string {
	switch d {
	case Prev:
		return "prev"
	case Next:
		return "next"
	default:
		return "invalid"
	}
}

// ViewState is the binder cursor. ViewIndex selects the visible spread; Locked is
// true only while a page flip is settling.
type ViewState struct {
	ViewIndex int  `json:"view_index"`
	Locked    bool `json:"locked"`
}

// Target returns the view a page change would land on and whether it is inside
// [0, TotalViews(n)).
func (v ViewState) Target(d Direction, n int) (int, bool) {
	next := v.ViewIndex + int(d)
	if next < 0 || next >= TotalViews(n) {
		return v.ViewIndex, false
	}
	return next, true
}

// CanTransition reports whether a flip in direction d would be accepted.
func (v ViewState) CanTransition(d Direction, n int) bool {
	if v.Locked || !d.Valid() {
		return false
	}
	_, ok := v.Target(d, n)
	return ok
}

// Clamp pulls ViewIndex back inside the valid range for n cards.
func (v ViewState) Clamp(n int) ViewState {
	if v.ViewIndex > LastView(n) {
		v.ViewIndex = LastView(n)
	}
	if v.ViewIndex < 0 {
		v.ViewIndex = 0
	}
	return v
}
