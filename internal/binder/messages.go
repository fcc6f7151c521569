package binder

import "github.com/ramonehamilton/card-binder/internal/card"

// FlipBegan is the payload of events.TypeFlip. Renderers pick the turn
// animation from Direction; the content changes with the following render.
type FlipBegan struct {
	BinderID  string    `json:"binder_id"`
	FlipID    string    `json:"flip_id"`
	Direction Direction `json:"direction"`
	From      int       `json:"from"`
	To        int       `json:"to"`
}

// DetailsChanged is the payload of events.TypeDetails.
type DetailsChanged struct {
	Open        bool       `json:"open"`
	GlobalIndex int        `json:"global_index"`
	Card        *card.Card `json:"card,omitempty"`
	Name        string     `json:"name,omitempty"`
	ImagePNG    string     `json:"image_png,omitempty"`
	OracleText  string     `json:"oracle_text,omitempty"`
	PriceEUR    string     `json:"price_eur,omitempty"`
}

// ReprintsUpdated is the payload of events.TypeReprints. An empty, non-pending
// list means the card has no other printings.
type ReprintsUpdated struct {
	GlobalIndex int         `json:"global_index"`
	CardID      string      `json:"card_id"`
	Pending     bool        `json:"pending"`
	Reprints    []card.Card `json:"reprints"`
}

// SearchUpdated is the payload of events.TypeSearch.
type SearchUpdated struct {
	Query    string      `json:"query"`
	Pending  bool        `json:"pending"`
	NotFound bool        `json:"not_found"`
	Results  []card.Card `json:"results"`
}

// ResolutionFailed is the payload of events.TypeError.
type ResolutionFailed struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
}
