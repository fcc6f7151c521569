package events

// Event types emitted by the binder controller. Payload types live in the
// binder package next to the state they describe.
const (
	// TypeFlip is sent when a page flip begins; renderers start the turn animation.
	TypeFlip = "binder:flip"

	// TypeRender is sent whenever the visible spread changes.
	TypeRender = "binder:render"

	// TypeDetails is sent when a card detail view opens or closes.
	TypeDetails = "binder:details"

	// TypeReprints is sent when the reprint list for the open card is pending or resolved.
	TypeReprints = "binder:reprints"

	// TypeSearch is sent when a search starts or its results arrive.
	TypeSearch = "binder:search"

	// TypeError is sent when a data source request fails.
	TypeError = "binder:error"
)

// AllTypes lists every binder event type.
var AllTypes = []string{TypeFlip, TypeRender, TypeDetails, TypeReprints, TypeSearch, TypeError}
