// Package card defines the card printing record shown in a binder slot.
package card

// Card represents one printing of a Magic card as returned by the data source.
// Cards are values: a reprint swap replaces the Card in its slot, it never edits fields.
type Card struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	SetName         string     `json:"set_name,omitempty"`
	ImageURIs       *ImageURIs `json:"image_uris,omitempty"`
	CardFaces       []Face     `json:"card_faces,omitempty"`
	Prices          Prices     `json:"prices"`
	OracleText      string     `json:"oracle_text,omitempty"`
	PrintsSearchURI string     `json:"prints_search_uri,omitempty"`
}

// Face represents one face of a multi-faced card.
type Face struct {
	Name       string     `json:"name,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small  string `json:"small,omitempty"`
	Normal string `json:"normal,omitempty"`
	PNG    string `json:"png,omitempty"`
}

// Prices holds the card prices the binder displays.
type Prices struct {
	EUR *string `json:"eur,omitempty"`
}

// ImageNormal returns the normal-size image URL, falling back to the first face.
func (c Card) ImageNormal() string {
	return c.image(func(u *ImageURIs) string { return u.Normal })
}

// ImageSmall returns the thumbnail URL used in reprint listings.
func (c Card) ImageSmall() string {
	return c.image(func(u *ImageURIs) string { return u.Small })
}

// ImagePNG returns the high resolution image URL used in the detail view.
func (c Card) ImagePNG() string {
	return c.image(func(u *ImageURIs) string { return u.PNG })
}

func (c Card) image(pick func(*ImageURIs) string) string {
	if c.ImageURIs != nil {
		if url := pick(c.ImageURIs); url != "" {
			return url
		}
	}
	if len(c.CardFaces) > 0 && c.CardFaces[0].ImageURIs != nil {
		return pick(c.CardFaces[0].ImageURIs)
	}
	return ""
}

// ResolvedOracleText returns the oracle text, falling back to the first face.
func (c Card) ResolvedOracleText() string {
	if c.OracleText != "" {
		return c.OracleText
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].OracleText
	}
	return ""
}

// PriceEUR returns the EUR price and whether one is known.
func (c Card) PriceEUR() (string, bool) {
	if c.Prices.EUR == nil || *c.Prices.EUR == "" {
		return "", false
	}
	return *c.Prices.EUR, true
}

// ReprintsHandle returns the handle used to list other printings of this card.
func (c Card) ReprintsHandle() string {
	return c.PrintsSearchURI
}

// IsMultiFaced reports whether the card carries per-face data.
func (c Card) IsMultiFaced() bool {
	return len(c.CardFaces) > 0
}

// Renderable reports whether the card has an image a binder slot can show.
// Cards that are not renderable still occupy their global index.
func (c Card) Renderable() bool {
	return c.ImageNormal() != ""
}
