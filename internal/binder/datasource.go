package binder

import (
	"context"

	"github.com/ramonehamilton/card-binder/internal/card"
)

// ResultLimit caps how many search results or reprints the binder consumes.
const ResultLimit = 15

// DataSource resolves card searches and reprint listings. Implementations
// return ErrNotFound for empty result sets and ErrConnection for transport failures.
type DataSource interface {
	Search(ctx context.Context, query string) ([]card.Card, error)
	ResolveReprints(ctx context.Context, handle string) ([]card.Card, error)
}

func limitResults(cards []card.Card) []card.Card {
	if len(cards) > ResultLimit {
		cards = cards[:ResultLimit]
	}
	out := make([]card.Card, len(cards))
	copy(out, cards)
	return out
}

// filterReprints takes the first ResultLimit printings and drops the one
// currently displayed.
func filterReprints(cards []card.Card, currentID string) []card.Card {
	limited := limitResults(cards)
	out := make([]card.Card, 0, len(limited))
	for _, rp := range limited {
		if rp.ID == currentID {
			continue
		}
		out = append(out, rp)
	}
	return out
}
