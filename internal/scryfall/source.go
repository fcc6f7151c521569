package scryfall

import (
	"context"
	"errors"
	"fmt"

	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/card"
)

// Source adapts a Client to binder.DataSource. Only the first page of a list
// is fetched: the binder never consumes more than binder.ResultLimit entries.
type Source struct {
	client *Client
}

var _ binder.DataSource = (*Source)(nil)

// NewSource wraps client as a binder data source.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Search runs a full-text card search.
func (s *Source) Search(ctx context.Context, query string) ([]card.Card, error) {
	list, err := s.client.SearchCards(ctx, query)
	return cardsOf(list, err)
}

// ResolveReprints fetches the printings listed at a card's prints_search_uri.
func (s *Source) ResolveReprints(ctx context.Context, handle string) ([]card.Card, error) {
	list, err := s.client.GetList(ctx, handle)
	return cardsOf(list, err)
}

func cardsOf(list *List, err error) ([]card.Card, error) {
	if err != nil {
		return nil, classify(err)
	}
	if len(list.Data) == 0 {
		return nil, binder.ErrNotFound
	}
	return list.Data, nil
}

// classify maps client failures onto the binder's data source errors.
// API errors other than not-found keep their own identity.
func classify(err error) error {
	if IsNotFound(err) {
		return fmt.Errorf("%w: %w", binder.ErrNotFound, err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return fmt.Errorf("%w: %w", binder.ErrConnection, err)
}
