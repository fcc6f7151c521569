package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/card-binder/internal/card"
	"github.com/ramonehamilton/card-binder/internal/events"
)

// Messages renderers show for failed or empty data source requests.
const (
	MsgConnection = "Connection error"
	MsgNotFound   = "Not found"
	MsgNoReprints = "No other printings"
)

// SearchView is the current search panel state.
type SearchView struct {
	Query    string      `json:"query"`
	Pending  bool        `json:"pending"`
	NotFound bool        `json:"not_found"`
	Error    string      `json:"error,omitempty"`
	Results  []card.Card `json:"results"`
}

// DetailsView is the current card detail panel state.
type DetailsView struct {
	Open            bool        `json:"open"`
	GlobalIndex     int         `json:"global_index"`
	Card            card.Card   `json:"card"`
	ReprintsPending bool        `json:"reprints_pending"`
	Reprints        []card.Card `json:"reprints"`

	// ReprintsFor is the global index a selected reprint replaces.
	ReprintsFor int `json:"reprints_for"`
}

// Search starts resolving query against the data source. Blank queries are
// ignored and return false. Results arrive later as a TypeSearch event.
func (c *Controller) Search(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" || c.source == nil {
		return false
	}

	c.mu.Lock()
	c.searchSeq++
	token := c.searchSeq
	c.search = searchState{token: token, query: query, pending: true}
	c.dispatchLocked(events.TypeSearch, SearchUpdated{Query: query, Pending: true, Results: []card.Card{}})
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		results, err := c.source.Search(c.ctx, query)
		c.applySearch(token, query, results, err)
	}()
	return true
}

func (c *Controller) applySearch(token uint64, query string, results []card.Card, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discardStale && token != c.search.token {
		c.log.Debugf("Dropped stale search result for %q", query)
		return
	}

	c.search = searchState{token: token, query: query, results: []card.Card{}}

	switch {
	case errors.Is(err, ErrNotFound):
		c.search.notFound = true
		c.dispatchLocked(events.TypeSearch, SearchUpdated{Query: query, NotFound: true, Results: []card.Card{}})
	case err != nil:
		c.search.failed = MsgConnection
		c.log.WithError(err).Warnf("Search for %q failed", query)
		c.dispatchLocked(events.TypeError, ResolutionFailed{
			Operation: "search",
			Message:   MsgConnection,
			Detail:    err.Error(),
		})
	default:
		c.search.results = limitResults(results)
		c.search.notFound = len(c.search.results) == 0
		c.dispatchLocked(events.TypeSearch, SearchUpdated{
			Query:    query,
			NotFound: c.search.notFound,
			Results:  c.search.results,
		})
	}
}

// SearchResults returns the current search panel state.
func (c *Controller) SearchResults() SearchView {
	c.mu.Lock()
	defer c.mu.Unlock()
	results := make([]card.Card, len(c.search.results))
	copy(results, c.search.results)
	return SearchView{
		Query:    c.search.query,
		Pending:  c.search.pending,
		NotFound: c.search.notFound,
		Error:    c.search.failed,
		Results:  results,
	}
}

// SelectSearchResult appends the i-th search result to the binder and jumps
// to the last view. Returns the new card's global index.
func (c *Controller) SelectSearchResult(i int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.search.results) {
		return 0, &IndexOutOfRangeError{What: "search result", Index: i, Length: len(c.search.results)}
	}
	return c.appendLocked(c.search.results[i]), nil
}

// OpenDetails opens the detail view for the card at index and starts resolving
// its other printings.
func (c *Controller) OpenDetails(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openDetailsLocked(index)
}

func (c *Controller) openDetailsLocked(index int) error {
	cd, err := c.state.Cards.At(index)
	if err != nil {
		return err
	}

	c.detailsSeq++
	token := c.detailsSeq
	handle := cd.ReprintsHandle()
	c.details = detailsState{
		open:     true,
		index:    index,
		card:     cd,
		token:    token,
		pending:  handle != "" && c.source != nil,
		reprints: []card.Card{},

		reprintsFor: index,
	}

	price, _ := cd.PriceEUR()
	shown := cd
	c.dispatchLocked(events.TypeDetails, DetailsChanged{
		Open:        true,
		GlobalIndex: index,
		Card:        &shown,
		Name:        cd.Name,
		ImagePNG:    cd.ImagePNG(),
		OracleText:  cd.ResolvedOracleText(),
		PriceEUR:    price,
	})

	if !c.details.pending {
		return nil
	}

	c.dispatchLocked(events.TypeReprints, ReprintsUpdated{
		GlobalIndex: index,
		CardID:      cd.ID,
		Pending:     true,
		Reprints:    []card.Card{},
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		reprints, err := c.source.ResolveReprints(c.ctx, handle)
		c.applyReprints(token, index, cd.ID, reprints, err)
	}()
	return nil
}

func (c *Controller) applyReprints(token uint64, index int, cardID string, reprints []card.Card, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discardStale && token != c.details.token {
		c.log.Debugf("Dropped stale reprints for card %s", cardID)
		return
	}
	if !c.details.open {
		return
	}

	c.details.pending = false
	c.details.reprints = []card.Card{}
	c.details.reprintsFor = index

	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		c.log.WithError(err).Warnf("Reprint lookup for card %s failed", cardID)
		c.dispatchLocked(events.TypeError, ResolutionFailed{
			Operation: "reprints",
			Message:   MsgConnection,
			Detail:    err.Error(),
		})
		return
	default:
		c.details.reprints = filterReprints(reprints, cardID)
	}

	c.dispatchLocked(events.TypeReprints, ReprintsUpdated{
		GlobalIndex: index,
		CardID:      cardID,
		Reprints:    c.details.reprints,
	})
}

// CloseDetails closes the detail view. Reprint lookups still in flight for it
// are dropped.
func (c *Controller) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.details.open {
		return
	}
	c.closeDetailsLocked()
}

func (c *Controller) closeDetailsLocked() {
	c.detailsSeq++
	c.details = detailsState{token: c.detailsSeq}
	c.dispatchLocked(events.TypeDetails, DetailsChanged{Open: false})
}

// Details returns the current detail panel state.
func (c *Controller) Details() DetailsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	reprints := make([]card.Card, len(c.details.reprints))
	copy(reprints, c.details.reprints)
	return DetailsView{
		Open:            c.details.open,
		GlobalIndex:     c.details.index,
		Card:            c.details.card,
		ReprintsPending: c.details.pending,
		Reprints:        reprints,
		ReprintsFor:     c.details.reprintsFor,
	}
}

// SelectReprint swaps the j-th listed printing into the slot whose lookup
// produced the list, re-renders the spread and reopens the detail view for the
// new printing. That slot is the open one unless a late lookup arrived in
// arrival-order mode.
func (c *Controller) SelectReprint(j int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.details.open {
		return ErrNoDetailsOpen
	}
	if j < 0 || j >= len(c.details.reprints) {
		return &IndexOutOfRangeError{What: "reprint", Index: j, Length: len(c.details.reprints)}
	}

	index := c.details.reprintsFor
	rp := c.details.reprints[j]
	if err := c.replaceLocked(index, rp); err != nil {
		return fmt.Errorf("swap reprint at %d: %w", index, err)
	}
	return c.openDetailsLocked(index)
}
