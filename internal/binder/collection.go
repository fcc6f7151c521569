package binder

import "github.com/ramonehamilton/card-binder/internal/card"

// Collection is the ordered list of cards in a binder. Insertion order defines
// the global index of every card; indices never shift under Append or ReplaceAt.
type Collection struct {
	cards []card.Card
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{cards: make([]card.Card, 0)}
}

// Len returns the number of cards.
func (c *Collection) Len() int {
	return len(c.cards)
}

// Append adds a card to the end and returns its global index.
func (c *Collection) Append(cd card.Card) int {
	c.cards = append(c.cards, cd)
	return len(c.cards) - 1
}

// ReplaceAt swaps the card at index for another one. Length and every other
// index are unchanged.
func (c *Collection) ReplaceAt(index int, cd card.Card) error {
	if err := c.check(index); err != nil {
		return err
	}
	c.cards[index] = cd
	return nil
}

// At returns the card at index.
func (c *Collection) At(index int) (card.Card, error) {
	if err := c.check(index); err != nil {
		return card.Card{}, err
	}
	return c.cards[index], nil
}

// Cards returns a copy of the cards in order.
func (c *Collection) Cards() []card.Card {
	out := make([]card.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Clear removes every card.
func (c *Collection) Clear() {
	c.cards = make([]card.Card, 0)
}

// view returns the backing slice without copying. Callers must not retain it.
func (c *Collection) view() []card.Card {
	return c.cards
}

func (c *Collection) check(index int) error {
	if index < 0 || index >= len(c.cards) {
		return &IndexOutOfRangeError{What: "card index", Index: index, Length: len(c.cards)}
	}
	return nil
}
