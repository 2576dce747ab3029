package game

import "github.com/a1henu/deepseek-poker/internal/deck"

// Option configures a Hand before Start
type Option func(*Hand)

// WithDeck supplies a pre-built deck and skips the shuffle. Tests use
// stacked decks for deterministic deals.
func WithDeck(d *deck.Deck) Option {
	return func(h *Hand) {
		h.deck = d
	}
}
