package deck

import rand "math/rand/v2"

// Deck represents an ordered stack of playing cards. Cards are drawn
// from the tail so a stacked deck deals its last card first.
type Deck struct {
	cards []Card
}

// New creates a full 52-card deck in deterministic rank-major order.
// Callers shuffle before dealing.
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for rank := Two; rank <= Ace; rank++ {
		for suit := Spades; suit <= Clubs; suit++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// Stacked creates a deck holding exactly the given cards, in order.
// Used by tests to rig deals; remember draws come from the tail.
func Stacked(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle permutes the deck uniformly using the provided RNG
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the tail card
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
