package game

import "github.com/a1henu/deepseek-poker/internal/deck"

// Player is a seat at the table. Seats are created when a player joins
// the room and keep their index for the lifetime of the room; the hand
// references them in seat order.
type Player struct {
	ID     string
	Name   string
	Stack  int
	Secret string
	IsAI   bool
	IsHost bool
	Seat   int

	// Per-hand state, reset by ResetForHand.
	Bet       int
	Folded    bool
	AllIn     bool
	Busted    bool
	HasActed  bool
	HoleCards []deck.Card
}

// ResetForHand clears per-hand state. A seat that reaches a new hand
// with an empty stack is busted for good.
func (p *Player) ResetForHand() {
	if p.Stack <= 0 {
		p.Busted = true
	}
	p.Bet = 0
	p.Folded = false
	p.AllIn = false
	p.HasActed = false
	p.HoleCards = nil
}

// InHand reports whether the seat is still contesting the pot
func (p *Player) InHand() bool {
	return !p.Folded && !p.Busted
}

// canAct reports whether the seat can take a turn: contesting the pot,
// not all-in, and holding chips.
func (p *Player) canAct() bool {
	return p.InHand() && !p.AllIn && p.Stack > 0
}

// ActionRecord is one entry of the hand's ordered action log. Blind
// postings are logged alongside voluntary actions.
type ActionRecord struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Action     string `json:"action"`
	Amount     int    `json:"amount"`
	Phase      string `json:"phase"`
}

// Winner describes one seat awarded a share of the pot at hand end
type Winner struct {
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Hand       string   `json:"hand"`
	Cards      []string `json:"cards"`
}
