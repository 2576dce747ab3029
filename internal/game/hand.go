package game

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/a1henu/deepseek-poker/internal/deck"
)

// Hand is the per-deal betting state machine. It references the room's
// seat list in seat order and owns the deck, the board, and all betting
// state for one deal. All methods assume the caller holds the room lock.
type Hand struct {
	players    []*Player
	dealer     int
	smallBlind int
	bigBlind   int
	rng        *rand.Rand

	deck      *deck.Deck
	community []deck.Card
	pot       int
	phase     Phase

	currentBet int
	minRaise   int
	current    int // seat to act, -1 when none

	actions   []ActionRecord
	over      bool
	winners   []Winner
	lastEvent string
	sbIndex   int
	bbIndex   int
}

// NewHand creates a hand over the room's seats. The RNG drives the
// shuffle; tests may override the deck with WithDeck.
func NewHand(players []*Player, dealer, smallBlind, bigBlind int, rng *rand.Rand, opts ...Option) *Hand {
	h := &Hand{
		players:    players,
		dealer:     dealer,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		rng:        rng,
		phase:      Waiting,
		minRaise:   bigBlind,
		current:    -1,
		sbIndex:    -1,
		bbIndex:    -1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start shuffles, deals hole cards, posts blinds, and hands the action
// to the first seat after the big blind.
func (h *Hand) Start() error {
	active := 0
	for _, p := range h.players {
		if p.Stack > 0 && !p.Busted {
			active++
		}
	}
	if active < 2 {
		return ErrNotEnoughPlayers
	}

	if h.deck == nil {
		h.deck = deck.New()
		h.deck.Shuffle(h.rng)
	}
	for seat, p := range h.players {
		p.Seat = seat
		p.ResetForHand()
	}
	h.community = nil
	h.pot = 0
	h.phase = Preflop
	h.currentBet = 0
	h.minRaise = h.bigBlind
	h.actions = nil
	h.winners = nil
	h.over = false
	h.lastEvent = ""

	h.dealHoleCards()

	sb := h.nextActiveIndex(h.dealer)
	bb := h.nextActiveIndex(sb)
	if sb < 0 || bb < 0 {
		return fmt.Errorf("%w: unable to post blinds", ErrNotEnoughPlayers)
	}
	h.sbIndex = sb
	h.bbIndex = bb
	h.postBlind(sb, h.smallBlind, labelSmallBlind)
	h.postBlind(bb, h.bigBlind, labelBigBlind)

	for _, p := range h.players {
		if p.Bet > h.currentBet {
			h.currentBet = p.Bet
		}
	}
	h.minRaise = h.bigBlind
	h.current = h.nextActiveIndex(bb)
	if h.current < 0 {
		h.resolveShowdown()
	}
	return nil
}

// dealHoleCards gives each live seat two cards, one per pass, starting
// left of the dealer.
func (h *Hand) dealHoleCards() {
	for pass := 0; pass < 2; pass++ {
		for _, idx := range h.seatsFrom(h.dealer) {
			p := h.players[idx]
			if p.Stack <= 0 || p.Busted {
				continue
			}
			if card, ok := h.deck.Draw(); ok {
				p.HoleCards = append(p.HoleCards, card)
			}
		}
	}
}

// seatsFrom returns seat indices clockwise from start (exclusive),
// wrapping once around the table.
func (h *Hand) seatsFrom(start int) []int {
	total := len(h.players)
	out := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		out = append(out, (start+i)%total)
	}
	return out
}

// nextActiveIndex finds the next seat that can still take a turn
func (h *Hand) nextActiveIndex(start int) int {
	if start < 0 {
		return -1
	}
	for _, idx := range h.seatsFrom(start) {
		if h.players[idx].canAct() {
			return idx
		}
	}
	return -1
}

func (h *Hand) postBlind(idx, amount int, label string) {
	p := h.players[idx]
	chips := amount
	if p.Stack < chips {
		chips = p.Stack
	}
	h.commit(p, chips)
	h.actions = append(h.actions, ActionRecord{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Action:     label,
		Amount:     chips,
		Phase:      h.phase.String(),
	})
}

// commit moves chips from the seat's stack onto the street, clamped to
// the stack. The only code path that touches the pot.
func (h *Hand) commit(p *Player, amount int) {
	if amount < 0 {
		amount = 0
	}
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.Bet += amount
	h.pot += amount
	if p.Stack == 0 && amount > 0 {
		p.AllIn = true
	}
}

// CurrentPlayer returns the seat to act, or nil
func (h *Hand) CurrentPlayer() *Player {
	if h.current < 0 {
		return nil
	}
	return h.players[h.current]
}

// CurrentIndex returns the index of the seat to act, or -1
func (h *Hand) CurrentIndex() int { return h.current }

func (h *Hand) Over() bool             { return h.over }
func (h *Hand) Phase() Phase           { return h.phase }
func (h *Hand) Pot() int               { return h.pot }
func (h *Hand) CurrentBet() int        { return h.currentBet }
func (h *Hand) MinRaise() int          { return h.minRaise }
func (h *Hand) LastEvent() string      { return h.lastEvent }
func (h *Hand) Winners() []Winner      { return h.winners }
func (h *Hand) Actions() []ActionRecord { return h.actions }
func (h *Hand) Community() []deck.Card { return h.community }
func (h *Hand) DealerIndex() int       { return h.dealer }
func (h *Hand) SmallBlindIndex() int   { return h.sbIndex }
func (h *Hand) BigBlindIndex() int     { return h.bbIndex }

// ToCall returns the chips the seat must add to match the current bet
func (h *Hand) ToCall(p *Player) int {
	toCall := h.currentBet - p.Bet
	if toCall < 0 {
		return 0
	}
	return toCall
}

// LegalActions lists the labels Apply would accept from this seat
func (h *Hand) LegalActions(p *Player) []string {
	if h.over || p.Folded || p.AllIn || p.Busted {
		return nil
	}
	var options []string
	if toCall := h.ToCall(p); toCall > 0 {
		options = append(options, ActionFold, ActionCall)
		if p.Stack+p.Bet > h.currentBet {
			options = append(options, ActionRaise)
		}
	} else {
		options = append(options, ActionCheck)
		if p.Stack > 0 {
			options = append(options, ActionBet)
		}
	}
	return options
}

// Apply validates and executes one action from the seat to act. Every
// rule is checked before any chips move, so a rejected action leaves
// the hand untouched. For bet and raise the amount is the desired
// on-street total, clamped to the seat's chips to allow short all-ins.
func (h *Hand) Apply(p *Player, action string, amount int) error {
	if h.over {
		return ErrHandOver
	}
	if p != h.CurrentPlayer() {
		return ErrWrongTurn
	}

	toCall := h.ToCall(p)
	action = strings.ToLower(action)
	logged := 0

	switch action {
	case ActionFold:
		p.Folded = true

	case ActionCheck:
		if toCall != 0 {
			return ErrCannotCheck
		}

	case ActionCall:
		if toCall == 0 {
			return ErrNothingToCall
		}
		logged = toCall
		if p.Stack < logged {
			logged = p.Stack
		}
		h.commit(p, toCall)

	case ActionBet:
		if h.currentBet != 0 {
			return ErrBetNotAllowed
		}
		if amount <= 0 {
			return ErrInsufficientChips
		}
		if amount < h.bigBlind {
			return ErrBelowMinBet
		}
		desired := amount
		if max := p.Bet + p.Stack; desired > max {
			desired = max
		}
		commit := desired - p.Bet
		if commit <= 0 {
			return ErrInsufficientChips
		}
		h.commit(p, commit)
		h.currentBet = p.Bet
		h.minRaise = commit
		logged = p.Bet

	case ActionRaise:
		if h.currentBet == 0 {
			return ErrNothingToRaise
		}
		if amount <= h.currentBet {
			return ErrRaiseMustIncrease
		}
		desired := amount
		if minTotal := h.currentBet + h.minRaise; desired < minTotal {
			desired = minTotal
		}
		if max := p.Bet + p.Stack; desired > max {
			desired = max
		}
		commit := desired - p.Bet
		if commit <= toCall {
			return ErrRaiseMustExceedCall
		}
		h.commit(p, commit)
		h.minRaise = desired - h.currentBet
		h.currentBet = desired
		logged = p.Bet

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	p.HasActed = true
	h.actions = append(h.actions, ActionRecord{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Action:     action,
		Amount:     logged,
		Phase:      h.phase.String(),
	})

	if h.contenderCount() <= 1 {
		h.finishSinglePlayer()
		return nil
	}
	if next := h.findNextToAct(); next >= 0 {
		h.current = next
	} else {
		h.completeBettingRound()
	}
	return nil
}

// findNextToAct scans clockwise from the current seat for one that
// still owes action this round.
func (h *Hand) findNextToAct() int {
	if h.current < 0 {
		return -1
	}
	for _, idx := range h.seatsFrom(h.current) {
		p := h.players[idx]
		if p.Folded || p.Busted || p.AllIn {
			continue
		}
		if p.Bet != h.currentBet || !p.HasActed {
			return idx
		}
	}
	return -1
}

// completeBettingRound zeroes street state and advances the board. The
// new street's action starts left of the dealer.
func (h *Hand) completeBettingRound() {
	for _, p := range h.players {
		p.Bet = 0
		p.HasActed = false
	}
	h.currentBet = 0
	h.minRaise = h.bigBlind

	if h.phase == River {
		h.resolveShowdown()
		return
	}
	h.advanceBoard()
	h.current = h.nextActiveIndex(h.dealer)
	if h.current < 0 {
		h.resolveShowdown()
	}
}

// advanceBoard deals the next street. No burn cards in this engine.
func (h *Hand) advanceBoard() {
	switch h.phase {
	case Preflop:
		h.phase = Flop
		h.dealCommunity(3)
	case Flop:
		h.phase = Turn
		h.dealCommunity(1)
	case Turn:
		h.phase = River
		h.dealCommunity(1)
	}
}

func (h *Hand) dealCommunity(n int) {
	for i := 0; i < n; i++ {
		if card, ok := h.deck.Draw(); ok {
			h.community = append(h.community, card)
		}
	}
}

// resolveShowdown runs out the board if needed, scores every contender,
// and splits the pot among the best hands.
func (h *Hand) resolveShowdown() {
	for len(h.community) < 5 {
		card, ok := h.deck.Draw()
		if !ok {
			break
		}
		h.community = append(h.community, card)
	}

	var contenders []*Player
	for _, p := range h.players {
		if p.InHand() {
			contenders = append(contenders, p)
		}
	}
	if len(contenders) == 0 {
		h.finishHand(nil, "hand aborted")
		return
	}

	best := EvaluateBest(contenders[0].HoleCards, h.community)
	winners := []*Player{contenders[0]}
	for _, p := range contenders[1:] {
		s := EvaluateBest(p.HoleCards, h.community)
		switch cmp := CompareStrength(s, best); {
		case cmp > 0:
			best = s
			winners = []*Player{p}
		case cmp == 0:
			winners = append(winners, p)
		}
	}
	h.awardPot(winners, best.Category.String())
}

// finishSinglePlayer ends the hand when everyone else folded
func (h *Hand) finishSinglePlayer() {
	var remaining []*Player
	for _, p := range h.players {
		if p.InHand() {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		h.finishHand(nil, "hand aborted")
		return
	}
	h.awardPot(remaining[:1], "No contest")
}

// awardPot splits the pot by integer division; odd chips go one at a
// time to the earliest winners in seat order.
func (h *Hand) awardPot(winners []*Player, handName string) {
	share := h.pot / len(winners)
	remainder := h.pot % len(winners)
	names := make([]string, len(winners))
	h.winners = make([]Winner, len(winners))
	for i, p := range winners {
		extra := 0
		if i < remainder {
			extra = 1
		}
		p.Stack += share + extra
		names[i] = p.Name
		h.winners[i] = Winner{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Hand:       handName,
			Cards:      deck.Labels(p.HoleCards),
		}
	}
	h.lastEvent = fmt.Sprintf("%s won %d chips", strings.Join(names, ", "), h.pot)
	h.pot = 0
	h.over = true
	h.current = -1
	h.phase = Showdown
}

func (h *Hand) finishHand(winners []*Player, message string) {
	h.winners = make([]Winner, 0, len(winners))
	for _, p := range winners {
		h.winners = append(h.winners, Winner{PlayerID: p.ID, PlayerName: p.Name, Hand: message, Cards: []string{}})
	}
	h.lastEvent = message
	h.pot = 0
	h.current = -1
	h.over = true
	h.phase = Showdown
}

func (h *Hand) contenderCount() int {
	n := 0
	for _, p := range h.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// Fallback is the deterministic safe play for a seat: check when
// possible, call when affordable, otherwise fold.
func (h *Hand) Fallback(p *Player) (string, int) {
	toCall := h.ToCall(p)
	legal := h.LegalActions(p)
	for _, a := range legal {
		if a == ActionCheck {
			return ActionCheck, 0
		}
	}
	for _, a := range legal {
		if a == ActionCall && p.Stack >= toCall {
			return ActionCall, toCall
		}
	}
	return ActionFold, 0
}
