package game

import (
	"fmt"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1henu/deepseek-poker/internal/deck"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func seatPlayers(stacks ...int) []*Player {
	players := make([]*Player, len(stacks))
	for i, stack := range stacks {
		players[i] = &Player{
			ID:    fmt.Sprintf("p%d", i),
			Name:  fmt.Sprintf("Seat %d", i),
			Stack: stack,
			Seat:  i,
		}
	}
	return players
}

// rigged builds a deck from labels in deal order. Draws come from the
// tail, so the slice is reversed before stacking.
func rigged(labels ...string) *deck.Deck {
	cards := make([]deck.Card, len(labels))
	for i, label := range labels {
		cards[len(labels)-1-i] = deck.MustParseCard(label)
	}
	return deck.Stacked(cards...)
}

func totalChips(players []*Player, pot int) int {
	total := pot
	for _, p := range players {
		total += p.Stack + p.Bet
	}
	return total
}

func TestStartPostsBlindsHeadsUp(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	// Seat after the dealer posts the small blind.
	assert.Equal(t, 0, h.SmallBlindIndex())
	assert.Equal(t, 1, h.BigBlindIndex())
	assert.Equal(t, 10, players[0].Bet)
	assert.Equal(t, 20, players[1].Bet)
	assert.Equal(t, 30, h.Pot())
	assert.Equal(t, 20, h.CurrentBet())
	assert.Equal(t, Preflop, h.Phase())

	// Heads-up the small blind acts first preflop.
	require.NotNil(t, h.CurrentPlayer())
	assert.Equal(t, 0, h.CurrentIndex())

	for _, p := range players {
		assert.Len(t, p.HoleCards, 2)
	}
}

func TestBlindsWrapAroundTable(t *testing.T) {
	players := seatPlayers(1000, 1000, 1000)
	h := NewHand(players, 2, 10, 20, testRNG())
	require.NoError(t, h.Start())

	assert.Equal(t, 0, h.SmallBlindIndex())
	assert.Equal(t, 1, h.BigBlindIndex())
	assert.Equal(t, 2, h.CurrentIndex())
}

func TestBlindPostingsAreLogged(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	actions := h.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "small_blind", actions[0].Action)
	assert.Equal(t, 10, actions[0].Amount)
	assert.Equal(t, "big_blind", actions[1].Action)
	assert.Equal(t, 20, actions[1].Amount)
}

func TestStartNeedsTwoChippedPlayers(t *testing.T) {
	players := seatPlayers(1000, 0)
	h := NewHand(players, 0, 10, 20, testRNG())
	assert.ErrorIs(t, h.Start(), ErrNotEnoughPlayers)
}

func TestFoldToBigBlindEndsHand(t *testing.T) {
	players := seatPlayers(1000, 1000, 1000)
	h := NewHand(players, 2, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[2], ActionFold, 0))
	require.NoError(t, h.Apply(players[0], ActionFold, 0))

	require.True(t, h.Over())
	assert.Equal(t, Showdown, h.Phase())
	assert.Zero(t, h.Pot())

	winners := h.Winners()
	require.Len(t, winners, 1)
	assert.Equal(t, "p1", winners[0].PlayerID)
	assert.Equal(t, "No contest", winners[0].Hand)

	// Big blind collects both blinds.
	assert.Equal(t, 1010, players[1].Stack)
	assert.Equal(t, 990, players[0].Stack)
	assert.Equal(t, "Seat 1 won 30 chips", h.LastEvent())
}

func TestWrongTurnRejected(t *testing.T) {
	players := seatPlayers(1000, 1000, 1000)
	h := NewHand(players, 2, 10, 20, testRNG())
	require.NoError(t, h.Start())

	err := h.Apply(players[0], ActionFold, 0)
	assert.ErrorIs(t, err, ErrWrongTurn)
	assert.Equal(t, 2, h.CurrentIndex())
}

func TestCheckFacingBetRejected(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	err := h.Apply(players[0], ActionCheck, 0)
	assert.ErrorIs(t, err, ErrCannotCheck)
	// Rejected actions leave the hand untouched.
	assert.Equal(t, 30, h.Pot())
	assert.Equal(t, 0, h.CurrentIndex())
}

func TestCallWithNothingOwedRejected(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[0], ActionCall, 0))
	err := h.Apply(players[1], ActionCall, 0)
	assert.ErrorIs(t, err, ErrNothingToCall)
}

func TestBetRules(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	// Betting into an outstanding bet is a raise, not a bet.
	assert.ErrorIs(t, h.Apply(players[0], ActionBet, 50), ErrBetNotAllowed)

	// Call and check through to the flop, where there is no bet.
	require.NoError(t, h.Apply(players[0], ActionCall, 0))
	require.NoError(t, h.Apply(players[1], ActionCheck, 0))
	require.Equal(t, Flop, h.Phase())

	actor := h.CurrentPlayer()
	assert.ErrorIs(t, h.Apply(actor, ActionBet, 5), ErrBelowMinBet)
	assert.ErrorIs(t, h.Apply(actor, ActionBet, 0), ErrInsufficientChips)

	require.NoError(t, h.Apply(actor, ActionBet, 60))
	assert.Equal(t, 60, h.CurrentBet())
	assert.Equal(t, 60, h.MinRaise())
	assert.Equal(t, 60, actor.Bet)
}

func TestRaiseRules(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	// A raise must name a total above the current bet.
	assert.ErrorIs(t, h.Apply(players[0], ActionRaise, 20), ErrRaiseMustIncrease)
	assert.ErrorIs(t, h.Apply(players[0], ActionRaise, 15), ErrRaiseMustIncrease)

	// An undersized raise is lifted to the minimum total.
	require.NoError(t, h.Apply(players[0], ActionRaise, 25))
	assert.Equal(t, 40, h.CurrentBet())
	assert.Equal(t, 20, h.MinRaise())
	assert.Equal(t, 40, players[0].Bet)

	// Re-raise resets the increment from the new total.
	require.NoError(t, h.Apply(players[1], ActionRaise, 100))
	assert.Equal(t, 100, h.CurrentBet())
	assert.Equal(t, 60, h.MinRaise())
}

func TestRaiseWithoutBetRejectedPostflop(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[0], ActionCall, 0))
	require.NoError(t, h.Apply(players[1], ActionCheck, 0))
	require.Equal(t, Flop, h.Phase())

	actor := h.CurrentPlayer()
	assert.ErrorIs(t, h.Apply(actor, ActionRaise, 40), ErrNothingToRaise)
}

func TestShortAllInCall(t *testing.T) {
	players := seatPlayers(1000, 50)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[0], ActionRaise, 100))
	require.Equal(t, 100, h.CurrentBet())

	// The short stack calls for everything it has.
	require.NoError(t, h.Apply(players[1], ActionCall, 0))
	assert.True(t, players[1].AllIn)
	assert.Zero(t, players[1].Stack)
	assert.Equal(t, 150, h.Pot())

	// The remaining live seat checks the board down to showdown.
	for !h.Over() {
		require.NoError(t, h.Apply(players[0], ActionCheck, 0))
	}
	assert.Equal(t, 1050, players[0].Stack+players[1].Stack)
}

func TestAllInRaiseBelowCallRejected(t *testing.T) {
	// Seat 0 posts the big blind with only 25 chips behind.
	players := seatPlayers(45, 1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())
	require.Equal(t, 2, h.SmallBlindIndex())
	require.Equal(t, 0, h.BigBlindIndex())

	require.NoError(t, h.Apply(players[1], ActionRaise, 120))
	require.NoError(t, h.Apply(players[2], ActionCall, 0))

	// Seat 0 tops out at 45 total, below the 120 to match: the all-in
	// cannot exceed the call, so it is not a raise.
	err := h.Apply(players[0], ActionRaise, 200)
	assert.ErrorIs(t, err, ErrRaiseMustExceedCall)
}

func TestSplitPotOddChipGoesToEarliestSeat(t *testing.T) {
	players := seatPlayers(100, 100, 100)
	// Board makes a king-high straight that both live seats play.
	d := rigged(
		"7S", "2S", "2D", // first pass, seats 0 1 2
		"8S", "3H", "3C", // second pass
		"9D", "TC", "JS", // flop
		"QH", // turn
		"KD", // river
	)
	h := NewHand(players, 2, 5, 10, testRNG(), WithDeck(d))
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[2], ActionCall, 0))
	require.NoError(t, h.Apply(players[0], ActionFold, 0))
	require.NoError(t, h.Apply(players[1], ActionCheck, 0))

	for !h.Over() {
		require.NoError(t, h.Apply(h.CurrentPlayer(), ActionCheck, 0))
	}

	winners := h.Winners()
	require.Len(t, winners, 2)
	assert.Equal(t, "p1", winners[0].PlayerID)
	assert.Equal(t, "p2", winners[1].PlayerID)
	assert.Equal(t, "Straight", winners[0].Hand)

	// Pot of 25 splits 13/12 with the odd chip to the earlier seat.
	assert.Equal(t, 103, players[1].Stack)
	assert.Equal(t, 102, players[2].Stack)
	assert.Equal(t, 95, players[0].Stack)
}

func TestShowdownPicksBestHand(t *testing.T) {
	players := seatPlayers(1000, 1000)
	d := rigged(
		"AS", "7D", // first pass, seats 0 1
		"AH", "2C", // second pass
		"AD", "9C", "4S", // flop
		"JH", // turn
		"6D", // river
	)
	h := NewHand(players, 1, 10, 20, testRNG(), WithDeck(d))
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[0], ActionCall, 0))
	require.NoError(t, h.Apply(players[1], ActionCheck, 0))
	for !h.Over() {
		require.NoError(t, h.Apply(h.CurrentPlayer(), ActionCheck, 0))
	}

	winners := h.Winners()
	require.Len(t, winners, 1)
	assert.Equal(t, "p0", winners[0].PlayerID)
	assert.Equal(t, "Three of a Kind", winners[0].Hand)
	assert.Equal(t, []string{"AS", "AH"}, winners[0].Cards)
	assert.Equal(t, 1020, players[0].Stack)
	assert.Equal(t, 980, players[1].Stack)
}

func TestChipConservation(t *testing.T) {
	players := seatPlayers(500, 500, 500)
	h := NewHand(players, 0, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.Equal(t, 1500, totalChips(players, h.Pot()))

	require.NoError(t, h.Apply(h.CurrentPlayer(), ActionRaise, 60))
	require.Equal(t, 1500, totalChips(players, h.Pot()))

	for !h.Over() {
		p := h.CurrentPlayer()
		action, amount := h.Fallback(p)
		require.NoError(t, h.Apply(p, action, amount))
		require.Equal(t, 1500, totalChips(players, h.Pot()))
	}
	assert.Zero(t, h.Pot())
}

func TestActionsAfterHandOverRejected(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[0], ActionFold, 0))
	require.True(t, h.Over())

	assert.ErrorIs(t, h.Apply(players[1], ActionCheck, 0), ErrHandOver)
}

func TestUnknownActionRejected(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	assert.ErrorIs(t, h.Apply(players[0], "shove", 0), ErrUnknownAction)
}

func TestLegalActions(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	// Facing the big blind: fold, call, raise.
	assert.Equal(t, []string{ActionFold, ActionCall, ActionRaise}, h.LegalActions(players[0]))

	require.NoError(t, h.Apply(players[0], ActionCall, 0))
	// Big blind owes nothing: check or bet.
	assert.Equal(t, []string{ActionCheck, ActionBet}, h.LegalActions(players[1]))
}

func TestFallback(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	// Facing a bet with chips to spare: call.
	action, amount := h.Fallback(players[0])
	assert.Equal(t, ActionCall, action)
	assert.Equal(t, 10, amount)

	require.NoError(t, h.Apply(players[0], ActionCall, 0))

	// Nothing owed: check.
	action, _ = h.Fallback(players[1])
	assert.Equal(t, ActionCheck, action)
}

func TestFallbackFoldsWhenCallUnaffordable(t *testing.T) {
	players := seatPlayers(1000, 1000, 25)
	h := NewHand(players, 2, 10, 20, testRNG())
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[2], ActionCall, 0))
	require.NoError(t, h.Apply(players[0], ActionRaise, 200))
	require.NoError(t, h.Apply(players[1], ActionCall, 0))

	// Seat 2 has 5 chips left against a 180-chip call.
	action, _ := h.Fallback(players[2])
	assert.Equal(t, ActionFold, action)
}

func TestBoardRunsOutWithoutBurns(t *testing.T) {
	players := seatPlayers(1000, 1000)
	d := rigged(
		"AS", "7D",
		"AH", "2C",
		"AD", "9C", "4S",
		"JH",
		"6D",
	)
	h := NewHand(players, 1, 10, 20, testRNG(), WithDeck(d))
	require.NoError(t, h.Start())

	require.NoError(t, h.Apply(players[0], ActionCall, 0))
	require.NoError(t, h.Apply(players[1], ActionCheck, 0))
	require.Equal(t, Flop, h.Phase())
	assert.Equal(t, []string{"AD", "9C", "4S"}, deck.Labels(h.Community()))

	require.NoError(t, h.Apply(h.CurrentPlayer(), ActionCheck, 0))
	require.NoError(t, h.Apply(h.CurrentPlayer(), ActionCheck, 0))
	require.Equal(t, Turn, h.Phase())
	assert.Equal(t, []string{"AD", "9C", "4S", "JH"}, deck.Labels(h.Community()))

	require.NoError(t, h.Apply(h.CurrentPlayer(), ActionCheck, 0))
	require.NoError(t, h.Apply(h.CurrentPlayer(), ActionCheck, 0))
	require.Equal(t, River, h.Phase())
	assert.Equal(t, []string{"AD", "9C", "4S", "JH", "6D"}, deck.Labels(h.Community()))
}

func TestAIContextCarriesTurnState(t *testing.T) {
	players := seatPlayers(1000, 1000)
	h := NewHand(players, 1, 10, 20, testRNG())
	require.NoError(t, h.Start())

	gc := h.AIContext(players[0])
	assert.Equal(t, "p0", gc.PlayerID)
	assert.Len(t, gc.HoleCards, 2)
	assert.Equal(t, 30, gc.Pot)
	assert.Equal(t, 10, gc.ToCall)
	assert.Equal(t, 20, gc.MinRaise)
	assert.Equal(t, "preflop", gc.Phase)
	assert.Equal(t, []string{ActionFold, ActionCall, ActionRaise}, gc.LegalActions)
	assert.Len(t, gc.History, 2)
}
