package game

import "errors"

// Rule violations surfaced by the betting state machine. Callers match
// with errors.Is; a failed Apply never moves chips.
var (
	ErrNotEnoughPlayers = errors.New("not enough players with chips")

	ErrHandOver      = errors.New("hand already finished")
	ErrWrongTurn     = errors.New("not this player's turn")
	ErrUnknownAction = errors.New("unknown action")

	ErrCannotCheck        = errors.New("cannot check facing a bet")
	ErrNothingToCall      = errors.New("nothing to call")
	ErrBetNotAllowed      = errors.New("bet not allowed, must raise")
	ErrBelowMinBet        = errors.New("bet must be at least the big blind")
	ErrInsufficientChips  = errors.New("insufficient chips to bet")
	ErrNothingToRaise     = errors.New("nothing to raise")
	ErrRaiseMustIncrease  = errors.New("raise must increase bet")
	ErrRaiseMustExceedCall = errors.New("raise must exceed call amount")
)
