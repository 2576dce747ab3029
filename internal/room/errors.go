package room

import "errors"

var (
	ErrRoomFull       = errors.New("room is at capacity")
	ErrHumanSeatsFull = errors.New("room is full for human players")
	ErrNotHost        = errors.New("only the host can start a hand")
	ErrHandInProgress = errors.New("current hand has not finished")
	ErrTooFewChipped  = errors.New("need at least two players with chips")
	ErrNoActiveHand   = errors.New("no active hand")
	ErrUnknownPlayer  = errors.New("player not found")
	ErrSecretMismatch = errors.New("invalid player secret")

	ErrUnknownRoom = errors.New("room not found")
	ErrRoomLimit   = errors.New("room limit reached")

	ErrSeatsOutOfRange = errors.New("seats must be between 2 and 9")
	ErrTooManyAISeats  = errors.New("AI players must be fewer than seats")
)
