package game

// Phase is the stage of a hand. Transitions are monotonic; any phase
// may jump to Showdown when one seat remains.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[p]
}

// Action labels accepted by Apply
const (
	ActionFold  = "fold"
	ActionCheck = "check"
	ActionCall  = "call"
	ActionBet   = "bet"
	ActionRaise = "raise"
)

const (
	labelSmallBlind = "small_blind"
	labelBigBlind   = "big_blind"
)
