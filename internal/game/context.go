package game

import "github.com/a1henu/deepseek-poker/internal/deck"

// Context is the snapshot handed to an external decider for one
// automated seat's turn. It carries everything needed to choose a
// legal action and nothing private to other seats.
type Context struct {
	PlayerID       string
	PlayerName     string
	HoleCards      []string
	CommunityCards []string
	Pot            int
	Stack          int
	ToCall         int
	MinRaise       int
	Phase          string
	LegalActions   []string
	History        []ActionRecord
}

// Decision is an external decider's answer: one of the five action
// labels plus the desired amount for bet/raise.
type Decision struct {
	Action      string
	Amount      int
	Explanation string
}

// AIContext builds the decision snapshot for the given seat
func (h *Hand) AIContext(p *Player) Context {
	history := make([]ActionRecord, len(h.actions))
	copy(history, h.actions)
	return Context{
		PlayerID:       p.ID,
		PlayerName:     p.Name,
		HoleCards:      deck.Labels(p.HoleCards),
		CommunityCards: deck.Labels(h.community),
		Pot:            h.pot,
		Stack:          p.Stack,
		ToCall:         h.ToCall(p),
		MinRaise:       h.minRaise,
		Phase:          h.phase.String(),
		LegalActions:   h.LegalActions(p),
		History:        history,
	}
}
