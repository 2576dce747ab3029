package room

import (
	"github.com/a1henu/deepseek-poker/internal/deck"
	"github.com/a1henu/deepseek-poker/internal/game"
)

// SeatState is one seat as seen by a viewer. Cards is the hole-card
// count while hidden, or the list of labels once revealed; the secret
// appears only in the viewer's own entry.
type SeatState struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Stack  int    `json:"stack"`
	Bet    int    `json:"bet"`
	IsAI   bool   `json:"is_ai"`
	IsHost bool   `json:"is_host"`
	Folded bool   `json:"folded"`
	AllIn  bool   `json:"all_in"`
	Busted bool   `json:"busted"`
	Seat   int    `json:"seat"`
	Cards  any    `json:"cards"`
	Secret string `json:"secret,omitempty"`
}

// SelfState carries the viewer-private fields of a snapshot
type SelfState struct {
	PlayerID     string   `json:"player_id"`
	LegalActions []string `json:"legal_actions"`
	ToCall       int      `json:"to_call"`
	Stack        int      `json:"stack"`
}

// Snapshot is the full room state for one viewer. Nullable ids are
// pointers so absent values marshal as JSON null.
type Snapshot struct {
	RoomID            string              `json:"room_id"`
	TotalSeats        int                 `json:"total_seats"`
	AIPlayers         int                 `json:"ai_players"`
	SmallBlind        int                 `json:"small_blind"`
	BigBlind          int                 `json:"big_blind"`
	StateVersion      uint64              `json:"state_version"`
	CreatedAt         string              `json:"created_at"`
	HostPlayerID      string              `json:"host_player_id"`
	Players           []SeatState         `json:"players"`
	Phase             string              `json:"phase"`
	Pot               int                 `json:"pot"`
	CurrentBet        int                 `json:"current_bet"`
	CommunityCards    []string            `json:"community_cards"`
	Actions           []game.ActionRecord `json:"actions"`
	Winners           []game.Winner       `json:"winners"`
	CurrentPlayerID   *string             `json:"current_player_id"`
	LastEvent         *string             `json:"last_event"`
	DealerPlayerID    *string             `json:"dealer_player_id"`
	SmallBlindPlayerID *string            `json:"small_blind_player_id"`
	BigBlindPlayerID  *string             `json:"big_blind_player_id"`
	Self              *SelfState          `json:"self,omitempty"`
}

// Summary is the per-room entry of the lobby listing
type Summary struct {
	RoomID     string `json:"room_id"`
	TotalSeats int    `json:"total_seats"`
	AIPlayers  int    `json:"ai_players"`
	Humans     int    `json:"humans"`
	Phase      string `json:"phase"`
	CreatedAt  string `json:"created_at"`
}

// snapshotLocked builds the viewer's snapshot. Caller holds the mutex.
func (r *Room) snapshotLocked(viewer *game.Player) Snapshot {
	snap := Snapshot{
		RoomID:         r.id,
		TotalSeats:     r.totalSeats,
		AIPlayers:      r.aiRequested,
		SmallBlind:     r.smallBlind,
		BigBlind:       r.bigBlind,
		StateVersion:   r.version,
		CreatedAt:      r.createdAt.UTC().Format(isoUTC),
		HostPlayerID:   r.hostID,
		Phase:          game.Waiting.String(),
		CommunityCards: []string{},
		Actions:        []game.ActionRecord{},
		Winners:        []game.Winner{},
	}

	revealAll := r.hand != nil && r.hand.Over()
	for _, p := range r.seats {
		reveal := revealAll || (viewer != nil && viewer.ID == p.ID)
		entry := SeatState{
			ID:     p.ID,
			Name:   p.Name,
			Stack:  p.Stack,
			Bet:    p.Bet,
			IsAI:   p.IsAI,
			IsHost: p.IsHost,
			Folded: p.Folded,
			AllIn:  p.AllIn,
			Busted: p.Busted,
			Seat:   p.Seat,
		}
		if reveal {
			entry.Cards = deck.Labels(p.HoleCards)
		} else {
			entry.Cards = len(p.HoleCards)
		}
		if viewer != nil && viewer.ID == p.ID {
			entry.Secret = p.Secret
		}
		snap.Players = append(snap.Players, entry)
	}

	if h := r.hand; h != nil {
		snap.Phase = h.Phase().String()
		snap.Pot = h.Pot()
		snap.CurrentBet = h.CurrentBet()
		snap.CommunityCards = deck.Labels(h.Community())
		snap.Actions = h.Actions()
		snap.Winners = h.Winners()
		if cur := h.CurrentPlayer(); cur != nil {
			snap.CurrentPlayerID = &cur.ID
		}
		if ev := h.LastEvent(); ev != "" {
			snap.LastEvent = &ev
		}
		snap.DealerPlayerID = r.seatID(h.DealerIndex())
		snap.SmallBlindPlayerID = r.seatID(h.SmallBlindIndex())
		snap.BigBlindPlayerID = r.seatID(h.BigBlindIndex())

		if viewer != nil {
			snap.Self = &SelfState{
				PlayerID:     viewer.ID,
				LegalActions: h.LegalActions(viewer),
				ToCall:       h.ToCall(viewer),
				Stack:        viewer.Stack,
			}
		}
	}
	return snap
}

func (r *Room) seatID(idx int) *string {
	if idx < 0 || idx >= len(r.seats) {
		return nil
	}
	return &r.seats[idx].ID
}

func (r *Room) summaryLocked() Summary {
	humans := 0
	for _, p := range r.seats {
		if !p.IsAI {
			humans++
		}
	}
	phase := game.Waiting.String()
	if r.hand != nil {
		phase = r.hand.Phase().String()
	}
	return Summary{
		RoomID:     r.id,
		TotalSeats: r.totalSeats,
		AIPlayers:  r.aiRequested,
		Humans:     humans,
		Phase:      phase,
		CreatedAt:  r.createdAt.UTC().Format(isoUTC),
	}
}

// ISO-8601 with microseconds and a literal Z; timestamps are UTC.
const isoUTC = "2006-01-02T15:04:05.000000Z"
