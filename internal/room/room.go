// Package room coordinates seats, hands, and automated play for one
// table, and hosts the process-wide registry of rooms.
package room

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/a1henu/deepseek-poker/internal/game"
	"github.com/a1henu/deepseek-poker/internal/ident"
)

// Decider chooses an action for an automated seat. Implementations may
// block on the network; the room never holds its mutex across the call.
type Decider interface {
	ChooseAction(ctx context.Context, gc game.Context) game.Decision
}

// Settings are the fixed parameters of a room
type Settings struct {
	TotalSeats    int
	AIPlayers     int
	StartingStack int
	SmallBlind    int
	BigBlind      int
}

// Deps are the room's injected collaborators
type Deps struct {
	Decider Decider
	Idents  *ident.Generator
	RNG     *rand.Rand
	Clock   quartz.Clock
	Logger  *log.Logger
}

// Room is a long-lived table: a fixed seat budget, at most one active
// hand, and a mutex guarding every mutation. The state version
// increases on each observable change so clients can detect movement.
type Room struct {
	mu sync.Mutex

	id          string
	seats       []*game.Player
	totalSeats  int
	aiRequested int
	startStack  int
	smallBlind  int
	bigBlind    int
	hostID      string
	createdAt   time.Time

	hand         *game.Hand
	dealer       int  // -1 before the first hand
	forcedDealer *int // pinned seat for the next hand, if any
	version      uint64

	decider Decider
	idents  *ident.Generator
	rng     *rand.Rand
	logger  *log.Logger

	watchers map[chan uint64]struct{}
}

// New creates a room with the host already seated and returns both
func New(id string, hostName string, s Settings, deps Deps) (*Room, *game.Player) {
	r := &Room{
		id:          id,
		totalSeats:  s.TotalSeats,
		aiRequested: s.AIPlayers,
		startStack:  s.StartingStack,
		smallBlind:  s.SmallBlind,
		bigBlind:    s.BigBlind,
		createdAt:   deps.Clock.Now(),
		dealer:      -1,
		version:     1,
		decider:     deps.Decider,
		idents:      deps.Idents,
		rng:         deps.RNG,
		logger:      deps.Logger.WithPrefix("room").With("room", id),
		watchers:    make(map[chan uint64]struct{}),
	}
	host := r.newPlayer(hostName, false)
	host.IsHost = true
	r.hostID = host.ID
	r.seats = append(r.seats, host)
	return r, host
}

func (r *Room) ID() string { return r.id }

func (r *Room) newPlayer(name string, isAI bool) *game.Player {
	p := &game.Player{
		ID:    r.idents.PlayerID(),
		Name:  name,
		Stack: r.startStack,
		IsAI:  isAI,
		Seat:  len(r.seats),
	}
	if !isAI {
		p.Secret = r.idents.Secret()
	}
	return p
}

// bump records an observable mutation and wakes watchers
func (r *Room) bump() {
	r.version++
	for ch := range r.watchers {
		select {
		case ch <- r.version:
		default:
		}
	}
}

// Watch subscribes to state-version notifications. The returned cancel
// must be called; slow consumers miss intermediate versions but always
// receive a trailing one.
func (r *Room) Watch() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	r.mu.Lock()
	r.watchers[ch] = struct{}{}
	r.mu.Unlock()
	cancel := func() {
		r.mu.Lock()
		delete(r.watchers, ch)
		r.mu.Unlock()
	}
	return ch, cancel
}

// Join seats a human player and returns it with a fresh snapshot
func (r *Room) Join(name string) (*game.Player, Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.addPlayerLocked(name, false)
	if err != nil {
		return nil, Snapshot{}, err
	}
	return p, r.snapshotLocked(p), nil
}

func (r *Room) addPlayerLocked(name string, isAI bool) (*game.Player, error) {
	if !isAI {
		humanSlots := r.totalSeats - r.aiRequested
		humans := 0
		for _, p := range r.seats {
			if !p.IsAI {
				humans++
			}
		}
		if humans >= humanSlots {
			return nil, ErrHumanSeatsFull
		}
	}
	if len(r.seats) >= r.totalSeats {
		return nil, ErrRoomFull
	}
	p := r.newPlayer(name, isAI)
	r.seats = append(r.seats, p)
	r.bump()
	return p, nil
}

// lookupLocked finds a seat by player id
func (r *Room) lookupLocked(playerID string) (*game.Player, error) {
	for _, p := range r.seats {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrUnknownPlayer
}

// verifyLocked authenticates a seat; secrets compare in constant time.
// Automated seats have no secret and can never be driven externally.
func (r *Room) verifyLocked(playerID, secret string) (*game.Player, error) {
	p, err := r.lookupLocked(playerID)
	if err != nil {
		return nil, err
	}
	if p.Secret == "" || !ident.SecretsEqual(p.Secret, secret) {
		return nil, ErrSecretMismatch
	}
	return p, nil
}

// spawnAILocked tops the table up to its seat budget with bots
func (r *Room) spawnAILocked() error {
	current := 0
	for _, p := range r.seats {
		if p.IsAI {
			current++
		}
	}
	for i := current; i < r.aiRequested; i++ {
		if _, err := r.addPlayerLocked(fmt.Sprintf("Bot %d", i+1), true); err != nil {
			return err
		}
	}
	return nil
}

// nextDealerLocked rotates the button: random among chipped seats for
// the first hand, the next chipped seat clockwise afterwards.
func (r *Room) nextDealerLocked() (int, error) {
	var alive []int
	for idx, p := range r.seats {
		if p.Stack > 0 && !p.Busted {
			alive = append(alive, idx)
		}
	}
	if len(alive) == 0 {
		return 0, ErrTooFewChipped
	}
	if r.forcedDealer != nil {
		idx := *r.forcedDealer
		r.forcedDealer = nil
		return idx, nil
	}
	if r.dealer < 0 {
		return alive[r.rng.IntN(len(alive))], nil
	}
	total := len(r.seats)
	for offset := 1; offset <= total; offset++ {
		idx := (r.dealer + offset) % total
		for _, a := range alive {
			if a == idx {
				return idx, nil
			}
		}
	}
	return alive[0], nil
}

// SetDealer pins the dealer seat for the next hand only; later hands
// rotate normally. Deterministic deals for tests.
func (r *Room) SetDealer(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forcedDealer = &seat
}

// StartHand begins the next deal on the host's request, spawning any
// missing automated seats first, then drives automated play until a
// human is up or the hand ends.
func (r *Room) StartHand(ctx context.Context, playerID, secret string, opts ...game.Option) (Snapshot, error) {
	r.mu.Lock()
	requester, err := r.verifyLocked(playerID, secret)
	if err != nil {
		r.mu.Unlock()
		return Snapshot{}, err
	}
	if requester.ID != r.hostID {
		r.mu.Unlock()
		return Snapshot{}, ErrNotHost
	}
	if r.hand != nil && !r.hand.Over() {
		r.mu.Unlock()
		return Snapshot{}, ErrHandInProgress
	}
	if err := r.spawnAILocked(); err != nil {
		r.mu.Unlock()
		return Snapshot{}, err
	}
	chipped := 0
	for _, p := range r.seats {
		if p.Stack > 0 {
			chipped++
		}
	}
	if chipped < 2 {
		r.mu.Unlock()
		return Snapshot{}, ErrTooFewChipped
	}
	dealer, err := r.nextDealerLocked()
	if err != nil {
		r.mu.Unlock()
		return Snapshot{}, err
	}
	r.dealer = dealer
	hand := game.NewHand(r.seats, dealer, r.smallBlind, r.bigBlind, r.rng, opts...)
	if err := hand.Start(); err != nil {
		r.mu.Unlock()
		return Snapshot{}, err
	}
	r.hand = hand
	r.bump()
	r.logger.Info("hand started", "dealer", dealer, "seats", len(r.seats))
	r.mu.Unlock()

	r.autoPlay(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(requester), nil
}

// SubmitAction applies one human action, then drives automated play to
// a stable point before returning the snapshot.
func (r *Room) SubmitAction(ctx context.Context, playerID, secret, action string, amount int) (Snapshot, error) {
	r.mu.Lock()
	p, err := r.verifyLocked(playerID, secret)
	if err != nil {
		r.mu.Unlock()
		return Snapshot{}, err
	}
	if r.hand == nil {
		r.mu.Unlock()
		return Snapshot{}, ErrNoActiveHand
	}
	if err := r.hand.Apply(p, action, amount); err != nil {
		r.mu.Unlock()
		return Snapshot{}, err
	}
	r.bump()
	r.mu.Unlock()

	r.autoPlay(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(p), nil
}

// State builds a snapshot for an optional authenticated viewer
func (r *Room) State(playerID, secret string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var viewer *game.Player
	if playerID != "" && secret != "" {
		p, err := r.verifyLocked(playerID, secret)
		if err != nil {
			return Snapshot{}, err
		}
		viewer = p
	}
	return r.snapshotLocked(viewer), nil
}

// Summary returns the lobby listing entry
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked()
}

// autoPlay loops while an automated seat is up: snapshot the context
// under the lock, call the decider with the lock released, reacquire
// and apply. An illegal decision is replaced by the fallback so the
// hand always makes progress.
func (r *Room) autoPlay(ctx context.Context) {
	for {
		r.mu.Lock()
		hand := r.hand
		if hand == nil || hand.Over() {
			r.mu.Unlock()
			return
		}
		cur := hand.CurrentPlayer()
		if cur == nil || !cur.IsAI {
			r.mu.Unlock()
			return
		}
		gc := hand.AIContext(cur)
		r.mu.Unlock()

		decision := r.decider.ChooseAction(ctx, gc)

		r.mu.Lock()
		if r.hand != hand || hand.Over() {
			r.mu.Unlock()
			return
		}
		cur = hand.CurrentPlayer()
		if cur == nil || !cur.IsAI {
			r.mu.Unlock()
			continue
		}
		if err := hand.Apply(cur, decision.Action, decision.Amount); err != nil {
			r.logger.Debug("decision rejected, falling back",
				"player", cur.Name, "action", decision.Action, "error", err)
			fa, famount := hand.Fallback(cur)
			if err := hand.Apply(cur, fa, famount); err != nil {
				// Fallback is always legal for a seat on turn; bail out
				// rather than spin if that invariant ever breaks.
				r.logger.Error("fallback rejected", "player", cur.Name, "error", err)
				r.mu.Unlock()
				return
			}
		}
		r.bump()
		r.mu.Unlock()

		// Yield so concurrent room work can interleave between turns.
		runtime.Gosched()
	}
}
