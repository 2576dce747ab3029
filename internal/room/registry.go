package room

import (
	rand "math/rand/v2"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/a1henu/deepseek-poker/internal/game"
	"github.com/a1henu/deepseek-poker/internal/ident"
)

// Registry is the process-wide map from room code to room. Its mutex
// guards only the map; per-room work happens under each room's own
// lock, and the registry lock is never held across a decider call.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	maxRooms int
	decider  Decider
	idents   *ident.Generator
	rng      *rand.Rand // seeds per-room generators; guarded by mu
	clock    quartz.Clock
	logger   *log.Logger
}

// NewRegistry creates a registry with a room cap
func NewRegistry(maxRooms int, decider Decider, idents *ident.Generator, rng *rand.Rand, clock quartz.Clock, logger *log.Logger) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		maxRooms: maxRooms,
		decider:  decider,
		idents:   idents,
		rng:      rng,
		clock:    clock,
		logger:   logger.WithPrefix("registry"),
	}
}

// CreateRoom validates settings, allocates a room code, and seats the
// host. Code collisions at sane caps are rare enough to accept.
func (reg *Registry) CreateRoom(hostName string, s Settings) (*Room, *game.Player, error) {
	if s.TotalSeats < 2 || s.TotalSeats > 9 {
		return nil, nil, ErrSeatsOutOfRange
	}
	if s.AIPlayers < 0 || s.AIPlayers >= s.TotalSeats {
		return nil, nil, ErrTooManyAISeats
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if len(reg.rooms) >= reg.maxRooms {
		return nil, nil, ErrRoomLimit
	}
	code := reg.idents.RoomCode()
	// rand.Rand is not safe for concurrent use, and room mutexes never
	// nest, so every room gets its own generator seeded here under the
	// registry lock.
	rng := rand.New(rand.NewPCG(reg.rng.Uint64(), reg.rng.Uint64()))
	r, host := New(code, hostName, s, Deps{
		Decider: reg.decider,
		Idents:  reg.idents,
		RNG:     rng,
		Clock:   reg.clock,
		Logger:  reg.logger,
	})
	reg.rooms[code] = r
	reg.logger.Info("room created", "room", code, "seats", s.TotalSeats, "ai", s.AIPlayers)
	return r, host, nil
}

// Get finds a room by code
func (reg *Registry) Get(roomID string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrUnknownRoom
	}
	return r, nil
}

// List summarizes every room, ordered by code for stable output
func (reg *Registry) List() []Summary {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.Unlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].id < rooms[j].id })
	out := make([]Summary, len(rooms))
	for i, r := range rooms {
		out[i] = r.Summary()
	}
	return out
}
