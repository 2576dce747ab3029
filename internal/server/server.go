// Package server exposes the room registry over HTTP plus a WebSocket
// watch endpoint for state-change notifications.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/a1henu/deepseek-poker/internal/config"
	"github.com/a1henu/deepseek-poker/internal/game"
	"github.com/a1henu/deepseek-poker/internal/room"
)

// Server is the HTTP front of the registry
type Server struct {
	addr     string
	registry *room.Registry
	defaults config.TableDefaults
	upgrader websocket.Upgrader
	logger   *log.Logger
	httpSrv  *http.Server
}

// New creates a server over the given registry
func New(addr string, registry *room.Registry, defaults config.TableDefaults, logger *log.Logger) *Server {
	return &Server{
		addr:     addr,
		registry: registry,
		defaults: defaults,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.WithPrefix("server"),
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /rooms", s.handleListRooms)
	mux.HandleFunc("POST /rooms", s.handleCreateRoom)
	mux.HandleFunc("POST /rooms/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /rooms/{id}/start", s.handleStart)
	mux.HandleFunc("POST /rooms/{id}/action", s.handleAction)
	mux.HandleFunc("GET /rooms/{id}", s.handleState)
	mux.HandleFunc("GET /rooms/{id}/watch", s.handleWatch)
	return cors(mux)
}

// ListenAndServe blocks serving requests until the context is canceled
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpSrv = &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// cors allows browser clients from any origin; the asset host is a
// separate concern.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": s.registry.List()})
}

type createRoomRequest struct {
	HostName      string `json:"host_name"`
	TotalSeats    int    `json:"total_seats"`
	AIPlayers     int    `json:"ai_players"`
	StartingStack int    `json:"starting_stack"`
	SmallBlind    int    `json:"small_blind"`
	BigBlind      int    `json:"big_blind"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validName(req.HostName) {
		writeError(w, http.StatusBadRequest, "host_name must be 1-32 characters")
		return
	}
	if req.StartingStack != 0 && req.StartingStack < 100 {
		writeError(w, http.StatusBadRequest, "starting_stack must be at least 100")
		return
	}
	if req.SmallBlind < 0 || req.BigBlind < 0 ||
		(req.SmallBlind != 0 && req.SmallBlind < 1) || (req.BigBlind != 0 && req.BigBlind < 2) {
		writeError(w, http.StatusBadRequest, "invalid blind amounts")
		return
	}

	settings := room.Settings{
		TotalSeats:    req.TotalSeats,
		AIPlayers:     req.AIPlayers,
		StartingStack: orDefault(req.StartingStack, s.defaults.StartingStack),
		SmallBlind:    orDefault(req.SmallBlind, s.defaults.SmallBlind),
		BigBlind:      orDefault(req.BigBlind, s.defaults.BigBlind),
	}
	rm, host, err := s.registry.CreateRoom(req.HostName, settings)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	snap, err := rm.State(host.ID, host.Secret)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":       rm.ID(),
		"player_id":     host.ID,
		"player_secret": host.Secret,
		"state":         snap,
	})
}

type joinRequest struct {
	PlayerName string `json:"player_name"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validName(req.PlayerName) {
		writeError(w, http.StatusBadRequest, "player_name must be 1-32 characters")
		return
	}
	p, snap, err := rm.Join(req.PlayerName)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":       rm.ID(),
		"player_id":     p.ID,
		"player_secret": p.Secret,
		"state":         snap,
	})
}

type startRequest struct {
	PlayerID     string `json:"player_id"`
	PlayerSecret string `json:"player_secret"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}
	snap, err := rm.StartHand(r.Context(), req.PlayerID, req.PlayerSecret)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room_id": rm.ID(), "state": snap})
}

type actionRequest struct {
	PlayerID     string `json:"player_id"`
	PlayerSecret string `json:"player_secret"`
	Action       string `json:"action"`
	Amount       int    `json:"amount"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}
	switch req.Action {
	case game.ActionFold, game.ActionCheck, game.ActionCall, game.ActionBet, game.ActionRaise:
	default:
		writeError(w, http.StatusBadRequest, "action must be one of fold, check, call, bet, raise")
		return
	}
	snap, err := rm.SubmitAction(r.Context(), req.PlayerID, req.PlayerSecret, req.Action, req.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room_id": rm.ID(), "state": snap})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	snap, err := rm.State(q.Get("player_id"), q.Get("player_secret"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room_id": rm.ID(), "state": snap})
}

func (s *Server) lookupRoom(w http.ResponseWriter, r *http.Request) (*room.Room, bool) {
	rm, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return nil, false
	}
	return rm, true
}

func validName(name string) bool {
	return len(name) >= 1 && len(name) <= 32
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeDomainError maps registry, room, and engine errors onto status
// codes: 404 for unknown ids, 403 for authorization, 503 for the room
// cap, 400 for everything the rules reject.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, room.ErrUnknownRoom), errors.Is(err, room.ErrUnknownPlayer):
		status = http.StatusNotFound
	case errors.Is(err, room.ErrSecretMismatch), errors.Is(err, room.ErrNotHost):
		status = http.StatusForbidden
	case errors.Is(err, room.ErrRoomLimit):
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, err.Error())
}
