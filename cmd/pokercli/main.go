package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

var CLI struct {
	Server string `short:"s" default:"http://localhost:8080" env:"POKERCLI_SERVER" help:"Base URL of the poker server."`
	Name   string `short:"n" default:"Player" help:"Display name to use at the table."`

	Create struct {
		Seats      int `default:"6" help:"Total seats at the table."`
		AI         int `default:"5" help:"Automated seats to fill."`
		Stack      int `help:"Starting stack (server default when omitted)."`
		SmallBlind int `help:"Small blind (server default when omitted)."`
		BigBlind   int `help:"Big blind (server default when omitted)."`
	} `cmd:"" help:"Create a room and sit down as host."`

	Join struct {
		Room string `arg:"" help:"Room code to join."`
	} `cmd:"" help:"Join an existing room."`

	Watch struct {
		Room string `arg:"" help:"Room code to observe."`
	} `cmd:"" help:"Observe a room without taking a seat."`
}

func main() {
	kctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	api := &apiClient{base: CLI.Server, http: &http.Client{Timeout: 10 * time.Second}}

	var sess session
	var err error
	switch kctx.Command() {
	case "create":
		sess, err = api.createRoom(CLI.Name, CLI.Create.Seats, CLI.Create.AI,
			CLI.Create.Stack, CLI.Create.SmallBlind, CLI.Create.BigBlind)
	case "join <room>":
		sess, err = api.joinRoom(CLI.Join.Room, CLI.Name)
	case "watch <room>":
		sess = session{RoomID: CLI.Watch.Room}
	}
	if err != nil {
		logger.Error("could not enter room", "error", err)
		kctx.Exit(1)
	}

	model := newModel(api, sess)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("tui exited", "error", err)
		kctx.Exit(1)
	}
}

// session identifies the seat this client controls. Watchers carry a
// room code only.
type session struct {
	RoomID string
	ID     string
	Secret string
}

type apiClient struct {
	base string
	http *http.Client
}

// apiError is the decoded {"detail": ...} body of a non-200 reply.
type apiError struct {
	Detail string `json:"detail"`
}

func (e *apiError) Error() string { return e.Detail }

func (c *apiClient) do(method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Detail != "" {
			return &apiErr
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type enterResponse struct {
	RoomID       string          `json:"room_id"`
	PlayerID     string          `json:"player_id"`
	PlayerSecret string          `json:"player_secret"`
	State        json.RawMessage `json:"state"`
}

func (c *apiClient) createRoom(hostName string, seats, ai, stack, sb, bb int) (session, error) {
	var resp enterResponse
	err := c.do(http.MethodPost, "/rooms", map[string]any{
		"host_name":      hostName,
		"total_seats":    seats,
		"ai_players":     ai,
		"starting_stack": stack,
		"small_blind":    sb,
		"big_blind":      bb,
	}, &resp)
	if err != nil {
		return session{}, err
	}
	return session{RoomID: resp.RoomID, ID: resp.PlayerID, Secret: resp.PlayerSecret}, nil
}

func (c *apiClient) joinRoom(roomID, name string) (session, error) {
	var resp enterResponse
	err := c.do(http.MethodPost, "/rooms/"+roomID+"/join", map[string]any{
		"player_name": name,
	}, &resp)
	if err != nil {
		return session{}, err
	}
	return session{RoomID: resp.RoomID, ID: resp.PlayerID, Secret: resp.PlayerSecret}, nil
}

func (c *apiClient) startHand(s session) error {
	return c.do(http.MethodPost, "/rooms/"+s.RoomID+"/start", map[string]any{
		"player_id":     s.ID,
		"player_secret": s.Secret,
	}, nil)
}

func (c *apiClient) submitAction(s session, action string, amount int) error {
	return c.do(http.MethodPost, "/rooms/"+s.RoomID+"/action", map[string]any{
		"player_id":     s.ID,
		"player_secret": s.Secret,
		"action":        action,
		"amount":        amount,
	}, nil)
}

func (c *apiClient) state(s session) (tableState, error) {
	path := "/rooms/" + s.RoomID
	if s.ID != "" {
		path += "?player_id=" + s.ID + "&player_secret=" + s.Secret
	}
	var resp struct {
		State tableState `json:"state"`
	}
	err := c.do(http.MethodGet, path, nil, &resp)
	return resp.State, err
}
