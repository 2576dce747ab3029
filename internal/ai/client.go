// Package ai delegates automated-seat decisions to a DeepSeek
// chat-completion endpoint. Every failure path collapses to a
// deterministic fallback the engine always accepts.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/a1henu/deepseek-poker/internal/game"
)

// DefaultTimeout bounds one decision round trip
const DefaultTimeout = 20 * time.Second

// Config holds the endpoint settings for the adapter
type Config struct {
	APIKey  string
	Model   string
	URL     string
	Timeout time.Duration
}

// Client is the decision adapter. It is stateless from the engine's
// perspective and safe for concurrent use across rooms.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *log.Logger
}

// New creates a client. A zero timeout falls back to DefaultTimeout.
func New(cfg Config, logger *log.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.WithPrefix("ai"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChooseAction asks the model for a decision given the seat's context.
// It never returns an error: transport failures, malformed replies, and
// illegal suggestions all yield the fallback.
func (c *Client) ChooseAction(ctx context.Context, gc game.Context) game.Decision {
	if c.cfg.APIKey == "" {
		return fallback(gc, "missing DeepSeek API key")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(gc),
		Temperature: 0.2,
	})
	if err != nil {
		return fallback(gc, fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fallback(gc, fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "player", gc.PlayerName, "error", err)
		return fallback(gc, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status", "player", gc.PlayerName, "status", resp.StatusCode)
		return fallback(gc, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return fallback(gc, fmt.Sprintf("malformed response: %v", err))
	}
	if len(parsed.Choices) == 0 {
		return fallback(gc, "response carried no choices")
	}

	decision, err := parseDecision(parsed.Choices[0].Message.Content)
	if err != nil {
		return fallback(gc, fmt.Sprintf("malformed decision: %v", err))
	}
	if !contains(gc.LegalActions, decision.Action) {
		c.logger.Warn("illegal action suggested", "player", gc.PlayerName, "action", decision.Action)
		return fallback(gc, "illegal action suggested")
	}

	c.logger.Debug("decision", "player", gc.PlayerName, "action", decision.Action, "amount", decision.Amount)
	return decision
}

// buildMessages formats the system and user prompts from the context
func buildMessages(gc game.Context) []chatMessage {
	history := gc.History
	if len(history) > 12 {
		history = history[len(history)-12:]
	}
	lines := make([]string, 0, len(history))
	for _, rec := range history {
		lines = append(lines, fmt.Sprintf("- %s -> %s (%d) during %s", rec.PlayerName, rec.Action, rec.Amount, rec.Phase))
	}
	historyText := strings.Join(lines, "\n")
	if historyText == "" {
		historyText = "No actions yet."
	}

	board := strings.Join(gc.CommunityCards, ", ")
	if board == "" {
		board = "None"
	}
	hole := strings.Join(gc.HoleCards, ", ")
	if hole == "" {
		hole = "Unknown"
	}

	prompt := fmt.Sprintf(
		"You control a single seat in a No-Limit Texas Hold'em poker game. "+
			"Always return a single JSON object with fields action, amount, and explanation. "+
			"Allowed actions: fold, check, call, bet, raise. "+
			"For bet/raise set amount to the FINAL total bet size (chips in front of you after the action).\n"+
			"Community cards: %s\n"+
			"Your hole cards: %s\n"+
			"Current pot: %d | Stack: %d | To call: %d | Min raise: %d\n"+
			"Current phase: %s\n"+
			"Action history:\n%s\n"+
			"Legal actions right now: %s\n"+
			`Only output JSON like {"action":"call","amount":0,"explanation":"reason"}.`,
		board, hole, gc.Pot, gc.Stack, gc.ToCall, gc.MinRaise, gc.Phase,
		historyText, strings.Join(gc.LegalActions, ", "),
	)

	return []chatMessage{
		{Role: "system", Content: "You are DeepSeek, a disciplined poker assistant. Always obey the betting rules."},
		{Role: "user", Content: prompt},
	}
}

// parseDecision extracts the outermost JSON object from the model's
// free-text reply and decodes it.
func parseDecision(message string) (game.Decision, error) {
	start := strings.Index(message, "{")
	end := strings.LastIndex(message, "}")
	if start == -1 || end == -1 || end < start {
		return game.Decision{}, fmt.Errorf("no JSON object in response")
	}

	var raw struct {
		Action      string  `json:"action"`
		Amount      float64 `json:"amount"`
		Explanation string  `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(message[start:end+1]), &raw); err != nil {
		return game.Decision{}, err
	}
	return game.Decision{
		Action:      strings.ToLower(raw.Action),
		Amount:      int(raw.Amount),
		Explanation: raw.Explanation,
	}, nil
}

// fallback mirrors the engine's safe play: check, else call when
// affordable, else fold. The reason rides along as the explanation.
func fallback(gc game.Context, reason string) game.Decision {
	if contains(gc.LegalActions, game.ActionCheck) {
		return game.Decision{Action: game.ActionCheck, Explanation: reason}
	}
	if contains(gc.LegalActions, game.ActionCall) && gc.Stack >= gc.ToCall {
		return game.Decision{Action: game.ActionCall, Amount: gc.ToCall, Explanation: reason}
	}
	return game.Decision{Action: game.ActionFold, Explanation: reason}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
