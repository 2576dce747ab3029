package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tableState mirrors the snapshot the server returns. Seat cards are a
// count for hidden hands and a label list once revealed, so the field
// stays untyped until render time.
type tableState struct {
	RoomID       string      `json:"room_id"`
	StateVersion uint64      `json:"state_version"`
	Phase        string      `json:"phase"`
	Pot          int         `json:"pot"`
	CurrentBet   int         `json:"current_bet"`
	Community    []string    `json:"community_cards"`
	DealerSeat   *string     `json:"dealer_player_id"`
	CurrentSeat  *string     `json:"current_player_id"`
	LastEvent    *string     `json:"last_event"`
	Seats        []seatState `json:"players"`
	Winners      []winner    `json:"winners"`
	Self         *selfState  `json:"self"`
}

type seatState struct {
	PlayerID string `json:"id"`
	Name     string `json:"name"`
	Stack    int    `json:"stack"`
	Bet      int    `json:"bet"`
	Folded   bool   `json:"folded"`
	AllIn    bool   `json:"all_in"`
	Busted   bool   `json:"busted"`
	IsAI     bool   `json:"is_ai"`
	IsHost   bool   `json:"is_host"`
	Cards    any    `json:"cards"`
}

type winner struct {
	PlayerName string   `json:"player_name"`
	Hand       string   `json:"hand"`
	Cards      []string `json:"cards"`
}

type selfState struct {
	PlayerID     string   `json:"player_id"`
	LegalActions []string `json:"legal_actions"`
	ToCall       int      `json:"to_call"`
	Stack        int      `json:"stack"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	potStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	foldedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7"))
)

const pollEvery = 750 * time.Millisecond

type stateMsg struct {
	state tableState
	err   error
}

type actionDoneMsg struct{ err error }

type tickMsg struct{}

type model struct {
	api     *apiClient
	session session

	input   textinput.Model
	state   tableState
	lastErr string
	width   int
}

func newModel(api *apiClient, sess session) *model {
	ti := textinput.New()
	ti.Placeholder = "start | fold | check | call | bet 40 | raise 60 | quit"
	ti.Focus()
	ti.CharLimit = 64
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	return &model{api: api, session: sess, input: ti}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchState(), m.tick())
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(pollEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *model) fetchState() tea.Cmd {
	return func() tea.Msg {
		st, err := m.api.state(m.session)
		return stateMsg{state: st, err: err}
	}
}

func (m *model) submit(action string, amount int) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: m.api.submitAction(m.session, action, amount)}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchState(), m.tick())

	case stateMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.state = msg.state
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		} else {
			m.lastErr = ""
		}
		return m, m.fetchState()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			cmd := m.handleCommand(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleCommand(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	fields := strings.Fields(strings.ToLower(line))
	switch fields[0] {
	case "quit", "exit":
		return tea.Quit
	case "start":
		return func() tea.Msg { return actionDoneMsg{err: m.api.startHand(m.session)} }
	case "fold", "check", "call":
		return m.submit(fields[0], 0)
	case "bet", "raise":
		if len(fields) < 2 {
			m.lastErr = fmt.Sprintf("%s needs an amount", fields[0])
			return nil
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount < 0 {
			m.lastErr = "amount must be a non-negative number"
			return nil
		}
		return m.submit(fields[0], amount)
	default:
		m.lastErr = fmt.Sprintf("unknown command %q", fields[0])
		return nil
	}
}

func (m *model) View() string {
	st := m.state
	var b strings.Builder

	title := fmt.Sprintf(" Room %s · %s ", st.RoomID, strings.ToUpper(st.Phase))
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString("Board: " + renderCards(st.Community))
	b.WriteString("   " + potStyle.Render(fmt.Sprintf("Pot %d", st.Pot)))
	if st.CurrentBet > 0 {
		b.WriteString(fmt.Sprintf("   Bet %d", st.CurrentBet))
	}
	b.WriteString("\n\n")

	for i, seat := range st.Seats {
		b.WriteString(m.renderSeat(i, seat, st))
		b.WriteString("\n")
	}

	if len(st.Winners) > 0 {
		b.WriteString("\n")
		for _, w := range st.Winners {
			line := fmt.Sprintf("%s wins with %s %s", w.PlayerName, w.Hand, renderCards(w.Cards))
			b.WriteString(turnStyle.Render(line) + "\n")
		}
	}
	if st.LastEvent != nil && *st.LastEvent != "" {
		b.WriteString("\n" + eventStyle.Render(*st.LastEvent) + "\n")
	}
	if st.Self != nil && len(st.Self.LegalActions) > 0 {
		b.WriteString("\n" + turnStyle.Render(fmt.Sprintf(
			"Your turn: %s (to call %d)",
			strings.Join(st.Self.LegalActions, ", "), st.Self.ToCall)) + "\n")
	}
	if m.lastErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.lastErr) + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	return b.String()
}

func (m *model) renderSeat(idx int, seat seatState, st tableState) string {
	var marks []string
	if st.DealerSeat != nil && *st.DealerSeat == seat.PlayerID {
		marks = append(marks, "D")
	}
	if seat.IsHost {
		marks = append(marks, "H")
	}
	if seat.IsAI {
		marks = append(marks, "AI")
	}
	badge := ""
	if len(marks) > 0 {
		badge = " [" + strings.Join(marks, ",") + "]"
	}

	line := fmt.Sprintf("%d. %-12s%s  stack %-6d", idx, seat.Name, badge, seat.Stack)
	if seat.Bet > 0 {
		line += fmt.Sprintf(" bet %-5d", seat.Bet)
	}
	line += " " + renderSeatCards(seat.Cards)
	switch {
	case seat.Busted:
		line += "  busted"
	case seat.Folded:
		line += "  folded"
	case seat.AllIn:
		line += "  all-in"
	}

	if seat.Busted || seat.Folded {
		return foldedStyle.Render(line)
	}
	if st.CurrentSeat != nil && *st.CurrentSeat == seat.PlayerID {
		return turnStyle.Render(line + "  ← to act")
	}
	return line
}

// renderSeatCards handles the two shapes of the cards field: a float64
// count from JSON for hidden hands, or a label list once shown.
func renderSeatCards(cards any) string {
	switch v := cards.(type) {
	case float64:
		return strings.TrimSpace(strings.Repeat("🂠 ", int(v)))
	case []any:
		labels := make([]string, 0, len(v))
		for _, c := range v {
			if s, ok := c.(string); ok {
				labels = append(labels, s)
			}
		}
		return renderCards(labels)
	default:
		return ""
	}
}

func renderCards(labels []string) string {
	if len(labels) == 0 {
		return foldedStyle.Render("--")
	}
	parts := make([]string, len(labels))
	for i, label := range labels {
		style := blackCardStyle
		if strings.HasSuffix(label, "H") || strings.HasSuffix(label, "D") {
			style = redCardStyle
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, " ")
}
