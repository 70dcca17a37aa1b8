package installer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one text value. It is skipped unless its transport is
// enabled.
type InputStep struct {
	input     textinput.Model
	prompt    string
	key       string
	transport string
	fallback  string
	check     func(string) string
	err       string
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func NewHTTPAddrStep() Step {
	return &InputStep{
		input:     newInput("127.0.0.1:8087", false),
		prompt:    "HTTP listen address:",
		key:       "GEODROP_HTTP_ADDR",
		transport: "http",
		fallback:  "127.0.0.1:8087",
		check: func(v string) string {
			if !strings.Contains(v, ":") {
				return "address must be host:port"
			}
			return ""
		},
	}
}

func NewTelegramTokenStep() Step {
	return &InputStep{
		input:     newInput("123456789:ABCDEF...", true),
		prompt:    "Enter your Telegram Bot Token:",
		key:       "GEODROP_TELEGRAM_TOKEN",
		transport: "telegram",
		check: func(v string) string {
			if v == "" {
				return "token is required"
			}
			return ""
		},
	}
}

func NewTelegramOwnerStep() Step {
	return &InputStep{
		input:     newInput("123456789", false),
		prompt:    "Enter your Telegram User ID (Owner):",
		key:       "GEODROP_TELEGRAM_OWNER_ID",
		transport: "telegram",
		check: func(v string) string {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return "owner id must be a number"
			}
			return ""
		},
	}
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.transport != "" && !state.Enabled(s.transport)
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.fallback
		}
		if s.check != nil {
			if msg := s.check(val); msg != "" {
				s.err = msg
				return s, nil
			}
		}
		state.EnvVars[s.key] = val
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	out := s.prompt + "\n\n" + s.input.View() + "\n\n"
	if s.err != "" {
		out += errorStyle.Render(s.err) + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}
