package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var transports = []string{"CLI", "HTTP", "Telegram"}

// TransportStep toggles which front-ends geodrop starts.
type TransportStep struct {
	cursor   int
	selected map[int]bool
	err      string
}

func NewTransportStep() Step {
	return &TransportStep{selected: map[int]bool{0: true}}
}

func (s *TransportStep) Init() tea.Cmd {
	return nil
}

func (s *TransportStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(transports)-1 {
				s.cursor++
			}
		case " ", "x":
			s.selected[s.cursor] = !s.selected[s.cursor]
			s.err = ""
		case "enter":
			picked := false
			for i, name := range transports {
				on := s.selected[i]
				picked = picked || on
				state.EnvVars["GEODROP_ENABLE_"+strings.ToUpper(name)] = fmt.Sprintf("%t", on)
			}
			if !picked {
				s.err = "select at least one transport"
				return s, nil
			}
			return nil, nil
		}
	}
	return s, nil
}

func (s *TransportStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select transports (space to toggle):\n\n")
	for i, name := range transports {
		box := "[ ]"
		if s.selected[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, name)
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	if s.err != "" {
		b.WriteString("\n" + errorStyle.Render(s.err) + "\n")
	}
	b.WriteString("\n(press enter to confirm)\n")
	return b.String()
}
