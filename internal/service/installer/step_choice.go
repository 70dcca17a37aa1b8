package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	value string
	label string
}

// ChoiceStep picks a single value and stores it under key.
type ChoiceStep struct {
	prompt  string
	key     string
	choices []choice
	cursor  int
}

func NewStorageStep() Step {
	return &ChoiceStep{
		prompt: "Where should dropped content be stored?",
		key:    "GEODROP_STORAGE",
		choices: []choice{
			{value: "sqlite", label: "SQLite database (recommended)"},
			{value: "file", label: "Plain JSON file"},
		},
	}
}

func NewModeStep() Step {
	return &ChoiceStep{
		prompt: "Initial AR view mode:",
		key:    "GEODROP_MODE",
		choices: []choice{
			{value: "scan", label: "Scan"},
			{value: "location", label: "Location (drops appear immediately)"},
			{value: "hand", label: "Hand"},
			{value: "face", label: "Face"},
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.key] = s.choices[s.cursor].value
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
