package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step represents a single step in the installation wizard
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// Skipper is implemented by steps that only apply to some configurations.
type Skipper interface {
	Skip(state *InstallState) bool
}

func getSteps(runtimePath string) []Step {
	return []Step{
		NewStorageStep(),
		NewTransportStep(),
		NewHTTPAddrStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewModeStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(runtimePath),
	}
}

type errMsg error
type nextMsg struct{}

// model is the main Bubble Tea model that orchestrates the steps
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	err         error
	width       int
	height      int
}

func initialModel(runtimePath string) model {
	return model{
		steps:       getSteps(runtimePath),
		currentStep: 0,
		state:       NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 && m.steps[0] != nil {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case errMsg:
		m.err = msg
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	nextStep, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)

	if nextStep == nil {
		// Step indicated completion, move to the next one that applies
		m.currentStep++
		for m.currentStep < len(m.steps) {
			sk, ok := m.steps[m.currentStep].(Skipper)
			if !ok || !sk.Skip(m.state) {
				break
			}
			m.currentStep++
		}
		if m.currentStep >= len(m.steps) {
			return m, tea.Quit
		}
		return m, m.steps[m.currentStep].Init()
	}

	// If the step returned a different step (e.g., for branching), update current
	if nextStep != m.steps[m.currentStep] {
		m.steps[m.currentStep] = nextStep
	}

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press ctrl+c to quit)\n"
	}

	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	current, total := m.progress()
	header := titleStyle.Render("Setting up geodrop 📍") + " " + itemStyle.Render(fmt.Sprintf("step %d of %d", current, total))
	return header + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// progress counts only the steps that apply to the choices made so far.
func (m model) progress() (current, total int) {
	for i, step := range m.steps {
		if sk, ok := step.(Skipper); ok && sk.Skip(m.state) {
			continue
		}
		total++
		if i <= m.currentStep {
			current = total
		}
	}
	return current, total
}

// RunWizard starts the TUI and writes the .env file into runtimePath
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(runtimePath), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	finalModel := m.(model)
	if finalModel.quitting {
		return nil, fmt.Errorf("geodrop installation interrupted")
	}

	return finalModel.state, nil
}
