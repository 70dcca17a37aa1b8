package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

// FinalizationStep fills derived values and defaults
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.Enabled("telegram") {
		delete(state.EnvVars, "GEODROP_TELEGRAM_TOKEN")
		delete(state.EnvVars, "GEODROP_TELEGRAM_OWNER_ID")
	}
	if !state.Enabled("http") {
		delete(state.EnvVars, "GEODROP_HTTP_ADDR")
	}

	defaults := map[string]string{
		"GEODROP_DEBUG":   "0",
		"GEODROP_STORAGE": "sqlite",
		"GEODROP_MODE":    "scan",
	}
	for k, v := range defaults {
		if state.EnvVars[k] == "" {
			state.EnvVars[k] = v
		}
	}
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

// SaveEnvStep writes the collected configuration to the .env file in dir
type SaveEnvStep struct {
	dir   string
	err   error
	saved bool
}

func NewSaveEnvStep(dir string) Step {
	return &SaveEnvStep{dir: dir}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	envPath := filepath.Join(s.dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		s.err = fmt.Errorf(".env file already exists at %s", envPath)
		return s, nil
	}

	if err := godotenv.Write(state.EnvVars, envPath); err != nil {
		s.err = fmt.Errorf("failed to write %s: %w", envPath, err)
		return s, nil
	}
	if err := os.Chmod(envPath, 0600); err != nil {
		s.err = fmt.Errorf("failed to restrict %s: %w", envPath, err)
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}
