package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/storage/hospitals"
	"github.com/sandevgo/loopbot/pkg/env"
)

// FinalizationStep computes derived values and final env var formatting
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	set := &state.Settings
	set.EnableHTTP = boolString(state.Channel == ChannelHTTP || state.Channel == ChannelAll)
	set.EnableTelegram = boolString(state.telegramSelected() && set.TelegramToken != "")
	set.EnableCLI = boolString(state.Channel == ChannelCLI)

	if set.IntroMode == "" {
		set.IntroMode = "selective"
	}
	if set.Debug == "" {
		set.Debug = "0"
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if err := saveEnv(config.GetRuntimePath(), state); err != nil {
		s.err = err
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

func saveEnv(runtimePath string, state *InstallState) error {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(&state.Settings)
	if err != nil {
		return fmt.Errorf("failed to render .env: %w", err)
	}
	return os.WriteFile(envPath, []byte(content), 0600)
}

// ImportDatasetStep copies the chosen CSV into the runtime directory, where
// `loop start` looks for it by default.
type ImportDatasetStep struct {
	err  error
	done bool
}

func NewImportDatasetStep() Step {
	return &ImportDatasetStep{}
}

func (s *ImportDatasetStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *ImportDatasetStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done || state.DatasetFile == "" {
		return nil, nil
	}
	if err := importDataset(config.GetRuntimePath(), state.DatasetFile); err != nil {
		s.err = err
		return s, nil
	}
	s.done = true
	return nil, nil
}

func (s *ImportDatasetStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return fmt.Sprintf("Imported %d hospitals.\n", state.DatasetRecords)
	}
	return "Importing hospital list...\n"
}

func importDataset(runtimePath, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	return hospitals.WriteFile(filepath.Join(runtimePath, config.DatasetFile), data)
}
