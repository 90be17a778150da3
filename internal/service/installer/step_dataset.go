package installer

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/loopbot/internal/storage/hospitals"
)

// DatasetStep asks for the hospital CSV, either a local file that is
// validated now or a URL fetched on every start.
type DatasetStep struct {
	input textinput.Model
	err   error
}

func NewDatasetStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Placeholder = "/path/to/hospitals.csv or https://..."
	ti.EchoMode = textinput.EchoNormal

	return &DatasetStep{input: ti}
}

func (s *DatasetStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *DatasetStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if err := applyDataset(state, s.input.Value()); err != nil {
			s.err = err
			return s, cmd
		}
		return nil, nil
	}
	return s, cmd
}

func (s *DatasetStep) View(state *InstallState) string {
	view := "Hospital list (CSV with HOSPITAL NAME, CITY and Address columns):\n\n" +
		s.input.View() + "\n\n"
	if s.err != nil {
		view += errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n"
	}
	return view + "(leave empty to upload one later through /upload-csv)\n"
}

func applyDataset(state *InstallState, raw string) error {
	source := strings.TrimSpace(raw)
	switch {
	case source == "":
		return nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		state.Settings.DatasetURL = source
		return nil
	}

	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("cannot read %s: %w", source, err)
	}
	records, err := hospitals.LoadFile(source)
	if err != nil {
		return err
	}
	state.DatasetFile = source
	state.DatasetRecords = len(records)
	return nil
}
