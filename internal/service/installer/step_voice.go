package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// HumanAgentStep collects the number voice callers are transferred to when
// they ask for something the assistant cannot handle.
type HumanAgentStep struct {
	input textinput.Model
}

func NewHumanAgentStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40
	ti.Placeholder = "+919876543210 (empty = end the call)"
	ti.EchoMode = textinput.EchoNormal

	return &HumanAgentStep{input: ti}
}

func (s *HumanAgentStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, skipMsgCmd)
}

func (s *HumanAgentStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.Channel != ChannelHTTP && state.Channel != ChannelAll {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		state.Settings.HumanAgentNumber = strings.TrimSpace(s.input.Value())
		return nil, nil
	}
	return s, cmd
}

func (s *HumanAgentStep) View(state *InstallState) string {
	return "Phone number of a human agent for voice transfers:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
