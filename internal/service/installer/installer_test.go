package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "HOSPITAL NAME,CITY,Address\nApollo Hospital,Chennai,Greams Road\nFortis,Bangalore,Bannerghatta Road\n"

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChoiceStep(t *testing.T) {
	state := NewInstallState()
	step := NewChannelStep()

	next, _ := step.Update(key("up"), state, 80, 24)
	require.NotNil(t, next)
	next, _ = next.Update(key("down"), state, 80, 24)
	next, _ = next.Update(key("down"), state, 80, 24)
	assert.Contains(t, next.View(state), "❯ HTTP API, Twilio voice and Telegram")

	done, _ := next.Update(key("enter"), state, 80, 24)
	assert.Nil(t, done)
	assert.Equal(t, ChannelAll, state.Channel)
	assert.True(t, state.telegramSelected())
}

func TestTelegramSteps_SkippedWithoutTelegram(t *testing.T) {
	state := &InstallState{Channel: ChannelHTTP}

	next, _ := NewTelegramTokenStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
	next, _ = NewTelegramAllowedStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "empty", raw: "  ", want: nil},
		{name: "list", raw: "12, 34,,56", want: []int64{12, 34, 56}},
		{name: "invalid", raw: "12,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDataset(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte(sampleCSV), 0644))
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("foo,bar\n1,2\n"), 0644))

	state := NewInstallState()
	require.NoError(t, applyDataset(state, ""))
	assert.Empty(t, state.DatasetFile)

	require.NoError(t, applyDataset(state, "https://example.com/hospitals.csv"))
	assert.Equal(t, "https://example.com/hospitals.csv", state.Settings.DatasetURL)

	require.NoError(t, applyDataset(state, good))
	assert.Equal(t, good, state.DatasetFile)
	assert.Equal(t, 2, state.DatasetRecords)

	assert.Error(t, applyDataset(NewInstallState(), bad))
	assert.Error(t, applyDataset(NewInstallState(), filepath.Join(dir, "missing.csv")))
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name      string
		state     InstallState
		http      string
		telegram  string
		cli       string
		introMode string
	}{
		{
			name:      "http",
			state:     InstallState{Channel: ChannelHTTP},
			http:      "true",
			telegram:  "false",
			cli:       "false",
			introMode: "selective",
		},
		{
			name: "all with token",
			state: InstallState{
				Channel:  ChannelAll,
				Settings: Settings{TelegramToken: "t", IntroMode: "never"},
			},
			http:      "true",
			telegram:  "true",
			cli:       "false",
			introMode: "never",
		},
		{
			name:      "telegram without token",
			state:     InstallState{Channel: ChannelTelegram},
			http:      "false",
			telegram:  "false",
			cli:       "false",
			introMode: "selective",
		},
		{
			name:      "cli",
			state:     InstallState{Channel: ChannelCLI},
			http:      "false",
			telegram:  "false",
			cli:       "true",
			introMode: "selective",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			finalize(&state)
			assert.Equal(t, tt.http, state.Settings.EnableHTTP)
			assert.Equal(t, tt.telegram, state.Settings.EnableTelegram)
			assert.Equal(t, tt.cli, state.Settings.EnableCLI)
			assert.Equal(t, tt.introMode, state.Settings.IntroMode)
			assert.Equal(t, "0", state.Settings.Debug)
		})
	}
}

func TestSaveEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")
	state := &InstallState{
		Channel: ChannelTelegram,
		Settings: Settings{
			TelegramToken:      "secret",
			TelegramAllowedIDs: []int64{1, 2},
		},
	}
	finalize(state)

	require.NoError(t, saveEnv(dir, state))

	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "LOOP_ENABLE_HTTP=false\n")
	assert.Contains(t, content, "LOOP_ENABLE_TELEGRAM=true\n")
	assert.Contains(t, content, "LOOP_TELEGRAM_TOKEN=secret\n")
	assert.Contains(t, content, "LOOP_TELEGRAM_ALLOWED_IDS=1,2\n")
	assert.NotContains(t, content, "LOOP_DATASET_URL")

	err = saveEnv(dir, state)
	assert.ErrorContains(t, err, "already exists")
}

func TestImportDataset(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	require.NoError(t, os.WriteFile(src, []byte(sampleCSV), 0644))

	runtime := filepath.Join(dir, "runtime")
	require.NoError(t, importDataset(runtime, src))

	data, err := os.ReadFile(filepath.Join(runtime, "hospitals.csv"))
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
}

func TestWizard_SkipsTelegramForHTTP(t *testing.T) {
	t.Setenv("LOOP_RUNTIME_PATH", t.TempDir())

	var m tea.Model = initialModel()
	steps := []tea.Msg{
		key("enter"), // channel: HTTP
		key("enter"), // dataset: skip
		nextMsg{},    // telegram token: skipped
		nextMsg{},    // telegram ids: skipped
		key("enter"), // human agent: none
		key("enter"), // intro mode: selective
		nextMsg{},    // finalize
		nextMsg{},    // save
		nextMsg{},    // import: nothing to copy
	}
	for _, msg := range steps {
		m, _ = m.Update(msg)
	}

	final := m.(model)
	assert.Equal(t, len(final.steps), final.currentStep)
	assert.Equal(t, "true", final.state.Settings.EnableHTTP)
	assert.Equal(t, "selective", final.state.Settings.IntroMode)
}
