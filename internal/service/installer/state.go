package installer

// Settings is what the wizard writes to .env. Booleans are strings so an
// explicit "false" survives MarshalEnv, which skips zero values.
type Settings struct {
	EnableHTTP         string  `env:"LOOP_ENABLE_HTTP"`
	EnableTelegram     string  `env:"LOOP_ENABLE_TELEGRAM"`
	EnableCLI          string  `env:"LOOP_ENABLE_CLI"`
	TelegramToken      string  `env:"LOOP_TELEGRAM_TOKEN"`
	TelegramAllowedIDs []int64 `env:"LOOP_TELEGRAM_ALLOWED_IDS"`
	DatasetURL         string  `env:"LOOP_DATASET_URL"`
	HumanAgentNumber   string  `env:"LOOP_HUMAN_AGENT_NUMBER"`
	IntroMode          string  `env:"LOOP_INTRO_MODE"`
	Debug              string  `env:"LOOP_DEBUG"`
}

type InstallState struct {
	Settings Settings

	// Channel is the transport choice, expanded into Enable* flags by the
	// finalization step.
	Channel string
	// DatasetFile is a local CSV copied into the runtime directory.
	DatasetFile string
	// DatasetRecords is set once the dataset has been validated.
	DatasetRecords int
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

func (s *InstallState) telegramSelected() bool {
	return s.Channel == ChannelTelegram || s.Channel == ChannelAll
}
