package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	DatasetFile  = "hospitals.csv"
	databaseFile = "loopbot.db"
)

type AppConfig struct {
	RuntimePath string `env:"LOOP_RUNTIME_PATH" envDefault:".loopbot"`

	// Dataset. An empty path means <runtime>/hospitals.csv. When URL is set it
	// is fetched on start and takes precedence over the local file.
	DatasetPath string `env:"LOOP_DATASET_PATH"`
	DatasetURL  string `env:"LOOP_DATASET_URL"`

	// Sessions
	SessionTTL    time.Duration `env:"LOOP_SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"LOOP_SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	IntroMode     string        `env:"LOOP_INTRO_MODE" envDefault:"selective"`

	// Transport Flags
	EnableHTTP     bool `env:"LOOP_ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"LOOP_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"LOOP_ENABLE_CLI" envDefault:"false"`

	EnableTranscripts bool `env:"LOOP_ENABLE_TRANSCRIPTS" envDefault:"true"`

	// Telemetry files, empty disables them.
	LogFile    string `env:"LOOP_LOG_FILE"`
	TraceFile  string `env:"LOOP_TRACE_FILE"`
	MetricFile string `env:"LOOP_METRIC_FILE"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

// ParseAppConfig reads AppConfig from the environment and resolves the
// runtime path the same way GetRuntimePath does.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, databaseFile)
}

func (c AppConfig) GetDatasetPath() string {
	if c.DatasetPath != "" {
		return c.DatasetPath
	}
	return filepath.Join(c.RuntimePath, DatasetFile)
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsHTTPSelected() bool {
	return c.EnableHTTP
}

func (c AppConfig) IsCLISelected() bool {
	return c.EnableCLI
}
