package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/internal/observability"
	"github.com/sandevgo/loopbot/internal/service/agent"
	"github.com/sandevgo/loopbot/internal/service/command"
	"github.com/sandevgo/loopbot/internal/service/dialogue"
	"github.com/sandevgo/loopbot/internal/service/session"
	"github.com/sandevgo/loopbot/internal/storage/hospitals"
	"github.com/sandevgo/loopbot/internal/storage/sqlite"
	"github.com/sandevgo/loopbot/internal/transport/cli"
	"github.com/sandevgo/loopbot/internal/transport/telegram"
	"github.com/sandevgo/loopbot/internal/transport/web"
	"github.com/sandevgo/loopbot/pkg/log"
	"github.com/sandevgo/loopbot/pkg/srv"
)

// app holds the wired core shared by every entry point. services are the
// background pieces, transports are added by the calling command.
type app struct {
	cfg         *config.AppConfig
	metrics     *observability.Metrics
	hospitals   *hospitals.Store
	sessions    *session.Store
	transcripts *sqlite.TranscriptRepo
	agent       *agent.Agent
	router      core.CommandRouter
	services    []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)
	a := &app{}

	// 1. Configuration
	a.cfg = config.NewAppConfig(ctx)

	// 2. Telemetry
	shutdownTelemetry, err := observability.InitTelemetry(ctx, observability.TelemetryOptions{
		TraceFile:  a.cfg.TraceFile,
		MetricFile: a.cfg.MetricFile,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	a.services = append(a.services, srv.NewCleanupFunc(shutdownTelemetry))
	a.metrics = observability.NewMetrics(nil)

	// 3. Hospital dataset
	a.hospitals = hospitals.NewStore(nil)
	loadDataset(ctx, a.cfg, a.hospitals, a.metrics)

	// 4. Sessions
	a.sessions = session.NewStore()
	sweeper := session.NewSweeper(a.sessions, a.cfg.SessionTTL, a.cfg.SweepInterval)
	sweeper.OnEvict(a.metrics.SessionsEvicted)
	a.services = append(a.services, sweeper)

	// 5. Transcript archive
	var transcripts core.TranscriptRepository
	var counter core.IntentCounter
	if a.cfg.EnableTranscripts {
		db, err := sqlite.NewDB(ctx, a.cfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		a.services = append(a.services, srv.NewCleanup(db.Close))
		a.transcripts = sqlite.NewTranscriptRepo(db)
		transcripts, counter = a.transcripts, a.transcripts
	}

	// 6. Dialogue
	mode, err := dialogue.ParseIntroMode(a.cfg.IntroMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid intro mode")
	}
	composer := dialogue.NewComposer(a.hospitals, dialogue.WithIntroPolicy(dialogue.IntroPolicy{
		Mode:     mode,
		Sentence: core.IntroSentence,
	}))

	opts := []agent.Option{agent.WithObserver(a.metrics)}
	if transcripts != nil {
		opts = append(opts, agent.WithTranscripts(transcripts))
	}
	a.agent = agent.NewAgent(a.sessions, composer, opts...)

	// 7. Chat commands
	a.router = command.New(command.NewCommands(a.sessions, a.hospitals, transcripts, counter))

	return a
}

func loadDataset(ctx context.Context, cfg *config.AppConfig, store *hospitals.Store, metrics *observability.Metrics) {
	logger := log.FromCtx(ctx)

	records, source, err := hospitals.Load(ctx, hospitals.NewFetcher(), cfg.DatasetURL, cfg.GetDatasetPath())
	metrics.DatasetLoaded(source, len(records), err)
	if err != nil {
		logger.Warn().Err(err).Msg("starting without hospitals, upload a csv to /upload-csv or run 'loop import'")
		return
	}

	store.Replace(records)
	logger.Info().Str("source", source).Int("records", len(records)).Msg("hospital dataset loaded")
}

func initTransports(ctx context.Context, a *app, stop context.CancelFunc) ([]srv.Service, error) {
	var services []srv.Service

	// HTTP API and Twilio voice webhooks
	if a.cfg.IsHTTPSelected() {
		httpCfg := config.NewHTTPConfig(ctx)
		server := web.NewServer(ctx, httpCfg, a.agent, a.hospitals, a.cfg.GetDatasetPath(),
			web.WithMetrics(prometheus.DefaultGatherer),
			web.WithReloadHook(a.metrics.DatasetLoaded),
		)
		services = append(services, server)
	}

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.agent, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// Terminal chat, leaving it stops the process
	if a.cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(a.agent, a.router, a.cfg.GetRuntimePath(), debug)
		if err != nil {
			return nil, err
		}
		services = append(services, &stopOnExit{Service: rl, stop: stop})
	}

	return services, nil
}

// stopOnExit cancels the process context once a foreground service returns.
type stopOnExit struct {
	srv.Service
	stop context.CancelFunc
}

func (s *stopOnExit) Start(ctx context.Context) error {
	defer s.stop()
	return s.Service.Start(ctx)
}

func loadEnvFile(runtimePath string) {
	envFile := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	// Already exported variables win over the file.
	_ = godotenv.Load(envFile)
}
