package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"LeverageScope/internal/config"
	"LeverageScope/internal/controller"
	"LeverageScope/internal/notifier"
	"LeverageScope/internal/recorder"
	"LeverageScope/internal/scheduler"
	"LeverageScope/internal/session"
	"LeverageScope/internal/web"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log.Logger = log.Logger.Level(lvl)
	}
	log.Info().Msg("LeverageScope server starting...")

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	opts := []controller.Option{controller.WithRecorder(rec)}
	if cfg.Session.StateFile != "" {
		store, err := session.NewStore(cfg.Session.StateFile)
		if err != nil {
			log.Fatal().Err(err).Msg("init session store")
		}
		opts = append(opts, controller.WithSession(store))
	}

	// Web surface is both a presenter and a control.
	srv := web.NewServer(cfg.Server.ListenAddr, cfg.Params(), cfg.Plot.Width, cfg.Plot.Height,
		cfg.Server.UpdatesPerSec, cfg.Server.Burst)
	opts = append(opts, controller.WithPresenters(srv.Presenter))

	ctrl := controller.New(cfg.Params(), opts...)
	if _, err := ctrl.Start(); err != nil {
		log.Fatal().Err(err).Msg("draw initial frame")
	}
	if err := ctrl.Bind(srv.Control); err != nil {
		log.Fatal().Err(err).Msg("bind web control")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.ChatID())
		if err != nil {
			log.Error().Err(err).Msg("init telegram, continuing without chat control")
			tn = nil
		}
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, ctrl, tn, rec, cfg.Plot.Width, cfg.Plot.Height)
	if err := sched.RegisterAll(cfg.Schedule.SnapshotCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		if err := ctrl.Bind(sched.ChatControl()); err != nil {
			log.Fatal().Err(err).Msg("bind chat control")
		}
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := srv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("http server")
			cancel()
		}
	}()

	log.Info().Str("addr", cfg.Server.ListenAddr).Msg("LeverageScope is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()
	<-serverDone
	log.Info().Msg("LeverageScope stopped")
}
