package main

import (
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"LeverageScope/internal/config"
	"LeverageScope/internal/controller"
	"LeverageScope/internal/desktop"
	"LeverageScope/internal/recorder"
	"LeverageScope/internal/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

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

	var opts []controller.Option
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			defer sr.Close()
			opts = append(opts, controller.WithRecorder(sr))
		}
	}
	if cfg.Session.StateFile != "" {
		store, err := session.NewStore(cfg.Session.StateFile)
		if err != nil {
			log.Fatal().Err(err).Msg("init session store")
		}
		opts = append(opts, controller.WithSession(store))
	}

	ctrl := controller.New(cfg.Params(), opts...)

	a := app.NewWithID("io.leveragescope.desktop")
	w, err := desktop.NewWindow(a, ctrl, cfg.Plot.Width, cfg.Plot.Height)
	if err != nil {
		log.Fatal().Err(err).Msg("build window")
	}

	log.Info().Msg("LeverageScope window open")
	w.ShowAndRun()
	log.Info().Msg("LeverageScope stopped")
}
