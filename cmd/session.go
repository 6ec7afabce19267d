package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sonichealing/internal/app"
	"sonichealing/internal/audio"
	"sonichealing/internal/config"
	"sonichealing/internal/core/schedule"
	"sonichealing/internal/notify"
	"sonichealing/internal/tui"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

// SessionParams are the flags of the terminal player.
type SessionParams struct {
	Config   string `short:"c" help:"Path to config.yaml (defaults to the user config directory)." optional:"true"`
	Minutes  int    `short:"m" help:"Session length in minutes (0 keeps the configured default)." default:"0"`
	Track    string `short:"t" help:"Track id to start playing immediately." optional:"true"`
	NoBreath bool   `help:"Start with the breathing guide paused."`
	Start    bool   `short:"s" help:"Start the countdown immediately."`
}

func sessionCmd() *cobra.Command {
	return boa.CmdT[SessionParams]{
		Use:         "session",
		Short:       "Run the player in the terminal",
		Long:        "Plays tracks and tones, runs the meditation timer and the breathing guide inside the terminal.",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *SessionParams, cmd *cobra.Command, args []string) {
			if err := runSession(cmd.Context(), params); err != nil {
				exitWithError(err)
			}
		},
	}.ToCobra()
}

func runSession(ctx context.Context, params *SessionParams) error {
	cfg, catalog, err := app.Load(params.Config)
	if err != nil {
		return err
	}
	if params.NoBreath {
		cfg.Breath.StartActive = false
	}

	logFile, closeLog := sessionLog()
	defer closeLog()
	setupLogging(cfg, logFile)

	engine := audio.NewEngine(app.AudioModel(cfg, catalog))
	defer engine.Close()

	studio := app.New(app.Options{
		Config:    cfg,
		Catalog:   catalog,
		Voices:    engine,
		Scheduler: schedule.NewTicker(),
		Notifier:  notify.NewDesktop(displayName, false),
	})
	defer studio.Close()

	if err := prepareSession(studio, params); err != nil {
		return err
	}
	return tui.Run(ctx, studio)
}

func prepareSession(studio *app.Studio, params *SessionParams) error {
	if params.Minutes != 0 {
		if err := studio.Timer.Configure(params.Minutes); err != nil {
			return fmt.Errorf("--minutes: %w", err)
		}
	}
	if params.Track != "" {
		if err := studio.Sounds.Select(params.Track); err != nil {
			return fmt.Errorf("--track: %w", err)
		}
	}
	if params.Start {
		if err := studio.Timer.Start(); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
	}
	return nil
}

// sessionLog keeps log lines out of the terminal UI.
func sessionLog() (io.Writer, func()) {
	dir, err := config.DefaultDir()
	if err != nil {
		return io.Discard, func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard, func() {}
	}
	file, err := os.OpenFile(filepath.Join(dir, "session.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return file, func() { _ = file.Close() }
}
