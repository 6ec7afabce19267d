package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"sonichealing/internal/app"
	"sonichealing/internal/audio"
	"sonichealing/internal/config"
	"sonichealing/internal/core/schedule"
	"sonichealing/internal/core/session"
	"sonichealing/internal/notify"
	"sonichealing/internal/platform"
	"sonichealing/internal/ui"
	"sonichealing/internal/ui/player"
	"sonichealing/internal/ui/tray"
	"sonichealing/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appID       = "io.sonichealing.player"
	displayName = "Sonic Healing"
)

// PlayerParams are the flags of the desktop player.
type PlayerParams struct {
	Config string `short:"c" help:"Path to config.yaml (defaults to the user config directory)." optional:"true"`
}

func runPlayer(ctx context.Context, params *PlayerParams) error {
	cfg, catalog, err := app.Load(params.Config)
	if err != nil {
		return err
	}
	setupLogging(cfg, os.Stderr)

	guard, err := platform.AcquireSingleInstance(config.AppName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			slog.Info("player already open, asked it to show", "error", err)
			return nil
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

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

	fyneApp := fyneapp.NewWithID(appID)
	activeIcon := resources.MustLogo("lotus.svg")
	idleIcon := resources.MustLogo("lotus_dim.svg")
	fyneApp.SetIcon(activeIcon)

	window := player.New(fyneApp, studio)
	window.Run(ctx)
	guard.Serve(func() { fyne.Do(window.Show) })

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		bindTray(desktopApp, fyneApp, window, studio, activeIcon, idleIcon)
	} else {
		slog.Info("system tray unsupported on this platform")
		window.Window().SetCloseIntercept(fyneApp.Quit)
	}

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	slog.Info("player ready", "tracks", len(catalog.Tracks), "tones", len(catalog.Tones))
	window.Show()
	fyneApp.Run()
	window.Stop()
	return nil
}

func bindTray(desktopApp desktop.App, fyneApp fyne.App, window *player.Window, studio *app.Studio, activeIcon, idleIcon fyne.Resource) {
	manager := tray.New(desktopApp, tray.Callbacks{
		OnShow: window.Show,
		OnToggleSession: func() {
			if studio.Timer.Snapshot().Running() {
				studio.Timer.Stop()
				return
			}
			if err := studio.Timer.Start(); err != nil {
				slog.Debug("start session from tray", "error", err)
			}
		},
		OnStopSounds: studio.StopAllSounds,
		OnToggleBreath: func() {
			studio.Breath.Toggle()
		},
		OnQuit: fyneApp.Quit,
	})
	desktopApp.SetSystemTrayIcon(idleIcon)
	desktopApp.SetSystemTrayWindow(window.Window())
	manager.SetBreathing(studio.Breath.Snapshot().Active)

	timerEvents := studio.Timer.Subscribe(8)
	breathEvents := studio.Breath.Subscribe(8)
	go func() {
		for event := range timerEvents {
			snapshot := event.Snapshot
			fyne.Do(func() {
				manager.SetRunning(snapshot.Running())
				manager.SetStatus(trayStatus(snapshot))
				if snapshot.Running() {
					desktopApp.SetSystemTrayIcon(activeIcon)
				} else {
					desktopApp.SetSystemTrayIcon(idleIcon)
				}
			})
		}
	}()
	go func() {
		for snapshot := range breathEvents {
			active := snapshot.Active
			fyne.Do(func() { manager.SetBreathing(active) })
		}
	}()
}

func trayStatus(snapshot session.Snapshot) string {
	if snapshot.Running() {
		return ui.FormatClock(snapshot.RemainingSeconds) + " left"
	}
	if snapshot.RemainingSeconds == 0 {
		return "complete"
	}
	return "ready"
}

func setupLogging(cfg config.Config, out io.Writer) {
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
}

func exitWithError(err error) {
	slog.Error("sonichealing failed", "error", err)
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
