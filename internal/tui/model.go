// Package tui is the terminal front end for a studio.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sonichealing/internal/app"
	"sonichealing/internal/core/breath"
	"sonichealing/internal/core/session"

	tea "github.com/charmbracelet/bubbletea"
)

const refreshInterval = 250 * time.Millisecond

const toneKeys = "abcdefgh"

type refreshMsg time.Time

// Model renders studio state and maps keys to studio operations.
type Model struct {
	studio *app.Studio

	timer    session.Snapshot
	breath   breath.Snapshot
	minutes  int
	status   string
	width    int
	quitting bool
}

// New creates a terminal model over studio.
func New(studio *app.Studio) Model {
	m := Model{studio: studio}
	return m.refresh()
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return scheduleRefresh()
}

// Update handles keys, resizes and refresh ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if m.quitting {
			return m, nil
		}
		return m.refresh(), scheduleRefresh()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case " ", "enter":
		m = m.toggleSession()
	case "+", "=", "up":
		m = m.adjustMinutes(1)
	case "-", "_", "down":
		m = m.adjustMinutes(-1)
	case "x":
		m.studio.StopAllSounds()
		m.status = "All sounds stopped"
	case "r":
		if m.studio.Breath.Toggle() {
			m.status = "Breathing resumed"
		} else {
			m.status = "Breathing paused"
		}
	case "s":
		m = m.nextScene()
	default:
		m = m.handleSoundKey(key)
	}
	return m.refresh(), nil
}

func (m Model) handleSoundKey(key string) Model {
	if len(key) != 1 {
		return m
	}
	char := key[0]

	if char >= '1' && char <= '9' {
		ids := m.studio.Sounds.IDs()
		index := int(char - '1')
		if index >= len(ids) {
			return m
		}
		if err := m.studio.Sounds.Select(ids[index]); err != nil {
			slog.Debug("select track", "error", err)
		}
		return m
	}

	for index, toneKey := range toneKeys {
		if rune(char) != toneKey {
			continue
		}
		ids := m.studio.Tones.IDs()
		if index >= len(ids) {
			return m
		}
		if err := m.studio.Tones.Toggle(ids[index]); err != nil {
			slog.Debug("toggle tone", "error", err)
		}
	}
	return m
}

func (m Model) toggleSession() Model {
	timer := m.studio.Timer
	if timer.Snapshot().Running() {
		timer.Stop()
		m.status = "Session stopped"
		return m
	}
	if err := timer.Start(); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = fmt.Sprintf("%d minute session started", timer.Snapshot().DurationSeconds/60)
	return m
}

func (m Model) adjustMinutes(delta int) Model {
	timer := m.studio.Timer
	if timer.Snapshot().Running() {
		m.status = "Stop the session to change its length"
		return m
	}
	minMinutes, maxMinutes := timer.Limits()
	minutes := min(max(timer.Snapshot().DurationSeconds/60+delta, minMinutes), maxMinutes)
	if err := timer.Configure(minutes); err != nil {
		m.status = err.Error()
	}
	return m
}

func (m Model) nextScene() Model {
	scenes := m.studio.Scenes
	all := scenes.All()
	if len(all) == 0 {
		return m
	}
	_, index, _ := scenes.Current()
	next := (index + 1) % len(all)
	if err := scenes.Select(next); err == nil {
		m.status = "Scene: " + all[next].Name
	}
	return m
}

func (m Model) refresh() Model {
	m.timer = m.studio.Timer.Snapshot()
	m.breath = m.studio.Breath.Snapshot()
	m.minutes = m.timer.DurationSeconds / 60
	return m
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Run blocks until the user quits or ctx ends.
func Run(ctx context.Context, studio *app.Studio) error {
	program := tea.NewProgram(New(studio), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal player: %w", err)
	}
	return nil
}
