package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Sonic Healing"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow          func()
	OnToggleSession func()
	OnStopSounds    func()
	OnToggleBreath  func()
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	sessionItem *fyne.MenuItem
	breathItem  *fyne.MenuItem
	running     bool
	breathing   bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks. app may be nil where
// the driver has no system tray; the menu state is still tracked.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.sessionItem = fyne.NewMenuItem("", func() { invoke(manager.callbacks.OnToggleSession) })
	manager.breathItem = fyne.NewMenuItem("", func() { invoke(manager.callbacks.OnToggleBreath) })

	manager.refreshLabels()
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshLabels()
	manager.refreshMenu()
}

// SetRunning switches the session item between start and stop.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	manager.refreshLabels()
	manager.refreshMenu()
}

// SetBreathing switches the breathing item between pause and resume.
func (manager *Manager) SetBreathing(breathing bool) {
	manager.breathing = breathing
	manager.refreshLabels()
	manager.refreshMenu()
}

// Labels returns the current status, session and breathing item labels.
func (manager *Manager) Labels() (status, session, breathing string) {
	return manager.statusItem.Label, manager.sessionItem.Label, manager.breathItem.Label
}

func (manager *Manager) refreshLabels() {
	manager.statusItem.Label = fmt.Sprintf("Session: %s", manager.statusLabel)
	if manager.running {
		manager.sessionItem.Label = "Stop session"
	} else {
		manager.sessionItem.Label = "Start session"
	}
	if manager.breathing {
		manager.breathItem.Label = "Pause breathing"
	} else {
		manager.breathItem.Label = "Resume breathing"
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Show player", func() { invoke(manager.callbacks.OnShow) }),
		fyne.NewMenuItemSeparator(),
		manager.sessionItem,
		fyne.NewMenuItem("Stop all sounds", func() { invoke(manager.callbacks.OnStopSounds) }),
		manager.breathItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { invoke(manager.callbacks.OnQuit) }),
	))
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
