// Package notify sends desktop notifications.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier delivers a short message to the user outside the player window.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop posts through the operating system's notification service.
type Desktop struct {
	// Sound also plays the system alert sound.
	Sound bool

	notify func(title, message string, icon any) error
	alert  func(title, message string, icon any) error
}

// NewDesktop returns a notifier backed by beeep.
func NewDesktop(appName string, sound bool) *Desktop {
	if appName != "" {
		beeep.AppName = appName
	}
	return &Desktop{
		Sound:  sound,
		notify: beeep.Notify,
		alert:  beeep.Alert,
	}
}

// Notify posts title and message.
func (desktop *Desktop) Notify(title, message string) error {
	send := desktop.notify
	if desktop.Sound {
		send = desktop.alert
	}
	if err := send(title, message, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// Noop drops every notification.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(string, string) error {
	return nil
}
