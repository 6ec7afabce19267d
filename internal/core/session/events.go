package session

import "time"

// State represents the current countdown mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Reason explains why an event was published.
type Reason string

const (
	ReasonConfigured Reason = "configured"
	ReasonStarted    Reason = "started"
	ReasonTick       Reason = "tick"
	ReasonStopped    Reason = "stopped"
	ReasonCompleted  Reason = "completed"
)

// Snapshot is the read-only timer view handed to shells.
type Snapshot struct {
	State            State
	DurationSeconds  int
	RemainingSeconds int
}

// Running reports whether a countdown is in progress.
func (snapshot Snapshot) Running() bool {
	return snapshot.State == StateRunning
}

// Progress returns the elapsed fraction of the configured duration.
func (snapshot Snapshot) Progress() float64 {
	if snapshot.DurationSeconds <= 0 {
		return 0
	}
	progress := float64(snapshot.DurationSeconds-snapshot.RemainingSeconds) / float64(snapshot.DurationSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Event represents a timer update for observers.
type Event struct {
	Type     EventType
	Reason   Reason
	Snapshot Snapshot
	At       time.Time
}
