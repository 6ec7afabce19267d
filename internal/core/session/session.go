package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sonichealing/internal/core/model"
	"sonichealing/internal/core/schedule"
)

var (
	// ErrInvalidConfiguration indicates a duration outside the configured minute range.
	ErrInvalidConfiguration = errors.New("invalid session configuration")
	// ErrConfigurationLocked indicates Configure was called during a countdown.
	ErrConfigurationLocked = errors.New("session configuration locked while running")
	// ErrAlreadyRunning indicates Start was called during a countdown.
	ErrAlreadyRunning = errors.New("session already running")
	// ErrClosed indicates the timer was closed and accepts no further sessions.
	ErrClosed = errors.New("session timer closed")
)

// Chime is the one-shot cue played when a session starts and when it completes.
type Chime interface {
	Play() error
}

// Timer is the countdown state machine.
type Timer struct {
	mu         sync.Mutex
	config     model.SessionConfig
	chime      Chime
	scheduler  schedule.Scheduler
	state      State
	duration   int
	remaining  int
	token      schedule.Token
	generation uint64
	events     []chan Event
	closed     bool
}

// New creates an idle timer holding the default duration.
func New(config model.SessionConfig, chime Chime, scheduler schedule.Scheduler) *Timer {
	config = normalizeConfig(config)
	duration := config.DefaultMinutes * 60
	return &Timer{
		config:    config,
		chime:     chime,
		scheduler: scheduler,
		state:     StateIdle,
		duration:  duration,
		remaining: duration,
	}
}

func normalizeConfig(config model.SessionConfig) model.SessionConfig {
	if config.MinMinutes <= 0 {
		config.MinMinutes = 1
	}
	if config.MaxMinutes <= 0 {
		config.MaxMinutes = 60
	}
	if config.MaxMinutes < config.MinMinutes {
		config.MaxMinutes = config.MinMinutes
	}
	if config.DefaultMinutes < config.MinMinutes || config.DefaultMinutes > config.MaxMinutes {
		config.DefaultMinutes = min(max(10, config.MinMinutes), config.MaxMinutes)
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	return config
}

// Limits returns the accepted minute range.
func (timer *Timer) Limits() (minMinutes, maxMinutes int) {
	return timer.config.MinMinutes, timer.config.MaxMinutes
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		close(ch)
		return ch
	}
	timer.events = append(timer.events, ch)
	return ch
}

// Snapshot returns the current timer view.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

// Configure sets the session length. The remaining time follows immediately.
func (timer *Timer) Configure(minutes int) error {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.closed {
		return ErrClosed
	}
	if timer.state == StateRunning {
		return ErrConfigurationLocked
	}
	if minutes < timer.config.MinMinutes || minutes > timer.config.MaxMinutes {
		return fmt.Errorf("%w: %d minutes not in [%d, %d]", ErrInvalidConfiguration,
			minutes, timer.config.MinMinutes, timer.config.MaxMinutes)
	}

	timer.duration = minutes * 60
	timer.remaining = timer.duration
	timer.emitLocked(EventStateChange, ReasonConfigured)
	return nil
}

// Start plays the chime and begins counting down from the full duration.
// A chime failure never prevents the session from starting.
func (timer *Timer) Start() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.closed {
		return ErrClosed
	}
	if timer.state == StateRunning {
		return ErrAlreadyRunning
	}

	timer.playChimeLocked("start")

	timer.remaining = timer.duration
	timer.state = StateRunning
	timer.rescheduleLocked()
	timer.emitLocked(EventStateChange, ReasonStarted)
	return nil
}

// Stop aborts a running session, keeping the remaining time. No chime plays.
// Stopping an idle timer does nothing.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.state != StateRunning {
		return
	}
	timer.cancelLocked()
	timer.state = StateIdle
	timer.emitLocked(EventStateChange, ReasonStopped)
}

// Close cancels any countdown and closes observers.
func (timer *Timer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.cancelLocked()
	timer.state = StateIdle
	timer.closed = true
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) rescheduleLocked() {
	timer.cancelLocked()
	timer.generation++
	generation := timer.generation
	timer.token = timer.scheduler.Every(timer.config.TickInterval, func() {
		timer.tick(generation)
	})
}

func (timer *Timer) cancelLocked() {
	if timer.token != nil {
		timer.token.Cancel()
		timer.token = nil
	}
	timer.generation++
}

func (timer *Timer) tick(generation uint64) {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	// A tick already in flight when its loop was cancelled.
	if generation != timer.generation || timer.state != StateRunning {
		return
	}

	if timer.remaining > 0 {
		timer.remaining--
	}
	if timer.remaining > 0 {
		timer.emitLocked(EventProgress, ReasonTick)
		return
	}

	timer.playChimeLocked("complete")
	timer.cancelLocked()
	timer.state = StateIdle
	timer.emitLocked(EventStateChange, ReasonCompleted)
}

func (timer *Timer) playChimeLocked(moment string) {
	if timer.chime == nil {
		return
	}
	if err := timer.chime.Play(); err != nil {
		slog.Debug("session chime failed", "moment", moment, "error", err)
	}
}

func (timer *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		State:            timer.state,
		DurationSeconds:  timer.duration,
		RemainingSeconds: timer.remaining,
	}
}

func (timer *Timer) emitLocked(eventType EventType, reason Reason) {
	event := Event{
		Type:     eventType,
		Reason:   reason,
		Snapshot: timer.snapshotLocked(),
		At:       time.Now(),
	}
	for _, ch := range timer.events {
		select {
		case ch <- event:
			continue
		default:
		}
		if eventType == EventProgress {
			continue
		}
		// A full observer loses its oldest event so state changes always arrive.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}
