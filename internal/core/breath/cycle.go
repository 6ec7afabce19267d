// Package breath runs the inhale/hold/exhale pacing loop.
package breath

import (
	"sync"
	"time"

	"sonichealing/internal/core/model"
	"sonichealing/internal/core/schedule"
)

const defaultInterval = 4 * time.Second

// Cycle advances the breathing phase on a fixed interval while active.
// Pausing freezes the phase; resuming continues from it.
type Cycle struct {
	mu         sync.Mutex
	interval   time.Duration
	scheduler  schedule.Scheduler
	phase      Phase
	active     bool
	token      schedule.Token
	generation uint64
	observers  []chan Snapshot
	closed     bool
}

// New creates a cycle positioned at inhale. It starts cycling when config.StartActive is set.
func New(config model.BreathConfig, scheduler schedule.Scheduler) *Cycle {
	interval := config.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	cycle := &Cycle{
		interval:  interval,
		scheduler: scheduler,
		phase:     Inhale,
	}
	if config.StartActive {
		cycle.SetActive(true)
	}
	return cycle
}

// Interval reports how long each phase lasts.
func (cycle *Cycle) Interval() time.Duration {
	return cycle.interval
}

// Subscribe registers an observer. Every activation change and phase advance is published.
func (cycle *Cycle) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	if cycle.closed {
		close(ch)
		return ch
	}
	cycle.observers = append(cycle.observers, ch)
	return ch
}

// Snapshot returns the current phase and activity.
func (cycle *Cycle) Snapshot() Snapshot {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	return cycle.snapshotLocked()
}

// SetActive starts or pauses the cycle. Setting the current value again does nothing.
func (cycle *Cycle) SetActive(active bool) {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()

	if cycle.closed || cycle.active == active {
		return
	}
	cycle.cancelLocked()
	cycle.active = active
	if active {
		cycle.generation++
		generation := cycle.generation
		cycle.token = cycle.scheduler.Every(cycle.interval, func() {
			cycle.advance(generation)
		})
	}
	cycle.emitLocked()
}

// Toggle flips the activity and returns the new value.
func (cycle *Cycle) Toggle() bool {
	cycle.mu.Lock()
	active := !cycle.active
	cycle.mu.Unlock()
	cycle.SetActive(active)
	return active
}

// Close cancels the interval and closes observers.
func (cycle *Cycle) Close() {
	cycle.mu.Lock()
	if cycle.closed {
		cycle.mu.Unlock()
		return
	}
	cycle.cancelLocked()
	cycle.active = false
	cycle.closed = true
	observers := cycle.observers
	cycle.observers = nil
	cycle.mu.Unlock()

	for _, ch := range observers {
		close(ch)
	}
}

func (cycle *Cycle) advance(generation uint64) {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()

	if generation != cycle.generation || !cycle.active {
		return
	}
	cycle.phase = cycle.phase.Next()
	cycle.emitLocked()
}

func (cycle *Cycle) cancelLocked() {
	if cycle.token != nil {
		cycle.token.Cancel()
		cycle.token = nil
	}
	cycle.generation++
}

func (cycle *Cycle) snapshotLocked() Snapshot {
	return Snapshot{Phase: cycle.phase, Active: cycle.active}
}

func (cycle *Cycle) emitLocked() {
	snapshot := cycle.snapshotLocked()
	for _, ch := range cycle.observers {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		// Observers only care about the newest snapshot.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
