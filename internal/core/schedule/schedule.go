// Package schedule issues recurring callbacks that are owned through a
// cancellation token. Every loop has exactly one token; cancelling it
// guarantees the loop issues no further callbacks once Cancel returns,
// apart from a callback that was already executing.
package schedule

import (
	"sync"
	"time"
)

// Token cancels one scheduled loop. Cancel is idempotent.
type Token interface {
	Cancel()
}

// Scheduler starts recurring callbacks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Token
}

// Ticker runs each loop on its own goroutine driven by a time.Ticker.
type Ticker struct{}

// NewTicker returns the wall-clock scheduler.
func NewTicker() Ticker {
	return Ticker{}
}

// Every starts fn every interval until the returned token is cancelled.
func (Ticker) Every(interval time.Duration, fn func()) Token {
	if interval <= 0 {
		interval = time.Second
	}
	loop := &tickerLoop{stopCh: make(chan struct{})}
	go loop.run(interval, fn)
	return loop
}

type tickerLoop struct {
	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
}

func (loop *tickerLoop) Cancel() {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	if loop.stopped {
		return
	}
	loop.stopped = true
	close(loop.stopCh)
}

func (loop *tickerLoop) run(interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-loop.stopCh:
			return
		case <-ticker.C:
			if !loop.live() {
				return
			}
			fn()
		}
	}
}

func (loop *tickerLoop) live() bool {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	return !loop.stopped
}
