package schedule

import (
	"sync"
	"time"
)

// Manual is a virtual clock. Loops only fire when Advance moves time past
// their next deadline, which makes countdown behaviour reproducible.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID uint64
	loops  map[uint64]*manualLoop
}

type manualLoop struct {
	id       uint64
	interval time.Duration
	next     time.Duration
	fn       func()
	owner    *Manual
}

// NewManual returns a virtual clock positioned at zero.
func NewManual() *Manual {
	return &Manual{loops: make(map[uint64]*manualLoop)}
}

// Every registers fn to fire each time the clock crosses another interval.
func (manual *Manual) Every(interval time.Duration, fn func()) Token {
	if interval <= 0 {
		interval = time.Second
	}
	manual.mu.Lock()
	defer manual.mu.Unlock()

	manual.nextID++
	loop := &manualLoop{
		id:       manual.nextID,
		interval: interval,
		next:     manual.now + interval,
		fn:       fn,
		owner:    manual,
	}
	manual.loops[loop.id] = loop
	return loop
}

// Advance moves the clock forward, firing due callbacks in deadline order.
// Callbacks run without the clock lock held so they may cancel or schedule loops.
func (manual *Manual) Advance(delta time.Duration) {
	manual.mu.Lock()
	target := manual.now + delta
	manual.mu.Unlock()

	for {
		manual.mu.Lock()
		loop := manual.earliestLocked(target)
		if loop == nil {
			manual.now = target
			manual.mu.Unlock()
			return
		}
		manual.now = loop.next
		loop.next += loop.interval
		fn := loop.fn
		manual.mu.Unlock()

		fn()
	}
}

// Pending reports how many loops are still scheduled.
func (manual *Manual) Pending() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return len(manual.loops)
}

// Now reports the virtual time elapsed since creation.
func (manual *Manual) Now() time.Duration {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

func (manual *Manual) earliestLocked(target time.Duration) *manualLoop {
	var earliest *manualLoop
	for _, loop := range manual.loops {
		if loop.next > target {
			continue
		}
		if earliest == nil || loop.next < earliest.next || (loop.next == earliest.next && loop.id < earliest.id) {
			earliest = loop
		}
	}
	return earliest
}

func (loop *manualLoop) Cancel() {
	loop.owner.mu.Lock()
	defer loop.owner.mu.Unlock()
	delete(loop.owner.loops, loop.id)
}
