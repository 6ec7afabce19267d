package animation

import (
	"context"
	"sync"
	"time"

	"sonichealing/internal/core/breath"
)

// Config contains pulse timing and size values.
type Config struct {
	Duration      time.Duration
	FrameInterval time.Duration
	MinScale      float32
	MaxScale      float32
}

// Engine grows and shrinks the breathing circle.
type Engine struct {
	mu      sync.Mutex
	config  Config
	apply   func(scale float32)
	scale   float32
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New creates a pulse engine resting at the minimum scale.
// apply receives every frame and must marshal onto the UI thread itself.
func New(config Config, apply func(scale float32)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = 33 * time.Millisecond
	}
	if config.MaxScale <= 0 {
		config.MaxScale = 1
	}
	return &Engine{
		config: config,
		apply:  apply,
		scale:  config.MinScale,
	}
}

// Scale returns the most recently applied scale.
func (engine *Engine) Scale() float32 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.scale
}

// Follow animates towards the scale of phase, replacing any animation in progress.
func (engine *Engine) Follow(ctx context.Context, phase breath.Phase) {
	engine.mu.Lock()
	from := engine.scale
	engine.mu.Unlock()
	to := engine.config.TargetScale(phase, from)

	engine.start(ctx, func(runCtx context.Context) {
		frames := int(engine.config.Duration / engine.config.FrameInterval)
		for frame := 1; frame <= frames; frame++ {
			if !sleepWithContext(runCtx, engine.config.FrameInterval) {
				return
			}
			progress := Ease(float64(frame) / float64(frames))
			engine.set(from + (to-from)*float32(progress))
		}
		engine.set(to)
	})
}

// Stop freezes the circle at its current size.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.mu.Unlock()
	engine.running.Wait()
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	engine.mu.Lock()
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.running.Add(1)
	engine.mu.Unlock()

	go func() {
		defer engine.running.Done()
		run(runCtx)
	}()
}

func (engine *Engine) set(scale float32) {
	engine.mu.Lock()
	engine.scale = scale
	apply := engine.apply
	engine.mu.Unlock()
	if apply != nil {
		apply(scale)
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return true
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
