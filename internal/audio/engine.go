// Package audio plays cues through the system speaker using beep.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sonichealing/internal/core/cue"
	"sonichealing/internal/core/model"

	"github.com/gopxl/beep/v2"
)

const (
	defaultSampleRate = 44100
	defaultBuffer     = 100 * time.Millisecond
)

var (
	// ErrUnavailable indicates there is no usable output device.
	ErrUnavailable = errors.New("audio output unavailable")
	// ErrUnsupportedFormat indicates a file extension the decoder does not handle.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// sink is the output device. The speaker package backs it in real builds.
type sink interface {
	init(rate beep.SampleRate, bufferSize int) error
	play(streamer beep.Streamer)
	lock()
	unlock()
	close()
}

// Engine owns the output device and hands out voices bound to it.
type Engine struct {
	mu        sync.Mutex
	sink      sink
	enabled   bool
	format    beep.Format
	buffer    time.Duration
	assetsDir string
	started   bool
	initErr   error
	closed    bool
	voices    []*voice
}

// NewEngine creates an engine on the system speaker. The device opens on the first play.
func NewEngine(config model.AudioConfig) *Engine {
	return newEngine(config, newSpeakerSink())
}

func newEngine(config model.AudioConfig, output sink) *Engine {
	rate := config.SampleRate
	if rate <= 0 {
		rate = defaultSampleRate
	}
	buffer := config.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Engine{
		sink:    output,
		enabled: config.Enabled,
		format: beep.Format{
			SampleRate:  beep.SampleRate(rate),
			NumChannels: 2,
			Precision:   2,
		},
		buffer:    buffer,
		assetsDir: config.AssetsDir,
	}
}

// SampleRate reports the output rate every voice is resampled to.
func (engine *Engine) SampleRate() beep.SampleRate {
	return engine.format.SampleRate
}

// Voice returns a device voice for source. Files are decoded on first start.
func (engine *Engine) Voice(source Source) cue.Voice {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	v := &voice{engine: engine, source: source}
	engine.voices = append(engine.voices, v)
	return v
}

// Close halts every voice and releases the device.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	voices := engine.voices
	engine.voices = nil
	started := engine.started
	engine.mu.Unlock()

	for _, v := range voices {
		v.Halt()
	}
	if started {
		engine.sink.close()
		slog.Debug("audio device closed")
	}
}

func (engine *Engine) ensureStarted() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	switch {
	case engine.closed:
		return fmt.Errorf("%w: engine closed", ErrUnavailable)
	case !engine.enabled:
		return fmt.Errorf("%w: disabled in config", ErrUnavailable)
	case engine.started:
		return nil
	case engine.initErr != nil:
		return engine.initErr
	}

	rate := engine.format.SampleRate
	if err := engine.sink.init(rate, rate.N(engine.buffer)); err != nil {
		engine.initErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
		slog.Warn("audio device init failed", "error", err)
		return engine.initErr
	}
	engine.started = true
	slog.Debug("audio device ready", "sample_rate", int(rate), "buffer", engine.buffer)
	return nil
}
