package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// oneShotToneLength bounds a non-looping sine source.
const oneShotToneLength = 2 * time.Second

type voice struct {
	mu         sync.Mutex
	engine     *Engine
	source     Source
	buffer     *beep.Buffer
	ctrl       *beep.Ctrl
	generation uint64
}

// Start plays the source from the beginning, replacing any playback in progress.
func (voice *voice) Start(onDone func()) error {
	if err := voice.engine.ensureStarted(); err != nil {
		return err
	}

	voice.mu.Lock()
	defer voice.mu.Unlock()

	voice.haltLocked()
	streamer, err := voice.streamLocked()
	if err != nil {
		return err
	}

	voice.generation++
	generation := voice.generation
	ctrl := &beep.Ctrl{Streamer: &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   voice.source.Gain,
	}}
	voice.ctrl = ctrl

	if voice.source.Loop {
		voice.engine.sink.play(ctrl)
		return nil
	}
	voice.engine.sink.play(beep.Seq(ctrl, beep.Callback(func() {
		// The callback runs on the speaker goroutine with its lock held.
		go voice.finished(generation, onDone)
	})))
	return nil
}

// Halt silences the voice. A halted one-shot never reports completion.
func (voice *voice) Halt() {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	voice.haltLocked()
}

func (voice *voice) haltLocked() {
	voice.generation++
	if voice.ctrl == nil {
		return
	}
	voice.engine.sink.lock()
	voice.ctrl.Streamer = nil
	voice.engine.sink.unlock()
	voice.ctrl = nil
}

func (voice *voice) finished(generation uint64, onDone func()) {
	voice.mu.Lock()
	if generation != voice.generation {
		voice.mu.Unlock()
		return
	}
	voice.ctrl = nil
	voice.mu.Unlock()

	if onDone != nil {
		onDone()
	}
}

func (voice *voice) streamLocked() (beep.Streamer, error) {
	rate := voice.engine.format.SampleRate

	if voice.useSine() {
		tone, err := generators.SineTone(rate, voice.source.Frequency)
		if err != nil {
			return nil, fmt.Errorf("sine %s: %w", voice.source.ID, err)
		}
		if voice.source.Loop {
			return tone, nil
		}
		return beep.Take(rate.N(oneShotToneLength), tone), nil
	}

	buffer, err := voice.bufferLocked()
	if err != nil {
		return nil, err
	}
	segment := buffer.Streamer(0, buffer.Len())
	if !voice.source.Loop {
		return segment, nil
	}
	looped, err := beep.Loop2(segment)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", voice.source.ID, err)
	}
	return looped, nil
}

// useSine reports whether the source renders as a pure tone. A file source whose
// asset is missing falls back to its frequency when it has one.
func (voice *voice) useSine() bool {
	source := voice.source
	if source.Frequency <= 0 {
		return false
	}
	if source.synthesized() {
		return true
	}
	if voice.buffer != nil {
		return false
	}
	_, err := os.Stat(source.resolve(voice.engine.assetsDir))
	return err != nil
}

func (voice *voice) bufferLocked() (*beep.Buffer, error) {
	if voice.buffer != nil {
		return voice.buffer, nil
	}

	var buffer *beep.Buffer
	var err error
	if voice.useGong() {
		buffer = beep.NewBuffer(voice.engine.format)
		buffer.Append(newGong(voice.engine.format.SampleRate, voice.source.Frequency))
	} else {
		buffer, err = voice.decode(voice.source.resolve(voice.engine.assetsDir))
		if err != nil {
			return nil, err
		}
	}
	voice.buffer = buffer
	return buffer, nil
}

// useGong reports whether the source is struck as a synthesized gong: always without
// a path, and for one-shots whose asset is missing.
func (voice *voice) useGong() bool {
	source := voice.source
	if source.synthesized() {
		return true
	}
	if source.Loop {
		return false
	}
	path := source.resolve(voice.engine.assetsDir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("audio asset missing, striking gong", "id", source.ID, "path", path)
		return true
	}
	return false
}

func (voice *voice) decode(path string) (*beep.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch extension(path) {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	default:
		file.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	target := voice.engine.format
	buffer := beep.NewBuffer(target)
	var source beep.Streamer = streamer
	if format.SampleRate != target.SampleRate {
		source = beep.Resample(4, format.SampleRate, target.SampleRate, streamer)
	}
	buffer.Append(source)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	slog.Debug("audio asset loaded", "id", voice.source.ID, "path", path, "duration", target.SampleRate.D(buffer.Len()))
	return buffer, nil
}
