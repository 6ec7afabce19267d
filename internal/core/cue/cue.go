package cue

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPlaybackDenied indicates the output device refused to start a cue.
// It is recoverable: the state transition that asked for the sound proceeds.
var ErrPlaybackDenied = errors.New("playback denied")

// Voice is the device-level handle behind a cue.
type Voice interface {
	// Start plays from position zero, replacing any playback in progress.
	// onDone fires when a one-shot voice drains; looping voices never call it.
	// It must not be invoked synchronously from within Start.
	Start(onDone func()) error
	// Halt stops playback and rewinds. Halting an idle voice does nothing.
	Halt()
}

// Cue is a single named sound bound to one static asset.
type Cue struct {
	mu         sync.Mutex
	id         string
	sourceRef  string
	loop       bool
	voice      Voice
	playing    bool
	generation uint64
}

// New binds a cue to a voice. Looping cues stay playing until stopped;
// one-shot cues report not playing once their voice drains.
func New(id, sourceRef string, loop bool, voice Voice) *Cue {
	return &Cue{
		id:        id,
		sourceRef: sourceRef,
		loop:      loop,
		voice:     voice,
	}
}

// ID returns the stable key of the cue.
func (cue *Cue) ID() string {
	return cue.id
}

// Source returns the asset reference the cue was bound to.
func (cue *Cue) Source() string {
	return cue.sourceRef
}

// Looping reports whether the cue repeats until stopped.
func (cue *Cue) Looping() bool {
	return cue.loop
}

// IsPlaying reports the logical playback state.
func (cue *Cue) IsPlaying() bool {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	return cue.playing
}

// Play starts the cue from zero, restarting it when already playing.
// A device failure is returned wrapped in ErrPlaybackDenied. A looping cue
// still counts as playing after a denial; a denied one-shot is already over.
func (cue *Cue) Play() error {
	cue.mu.Lock()
	defer cue.mu.Unlock()

	cue.generation++
	generation := cue.generation
	cue.playing = true

	if cue.voice == nil {
		if !cue.loop {
			cue.playing = false
		}
		return fmt.Errorf("%w: %s: no voice bound", ErrPlaybackDenied, cue.id)
	}

	err := cue.voice.Start(func() { cue.finished(generation) })
	if err != nil {
		if !cue.loop {
			cue.playing = false
		}
		return fmt.Errorf("%w: %s: %w", ErrPlaybackDenied, cue.id, err)
	}
	return nil
}

// Stop halts the cue and rewinds it. No-op when not playing.
func (cue *Cue) Stop() {
	cue.mu.Lock()
	defer cue.mu.Unlock()

	if !cue.playing {
		return
	}
	cue.generation++
	cue.playing = false
	if cue.voice != nil {
		cue.voice.Halt()
	}
}

func (cue *Cue) finished(generation uint64) {
	cue.mu.Lock()
	defer cue.mu.Unlock()

	// A restart or stop since this play started owns the state now.
	if generation != cue.generation || cue.loop {
		return
	}
	cue.playing = false
}
