// Package cuetest provides an in-memory Voice for exercising cues without an output device.
package cuetest

import (
	"errors"
	"sync"
)

// ErrDenied is returned by a Voice configured to refuse playback.
var ErrDenied = errors.New("autoplay blocked")

// Voice records every start and halt request.
type Voice struct {
	mu      sync.Mutex
	starts  int
	halts   int
	active  bool
	deny    bool
	pending func()
}

// NewVoice returns a voice that accepts playback.
func NewVoice() *Voice {
	return &Voice{}
}

// NewDeniedVoice returns a voice that refuses every start.
func NewDeniedVoice() *Voice {
	return &Voice{deny: true}
}

// Start records the request; it fails with ErrDenied when configured to.
func (voice *Voice) Start(onDone func()) error {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	voice.starts++
	if voice.deny {
		return ErrDenied
	}
	voice.active = true
	voice.pending = onDone
	return nil
}

// Halt records the request.
func (voice *Voice) Halt() {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	voice.halts++
	voice.active = false
	voice.pending = nil
}

// Drain simulates a one-shot voice reaching its end.
func (voice *Voice) Drain() {
	voice.mu.Lock()
	onDone := voice.pending
	voice.pending = nil
	voice.active = false
	voice.mu.Unlock()
	if onDone != nil {
		onDone()
	}
}

// SetDenied switches the voice between accepting and refusing playback.
func (voice *Voice) SetDenied(deny bool) {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	voice.deny = deny
}

// Starts reports how many times Start was called.
func (voice *Voice) Starts() int {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	return voice.starts
}

// Halts reports how many times Halt was called.
func (voice *Voice) Halts() int {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	return voice.halts
}

// Active reports whether the voice is currently emitting sound.
func (voice *Voice) Active() bool {
	voice.mu.Lock()
	defer voice.mu.Unlock()
	return voice.active
}
