package model

import "time"

// SessionConfig defines the countdown limits and cadence.
type SessionConfig struct {
	DefaultMinutes int
	MinMinutes     int
	MaxMinutes     int
	TickInterval   time.Duration
}

// BreathConfig defines the breathing cycle cadence.
type BreathConfig struct {
	Interval    time.Duration
	StartActive bool
}

// AudioConfig contains runtime settings for the audio engine.
type AudioConfig struct {
	Enabled    bool
	SampleRate int
	Buffer     time.Duration
	AssetsDir  string
}
