package animation

import "time"

// DefaultConfig returns a pulse that spans one 4 s breathing phase.
func DefaultConfig() Config {
	return Config{
		Duration:      3800 * time.Millisecond,
		FrameInterval: 33 * time.Millisecond,
		MinScale:      0.55,
		MaxScale:      1.0,
	}
}
