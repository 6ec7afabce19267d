//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"errors"

	"github.com/gopxl/beep/v2"
)

var errNoCgo = errors.New("native audio needs cgo on this platform")

// silentSink is used where the native sound libraries need cgo.
type silentSink struct{}

func newSpeakerSink() sink {
	return silentSink{}
}

func (silentSink) init(beep.SampleRate, int) error {
	return errNoCgo
}

func (silentSink) play(beep.Streamer) {}

func (silentSink) lock() {}

func (silentSink) unlock() {}

func (silentSink) close() {}
