//go:build (linux && cgo) || windows || darwin

package audio

import (
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// speakerSink drives the process-wide beep speaker.
type speakerSink struct{}

func newSpeakerSink() sink {
	return speakerSink{}
}

func (speakerSink) init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerSink) play(streamer beep.Streamer) {
	speaker.Play(streamer)
}

func (speakerSink) lock() {
	speaker.Lock()
}

func (speakerSink) unlock() {
	speaker.Unlock()
}

func (speakerSink) close() {
	speaker.Clear()
	speaker.Close()
}
