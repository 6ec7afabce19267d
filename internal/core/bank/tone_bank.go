package bank

import (
	"sync"

	"sonichealing/internal/core/cue"

	"github.com/samber/lo"
)

// ToneBank holds independently toggled frequency tones.
type ToneBank struct {
	mu    sync.Mutex
	tones cueSet
}

// NewToneBank creates a bank over the given tones. Duplicate ids keep the first cue.
func NewToneBank(tones ...*cue.Cue) *ToneBank {
	return &ToneBank{tones: newCueSet(tones)}
}

// Toggle flips one tone without touching the others.
func (toneBank *ToneBank) Toggle(id string) error {
	toneBank.mu.Lock()
	defer toneBank.mu.Unlock()

	tone, err := toneBank.tones.lookup(id)
	if err != nil {
		return err
	}
	if tone.IsPlaying() {
		tone.Stop()
		return nil
	}
	play(tone)
	return nil
}

// IsPlaying reports the state of one tone.
func (toneBank *ToneBank) IsPlaying(id string) (bool, error) {
	toneBank.mu.Lock()
	defer toneBank.mu.Unlock()

	tone, err := toneBank.tones.lookup(id)
	if err != nil {
		return false, err
	}
	return tone.IsPlaying(), nil
}

// StopAll silences every tone.
func (toneBank *ToneBank) StopAll() {
	toneBank.mu.Lock()
	defer toneBank.mu.Unlock()
	toneBank.tones.stopAll()
}

// IDs lists the tone ids in registration order.
func (toneBank *ToneBank) IDs() []string {
	toneBank.mu.Lock()
	defer toneBank.mu.Unlock()
	return toneBank.tones.ids()
}

// Snapshot maps each tone id to its playing state.
func (toneBank *ToneBank) Snapshot() map[string]bool {
	toneBank.mu.Lock()
	defer toneBank.mu.Unlock()
	return lo.SliceToMap(toneBank.tones.states(), func(state CueState) (string, bool) {
		return state.ID, state.Playing
	})
}
