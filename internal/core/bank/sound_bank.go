package bank

import (
	"sync"

	"sonichealing/internal/core/cue"
)

// SoundSnapshot is the shell-facing view of the ambient tracks.
type SoundSnapshot struct {
	ActiveID string
	Tracks   []CueState
}

// SoundBank holds mutually-exclusive ambient tracks: selecting one stops the rest.
type SoundBank struct {
	mu       sync.Mutex
	tracks   cueSet
	activeID string
}

// NewSoundBank creates a bank over the given tracks. Duplicate ids keep the first cue.
func NewSoundBank(tracks ...*cue.Cue) *SoundBank {
	return &SoundBank{tracks: newCueSet(tracks)}
}

// Select toggles id: selecting the active track deselects it, selecting any
// other track stops the active one first and then starts id.
func (soundBank *SoundBank) Select(id string) error {
	soundBank.mu.Lock()
	defer soundBank.mu.Unlock()

	track, err := soundBank.tracks.lookup(id)
	if err != nil {
		return err
	}

	if soundBank.activeID == id {
		track.Stop()
		soundBank.activeID = ""
		return nil
	}

	if soundBank.activeID != "" {
		if active, lookupErr := soundBank.tracks.lookup(soundBank.activeID); lookupErr == nil {
			active.Stop()
		}
	}
	play(track)
	soundBank.activeID = id
	return nil
}

// StopAll stops every track and clears the selection.
func (soundBank *SoundBank) StopAll() {
	soundBank.mu.Lock()
	defer soundBank.mu.Unlock()
	soundBank.tracks.stopAll()
	soundBank.activeID = ""
}

// ActiveID returns the selected track, if any.
func (soundBank *SoundBank) ActiveID() (string, bool) {
	soundBank.mu.Lock()
	defer soundBank.mu.Unlock()
	return soundBank.activeID, soundBank.activeID != ""
}

// IDs lists the track ids in registration order.
func (soundBank *SoundBank) IDs() []string {
	soundBank.mu.Lock()
	defer soundBank.mu.Unlock()
	return soundBank.tracks.ids()
}

// Snapshot returns the current selection and per-track state.
func (soundBank *SoundBank) Snapshot() SoundSnapshot {
	soundBank.mu.Lock()
	defer soundBank.mu.Unlock()
	return SoundSnapshot{
		ActiveID: soundBank.activeID,
		Tracks:   soundBank.tracks.states(),
	}
}
