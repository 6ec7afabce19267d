// Package bank groups cues into an exclusive ambient track set and an
// independent tone set.
package bank

import (
	"errors"
	"fmt"
	"log/slog"

	"sonichealing/internal/core/cue"

	"github.com/samber/lo"
)

// ErrInvalidArgument indicates an operation referenced an id the bank does not hold.
// It is a wiring bug in the caller, never a user-facing condition.
var ErrInvalidArgument = errors.New("invalid argument")

// CueState is a read-only view of one cue.
type CueState struct {
	ID      string
	Playing bool
}

// cueSet keeps cues addressable by id in registration order.
type cueSet struct {
	order []string
	cues  map[string]*cue.Cue
}

func newCueSet(cues []*cue.Cue) cueSet {
	set := cueSet{cues: make(map[string]*cue.Cue, len(cues))}
	for _, item := range cues {
		if item == nil {
			continue
		}
		if _, exists := set.cues[item.ID()]; exists {
			continue
		}
		set.order = append(set.order, item.ID())
		set.cues[item.ID()] = item
	}
	return set
}

func (set cueSet) lookup(id string) (*cue.Cue, error) {
	item, ok := set.cues[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown cue %q", ErrInvalidArgument, id)
	}
	return item, nil
}

func (set cueSet) ids() []string {
	return append([]string(nil), set.order...)
}

func (set cueSet) states() []CueState {
	return lo.Map(set.order, func(id string, _ int) CueState {
		return CueState{ID: id, Playing: set.cues[id].IsPlaying()}
	})
}

func (set cueSet) stopAll() {
	for _, id := range set.order {
		set.cues[id].Stop()
	}
}

// play issues a best-effort start. Denials are logged and swallowed.
func play(item *cue.Cue) {
	if err := item.Play(); err != nil {
		slog.Debug("cue playback denied", "cue", item.ID(), "error", err)
	}
}
