// Package scene holds the selectable background images.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// ErrInvalidArgument indicates a backdrop index outside the catalog.
var ErrInvalidArgument = errors.New("invalid backdrop")

// Backdrop is one named background image.
type Backdrop struct {
	Name     string
	ImageURL string
}

// Picker tracks the selected backdrop.
type Picker struct {
	mu        sync.Mutex
	backdrops []Backdrop
	current   int
}

// NewPicker creates a picker positioned at the first backdrop. Entries without an image are skipped.
func NewPicker(backdrops []Backdrop) *Picker {
	return &Picker{
		backdrops: lo.Filter(backdrops, func(backdrop Backdrop, _ int) bool {
			return backdrop.ImageURL != ""
		}),
	}
}

// Select makes the backdrop at index current.
func (picker *Picker) Select(index int) error {
	picker.mu.Lock()
	defer picker.mu.Unlock()

	if index < 0 || index >= len(picker.backdrops) {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidArgument, index, len(picker.backdrops))
	}
	picker.current = index
	return nil
}

// Current returns the selected backdrop and its index. ok is false when the picker is empty.
func (picker *Picker) Current() (backdrop Backdrop, index int, ok bool) {
	picker.mu.Lock()
	defer picker.mu.Unlock()

	if len(picker.backdrops) == 0 {
		return Backdrop{}, 0, false
	}
	return picker.backdrops[picker.current], picker.current, true
}

// All returns a copy of the available backdrops.
func (picker *Picker) All() []Backdrop {
	picker.mu.Lock()
	defer picker.mu.Unlock()
	return append([]Backdrop(nil), picker.backdrops...)
}
