package breath

// Phase is one step of the breathing pattern.
type Phase int

const (
	Inhale Phase = iota
	Hold
	Exhale
)

var phaseNames = [...]string{"inhale", "hold", "exhale"}

// String returns the lowercase phase name.
func (phase Phase) String() string {
	if phase < Inhale || phase > Exhale {
		return "unknown"
	}
	return phaseNames[phase]
}

// Label returns the prompt shown to the user.
func (phase Phase) Label() string {
	switch phase {
	case Inhale:
		return "Breathe In"
	case Hold:
		return "Hold"
	case Exhale:
		return "Breathe Out"
	default:
		return ""
	}
}

// Next returns the phase that follows, wrapping exhale back to inhale.
func (phase Phase) Next() Phase {
	return (phase + 1) % 3
}

// Snapshot is the read-only cycle view handed to shells.
type Snapshot struct {
	Phase  Phase
	Active bool
}
