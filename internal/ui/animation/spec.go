package animation

import (
	"math"

	"sonichealing/internal/core/breath"
)

// TargetScale returns the circle scale a phase settles on.
// Hold keeps the current scale.
func (config Config) TargetScale(phase breath.Phase, current float32) float32 {
	switch phase {
	case breath.Inhale:
		return config.MaxScale
	case breath.Exhale:
		return config.MinScale
	default:
		return current
	}
}

// Ease maps linear progress in [0, 1] onto a sine in-out curve.
func Ease(progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	return 0.5 - 0.5*math.Cos(math.Pi*progress)
}
