package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

const gongLength = 4 * time.Second

// gongPartials approximates a struck metal bowl: a fundamental plus inharmonic overtones.
var gongPartials = []struct {
	ratio float64
	level float64
	decay float64
}{
	{ratio: 1.0, level: 0.45, decay: 0.9},
	{ratio: 2.76, level: 0.25, decay: 1.6},
	{ratio: 5.4, level: 0.15, decay: 2.8},
	{ratio: 8.93, level: 0.08, decay: 4.0},
}

// gongStreamer renders a finite decaying strike.
type gongStreamer struct {
	rate      beep.SampleRate
	frequency float64
	samples   int
	position  int
}

func newGong(rate beep.SampleRate, frequency float64) *gongStreamer {
	if frequency <= 0 {
		frequency = 110
	}
	return &gongStreamer{
		rate:      rate,
		frequency: frequency,
		samples:   rate.N(gongLength),
	}
}

func (gong *gongStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if gong.position >= gong.samples {
		return 0, false
	}
	for i := range samples {
		if gong.position >= gong.samples {
			return i, true
		}
		t := float64(gong.position) / float64(gong.rate)
		value := 0.0
		for _, partial := range gongPartials {
			value += partial.level * math.Exp(-partial.decay*t) * math.Sin(2*math.Pi*gong.frequency*partial.ratio*t)
		}
		// 5 ms attack to avoid a click.
		if attack := 0.005; t < attack {
			value *= t / attack
		}
		samples[i][0] = value
		samples[i][1] = value
		gong.position++
	}
	return len(samples), true
}

func (gong *gongStreamer) Err() error {
	return nil
}
