package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		59:   "00:59",
		60:   "01:00",
		600:  "10:00",
		3599: "59:59",
		3600: "60:00",
		-5:   "00:00",
	}
	for seconds, want := range cases {
		require.Equal(t, want, FormatClock(seconds), "seconds=%d", seconds)
	}
}

func TestParseMinutes(t *testing.T) {
	minutes, ok := ParseMinutes(" 25 ", 1, 60)
	require.True(t, ok)
	require.Equal(t, 25, minutes)

	minutes, ok = ParseMinutes("0", 1, 60)
	require.True(t, ok)
	require.Equal(t, 1, minutes)

	minutes, ok = ParseMinutes("500", 1, 60)
	require.True(t, ok)
	require.Equal(t, 60, minutes)

	_, ok = ParseMinutes("ten", 1, 60)
	require.False(t, ok)
	_, ok = ParseMinutes("", 1, 60)
	require.False(t, ok)
}

// TestProperty_ClampStaysInRange checks clamped minutes always reach Configure in range.
func TestProperty_ClampStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minutes := rapid.Int().Draw(t, "minutes")
		clamped := ClampMinutes(minutes, 1, 60)
		if clamped < 1 || clamped > 60 {
			t.Fatalf("clamp(%d) = %d", minutes, clamped)
		}
		if minutes >= 1 && minutes <= 60 && clamped != minutes {
			t.Fatalf("in-range %d changed to %d", minutes, clamped)
		}
	})
}
