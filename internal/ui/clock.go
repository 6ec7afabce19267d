// Package ui holds helpers shared by the desktop and terminal shells.
package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders seconds as MM:SS. Negative values render as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseMinutes reads a minutes field and clamps it into [minMinutes, maxMinutes].
// ok is false for empty or non-numeric input.
func ParseMinutes(value string, minMinutes, maxMinutes int) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return ClampMinutes(parsed, minMinutes, maxMinutes), true
}

// ClampMinutes bounds minutes to [minMinutes, maxMinutes].
func ClampMinutes(minutes, minMinutes, maxMinutes int) int {
	return min(max(minutes, minMinutes), maxMinutes)
}
