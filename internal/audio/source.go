package audio

import (
	"path/filepath"
	"strings"
)

// Source describes what a voice plays. A Path is decoded from disk; without one, a
// positive Frequency is rendered as a sine tone and anything else as a gong strike.
// A one-shot whose file is missing is struck as a gong too.
type Source struct {
	ID        string
	Path      string
	Frequency float64
	Loop      bool
	// Gain is in log2 steps: 0 keeps the level, -1 halves it.
	Gain float64
}

func (source Source) synthesized() bool {
	return source.Path == ""
}

func (source Source) resolve(assetsDir string) string {
	if source.Path == "" || filepath.IsAbs(source.Path) || assetsDir == "" {
		return source.Path
	}
	return filepath.Join(assetsDir, source.Path)
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
