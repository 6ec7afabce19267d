package tui

import (
	"fmt"
	"strings"

	"sonichealing/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E40AF"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#059669"))
	clockStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6EE7B7"))
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	breathWidths = map[string]int{"inhale": 18, "hold": 18, "exhale": 6}
)

// View renders the player.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sonic Healing"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Experience deep relaxation and healing through sound."))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(m.viewTracks()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.viewTones()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.viewTimer()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.viewBreath()))
	b.WriteString("\n")

	if backdrop, _, ok := m.studio.Scenes.Current(); ok {
		b.WriteString(subtleStyle.Render("Scene: " + backdrop.Name))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(subtleStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(sectionStyle.Render(subtleStyle.Render(
		"1-9 track  a-c tone  x stop all  +/- minutes  space start/stop  r breathing  s scene  q quit")))
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m Model) viewTracks() string {
	lines := []string{titleStyle.Render("Tracks")}
	active, _ := m.studio.Sounds.ActiveID()
	for index, id := range m.studio.Sounds.IDs() {
		lines = append(lines, m.line(fmt.Sprintf("%d", index+1), m.studio.Name(id), id == active))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewTones() string {
	lines := []string{titleStyle.Render("Frequencies")}
	playing := m.studio.Tones.Snapshot()
	for index, id := range m.studio.Tones.IDs() {
		if index >= len(toneKeys) {
			break
		}
		lines = append(lines, m.line(string(toneKeys[index]), m.studio.Name(id), playing[id]))
	}
	return strings.Join(lines, "\n")
}

func (m Model) line(key, name string, on bool) string {
	marker := "  "
	label := name
	if on {
		marker = "▶ "
		label = activeStyle.Render(name)
	}
	return fmt.Sprintf("%s%s %s", marker, keyStyle.Render("["+key+"]"), label)
}

func (m Model) viewTimer() string {
	state := "idle"
	if m.timer.Running() {
		state = "running"
	}
	header := fmt.Sprintf("%s  %s", titleStyle.Render("Session"), subtleStyle.Render(fmt.Sprintf("%d min, %s", m.minutes, state)))
	return lipgloss.JoinVertical(lipgloss.Left, header, clockStyle.Render(ui.FormatClock(m.timer.RemainingSeconds)))
}

func (m Model) viewBreath() string {
	if !m.breath.Active {
		return titleStyle.Render("Breathing") + "  " + subtleStyle.Render("paused")
	}
	bar := strings.Repeat("●", breathWidths[m.breath.Phase.String()])
	return titleStyle.Render("Breathing") + "  " + activeStyle.Render(m.breath.Phase.Label()) + "\n" + activeStyle.Render(bar)
}
