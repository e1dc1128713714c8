package native

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	playedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	bufferedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	hoverStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	badgeStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("86")).
			Padding(0, 1)
)

const barMargin = 2

// View renders the transport controls. Mouse coordinates passed to Update
// are relative to the first line of this view.
func (c *Controller) View() string {
	var b strings.Builder

	title := ""
	if c.item != nil {
		title = c.item.Title
	}

	header := fmt.Sprintf("%s %s", c.state.Icon(), titleStyle.Render(title))
	if c.quality != "" {
		header += " " + badgeStyle.Render(c.quality)
	}
	b.WriteString(header)
	b.WriteString("\n")

	if c.state == StateUnavailable {
		b.WriteString(warnStyle.Render("  This source could not be played."))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("  n: next item • p: previous item"))
		c.bar = barLayout{}
		return b.String()
	}

	if !c.controlsVisible {
		c.bar = barLayout{}
		return b.String()
	}

	width := c.width - barMargin*2
	if width < 10 {
		width = 10
	}
	c.bar = barLayout{x: barMargin, y: 1, width: width}

	b.WriteString(strings.Repeat(" ", barMargin))
	b.WriteString(c.renderBar(width))
	b.WriteString("\n")

	status := []string{
		fmt.Sprintf("%s / %s", formatTime(c.elapsed), formatTime(c.duration)),
		c.volumeLabel(),
		fmt.Sprintf("%gx", c.env.Prefs.Rate),
		c.state.String(),
	}
	if c.fullscreen {
		status = append(status, "fullscreen")
	}
	if t, ok := c.HoverTime(); ok {
		status = append(status, hoverStyle.Render("→ "+formatTime(t)))
	}

	b.WriteString(strings.Repeat(" ", barMargin))
	b.WriteString(statusStyle.Render(strings.Join(status, " • ")))

	return b.String()
}

func (c *Controller) renderBar(width int) string {
	if c.duration <= 0 {
		return emptyStyle.Render(strings.Repeat("─", width))
	}

	played := int(math.Round(c.elapsed / c.duration * float64(width)))
	buffered := int(math.Round(c.buffered * float64(width)))
	if buffered < played {
		buffered = played
	}

	hover := -1
	if t, ok := c.HoverTime(); ok {
		hover = int(math.Round(t / c.duration * float64(width-1)))
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == hover:
			b.WriteString(hoverStyle.Render("│"))
		case i < played:
			b.WriteString(playedStyle.Render("━"))
		case i < buffered:
			b.WriteString(bufferedStyle.Render("─"))
		default:
			b.WriteString(emptyStyle.Render("·"))
		}
	}
	return b.String()
}

func (c *Controller) volumeLabel() string {
	prefs := c.env.Prefs
	if prefs.Silent() {
		return "muted"
	}
	return fmt.Sprintf("vol %d%%", int(math.Round(prefs.Volume*100)))
}

func formatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
