package embed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("86")).
			Padding(0, 1)
)

func (c *Controller) View() string {
	var b strings.Builder

	title := ""
	if c.item != nil {
		title = c.item.Title
	}
	b.WriteString(titleStyle.Render(title))
	if c.quality != "" {
		b.WriteString(" " + badgeStyle.Render(c.quality))
	}
	b.WriteString("\n")

	switch c.state {
	case StateWaiting:
		b.WriteString(statusStyle.Render("  Waiting for the embedded player..."))
	case StateLoading:
		b.WriteString(statusStyle.Render("  Loading..."))
	case StateStopped:
		b.WriteString(statusStyle.Render("  The embedded player did not load. n: next item"))
	case StateUnavailable:
		msg := "  Video unavailable."
		if c.errorCode != 0 {
			msg = fmt.Sprintf("  Video unavailable (code %d).", c.errorCode)
		}
		b.WriteString(warnStyle.Render(msg))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("  enter: play next"))
	default:
		status := c.state.String()
		if c.fullscreen {
			status += " • fullscreen"
		}
		b.WriteString(statusStyle.Render("  " + status))
	}

	if c.foreign {
		label := "something else"
		if c.foreignTitle != "" {
			label = fmt.Sprintf("%q", c.foreignTitle)
		}
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render(fmt.Sprintf("Now playing %s instead of the selected item. r: return", label)))
	}

	return b.String()
}
