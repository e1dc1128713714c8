package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type FooterKey struct {
	Key         string
	Description string
}

type Footer struct {
	keys []FooterKey
}

func NewFooter() *Footer {
	return &Footer{}
}

func (f *Footer) SetKeys(keys []FooterKey) {
	f.keys = keys
}

func (f *Footer) View() string {
	if len(f.keys) == 0 {
		return ""
	}

	parts := make([]string, len(f.keys))
	for i, key := range f.keys {
		parts[i] = key.Key + ": " + key.Description
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginLeft(2).
		MarginBottom(1).
		MarginTop(1).
		Render(strings.Join(parts, " • "))
}

func SectionKeys() []FooterKey {
	return []FooterKey{
		{"enter", "open"},
		{"↑↓", "navigate"},
		{"q", "quit"},
	}
}

func SearchModeKeys() []FooterKey {
	return []FooterKey{
		{"enter", "search"},
		{"↓", "results"},
		{"esc", "clear"},
		{"ctrl+c", "quit"},
	}
}

func ListNavigationKeys() []FooterKey {
	return []FooterKey{
		{"enter", "play"},
		{"↑↓", "navigate"},
		{"/", "search"},
		{"esc", "back"},
		{"q", "quit"},
	}
}

// PlayerKeys lists the shortcuts of the named playback controller.
func PlayerKeys(controller string) []FooterKey {
	nav := []FooterKey{
		{"n/p", "next/prev"},
		{"esc", "back"},
		{"q", "quit"},
	}

	switch controller {
	case "native":
		return append([]FooterKey{
			{"space", "play/pause"},
			{"←→", "seek"},
			{"↑↓", "volume"},
			{"m", "mute"},
			{"<>", "speed"},
			{"f", "fullscreen"},
		}, nav...)
	case "embed":
		return append([]FooterKey{
			{"f", "fullscreen"},
			{"r", "return"},
		}, nav...)
	case "passive":
		return append([]FooterKey{
			{"f", "fullscreen"},
			{"o", "reopen"},
		}, nav...)
	default:
		return nav
	}
}
