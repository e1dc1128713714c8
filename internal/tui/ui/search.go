package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	searchPrompt = "> "
	// searchRow is the line the input sits on, below the top margin.
	searchRow = 1
	// statusRoom is kept free right of the input for the match count.
	statusRoom = 28
)

var (
	searchBarStyle = lipgloss.NewStyle().MarginTop(searchRow).MarginBottom(1)
	scopeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// SearchBar is the query line above a section's items. It names the section
// being searched and how many of its items the shown results cover.
type SearchBar struct {
	input   textinput.Model
	spinner spinner.Model

	scope string
	total int
	width int

	// query and matched describe the results currently listed, which lag
	// the typed value while a search is running.
	query     string
	matched   int
	searching bool
}

func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Prompt = searchPrompt
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SearchBar{input: ti, spinner: s}
}

// SetScope points the bar at a section of total items and clears the query.
func (b *SearchBar) SetScope(section string, total int) {
	b.scope = section
	b.total = total
	b.input.Placeholder = "Search " + strings.ToLower(section) + "..."
	b.input.SetValue("")
	b.ShowResults("", total)
	b.resize()
}

// Searching swaps the prompt for a spinner until ShowResults is called.
func (b *SearchBar) Searching() tea.Cmd {
	b.searching = true
	b.input.Prompt = b.spinner.View() + " "
	return b.spinner.Tick
}

func (b *SearchBar) ShowResults(query string, matched int) {
	b.searching = false
	b.input.Prompt = searchPrompt
	b.query = query
	b.matched = matched
}

func (b *SearchBar) Status() string {
	switch {
	case b.searching:
		return "searching " + strings.ToLower(b.scope) + "..."
	case b.query == "":
		return countItems(b.total)
	default:
		return fmt.Sprintf("%d of %s match %q", b.matched, countItems(b.total), b.query)
	}
}

func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

func (b *SearchBar) label() string {
	if b.scope == "" {
		return ""
	}
	return scopeStyle.Render(b.scope) + " "
}

func (b *SearchBar) Update(msg tea.Msg) (*SearchBar, tea.Cmd) {
	var cmds []tea.Cmd

	if mouse, ok := msg.(tea.MouseMsg); ok && mouse.Button == tea.MouseButtonLeft && mouse.Action == tea.MouseActionPress {
		if col, ok := b.inputColumn(mouse.X, mouse.Y); ok {
			if !b.input.Focused() {
				cmds = append(cmds, b.input.Focus())
			}
			b.input.SetCursor(min(col, len([]rune(b.input.Value()))))
		}
	}

	if b.searching {
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		b.input.Prompt = b.spinner.View() + " "
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	cmds = append(cmds, cmd)

	return b, tea.Batch(cmds...)
}

// inputColumn maps a click to a rune offset in the typed value. Clicks on the
// section label or the prompt land on the first rune.
func (b *SearchBar) inputColumn(x, y int) (int, bool) {
	if y != searchRow {
		return 0, false
	}
	start := lipgloss.Width(b.label())
	end := start + len(searchPrompt) + b.input.Width
	if x >= end {
		return 0, false
	}
	return max(0, x-start-len(searchPrompt)), true
}

func (b *SearchBar) View() string {
	line := b.label() + b.input.View() + "  " + countStyle.Render(b.Status())
	return searchBarStyle.Render(line)
}

func (b *SearchBar) SetWidth(width int) {
	b.width = width
	b.resize()
}

// resize fits the input between the section label and the status.
func (b *SearchBar) resize() {
	if b.width == 0 {
		return
	}
	b.input.Width = max(10, b.width-lipgloss.Width(b.label())-len(searchPrompt)-statusRoom)
}

func (b *SearchBar) Focus() tea.Cmd {
	return b.input.Focus()
}

func (b *SearchBar) Blur() {
	b.input.Blur()
}

func (b *SearchBar) Focused() bool {
	return b.input.Focused()
}

func (b *SearchBar) Value() string {
	return b.input.Value()
}

func (b *SearchBar) SetValue(value string) {
	b.input.SetValue(value)
}
