package ui

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

var accent = lipgloss.Color("205")

type CustomDelegate struct {
	list.DefaultDelegate
	showSelection bool
}

func NewCustomDelegate() *CustomDelegate {
	d := list.NewDefaultDelegate()
	d.SetHeight(2)
	d.ShowDescription = true
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(accent).BorderForeground(accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.BorderForeground(accent)

	return &CustomDelegate{
		DefaultDelegate: d,
		showSelection:   true,
	}
}

func (d *CustomDelegate) SetShowSelection(show bool) {
	d.showSelection = show
}

// Render hides the cursor while the search input has focus.
func (d *CustomDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	renderIndex := index
	if !d.showSelection {
		renderIndex = -1
	}
	d.DefaultDelegate.Render(w, m, renderIndex, listItem)
}
