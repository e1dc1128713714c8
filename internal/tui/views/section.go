package views

import (
	"fmt"

	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/tui/navigation"
	"github.com/hayasedb/mediadeck/internal/tui/ui"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sectionItem struct {
	kind  models.Kind
	count int
}

func (i sectionItem) Title() string { return i.kind.Title() }

func (i sectionItem) Description() string {
	if i.count == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", i.count)
}

func (i sectionItem) FilterValue() string { return i.kind.Title() }

type SectionView struct {
	list   list.Model
	state  *navigation.State
	width  int
	height int
	footer *ui.Footer
}

func NewSectionView(state *navigation.State, cat *models.Catalog) *SectionView {
	items := make([]list.Item, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		items = append(items, sectionItem{kind: kind, count: len(cat.Items(kind))})
	}

	l := list.New(items, ui.NewCustomDelegate(), 80, 24)
	l.Title = "mediadeck"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &SectionView{
		list:   l,
		state:  state,
		footer: ui.NewFooter(),
	}
}

func (v *SectionView) Update(msg tea.Msg) (*SectionView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.list.SetWidth(msg.Width)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeys(msg)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *SectionView) handleKeys(msg tea.KeyMsg) (*SectionView, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		v.state.SetQuitting(true)
		return v, tea.Quit
	case "enter":
		return v.handleSelection()
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *SectionView) handleSelection() (*SectionView, tea.Cmd) {
	if item, ok := v.list.SelectedItem().(sectionItem); ok {
		v.state.SetKind(item.kind)
		v.state.NavigateForward()
	}
	return v, nil
}

func (v *SectionView) View() string {
	v.footer.SetKeys(ui.SectionKeys())
	footerView := v.footer.View()

	v.list.SetHeight(v.height - lipgloss.Height(footerView) - 1)
	content := lipgloss.NewStyle().MarginTop(1).Render(v.list.View())

	return lipgloss.JoinVertical(lipgloss.Left, content, footerView)
}
