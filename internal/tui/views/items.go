package views

import (
	"strings"

	"github.com/hayasedb/mediadeck/internal/catalog"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/storage"
	"github.com/hayasedb/mediadeck/internal/tui/navigation"
	"github.com/hayasedb/mediadeck/internal/tui/ui"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mediaEntry struct {
	item *models.MediaItem
}

func (i mediaEntry) Title() string {
	if i.item.Title != "" {
		return i.item.Title
	}
	return i.item.ID
}

func (i mediaEntry) Description() string {
	parts := []string{kindLabel(linkclass.Classify(i.item.Link))}
	if by := i.item.Byline(); by != "" {
		parts = append(parts, by)
	}
	if stats := i.item.Stats(); stats != "" {
		parts = append(parts, stats)
	}
	return strings.Join(parts, " • ")
}

func (i mediaEntry) FilterValue() string { return i.item.Title }

func kindLabel(k linkclass.Kind) string {
	switch k {
	case linkclass.ScriptedEmbed:
		return "youtube"
	case linkclass.PassiveEmbed:
		return "browser"
	default:
		return "mpv"
	}
}

type searchResultsMsg struct {
	query   string
	results []*models.SearchResult
}

type ItemView struct {
	list        list.Model
	search      ui.SearchBar
	delegate    *ui.CustomDelegate
	catalog     *models.Catalog
	config      *storage.Config
	state       *navigation.State
	kind        models.Kind
	width       int
	height      int
	footer      *ui.Footer
}

func NewItemView(state *navigation.State, cat *models.Catalog, config *storage.Config) *ItemView {
	delegate := ui.NewCustomDelegate()
	l := list.New([]list.Item{}, delegate, 80, 24)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &ItemView{
		list:        l,
		search:      ui.NewSearchBar(),
		delegate:    delegate,
		catalog:     cat,
		config:      config,
		state:       state,
		footer:      ui.NewFooter(),
	}
}

// LoadSection shows every item of kind with the list focused.
func (v *ItemView) LoadSection(kind models.Kind) {
	v.kind = kind
	v.search.SetScope(kind.Title(), len(v.catalog.Items(kind)))
	v.setResults(catalog.Search(v.catalog.Items(kind), ""))
	v.focusListResults()
}

// SelectItem moves the cursor to id when it is listed.
func (v *ItemView) SelectItem(id string) {
	for i, entry := range v.list.Items() {
		if e, ok := entry.(mediaEntry); ok && e.item.ID == id {
			v.list.Select(i)
			return
		}
	}
}

func (v *ItemView) Update(msg tea.Msg) (*ItemView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.search.SetWidth(msg.Width)
		v.list.SetWidth(msg.Width)
		return v, nil

	case tea.KeyMsg:
		oldValue := v.search.Value()
		result, cmd := v.handleKeys(msg)
		if result.search.Focused() && result.config.GetInstantSearch() && result.search.Value() != oldValue {
			cmd = tea.Batch(cmd, result.startSearch())
		}
		return result, cmd

	case searchResultsMsg:
		if msg.query != strings.TrimSpace(v.search.Value()) {
			return v, nil
		}
		v.search.ShowResults(msg.query, len(msg.results))
		v.setResults(msg.results)
		return v, nil
	}

	oldFocused := v.search.Focused()
	search, cmd := v.search.Update(msg)
	v.search = *search

	if !oldFocused && v.search.Focused() {
		v.delegate.SetShowSelection(false)
		return v, cmd
	}

	if !v.search.Focused() {
		var listCmd tea.Cmd
		v.list, listCmd = v.list.Update(msg)
		cmd = tea.Batch(cmd, listCmd)
	}
	return v, cmd
}

func (v *ItemView) handleKeys(msg tea.KeyMsg) (*ItemView, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		v.state.SetQuitting(true)
		return v, tea.Quit
	case "esc":
		if v.search.Focused() {
			v.search.SetValue("")
			results := catalog.Search(v.catalog.Items(v.kind), "")
			v.search.ShowResults("", len(results))
			v.setResults(results)
			v.focusListResults()
			return v, nil
		}
		v.state.NavigateBack()
		return v, nil
	case "enter":
		if v.search.Focused() {
			v.focusListResults()
			return v, v.startSearch()
		}
		return v.handleSelection()
	case "down":
		if v.search.Focused() && len(v.list.Items()) > 0 {
			return v, v.focusListResults()
		}
	case "up":
		if !v.search.Focused() && v.list.Index() == 0 {
			return v, v.focusSearchInput()
		}
	}

	if !v.search.Focused() {
		switch msg.String() {
		case "q":
			v.state.SetQuitting(true)
			return v, tea.Quit
		case "/":
			return v, v.focusSearchInput()
		}
	}

	var cmd tea.Cmd
	if v.search.Focused() {
		search, cmd := v.search.Update(msg)
		v.search = *search
		return v, cmd
	}
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ItemView) handleSelection() (*ItemView, tea.Cmd) {
	if entry, ok := v.list.SelectedItem().(mediaEntry); ok {
		v.state.SetItem(entry.item)
		v.state.NavigateForward()
	}
	return v, nil
}

// startSearch runs the catalog search off the event loop. Results for a
// query that has since changed are dropped.
func (v *ItemView) startSearch() tea.Cmd {
	query := strings.TrimSpace(v.search.Value())
	items := v.catalog.Items(v.kind)

	spinnerCmd := v.search.Searching()

	return tea.Batch(spinnerCmd, func() tea.Msg {
		return searchResultsMsg{query: query, results: catalog.Search(items, query)}
	})
}

func (v *ItemView) setResults(results []*models.SearchResult) {
	items := make([]list.Item, len(results))
	for i, result := range results {
		items[i] = mediaEntry{item: result.Item}
	}
	v.list.SetItems(items)
	if len(items) > 0 {
		v.list.Select(0)
	}
}

func (v *ItemView) focusSearchInput() tea.Cmd {
	v.search.Focus()
	v.delegate.SetShowSelection(false)
	return textinput.Blink
}

func (v *ItemView) focusListResults() tea.Cmd {
	v.search.Blur()
	v.delegate.SetShowSelection(true)
	return nil
}

func (v *ItemView) View() string {
	header := v.search.View()

	if v.search.Focused() {
		v.footer.SetKeys(ui.SearchModeKeys())
	} else {
		v.footer.SetKeys(ui.ListNavigationKeys())
	}
	footerView := v.footer.View()

	var content string
	switch {
	case len(v.list.Items()) > 0:
		v.list.SetHeight(v.height - lipgloss.Height(header) - lipgloss.Height(footerView))
		content = v.list.View()
	case v.search.Value() != "":
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginLeft(2).Render("No results found")
	default:
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginLeft(2).Render("This section is empty")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footerView)
}

func (v *ItemView) SelectedItem() *models.MediaItem {
	if entry, ok := v.list.SelectedItem().(mediaEntry); ok {
		return entry.item
	}
	return nil
}
