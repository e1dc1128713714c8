package app

import (
	"context"

	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
	"github.com/hayasedb/mediadeck/internal/storage"
	"github.com/hayasedb/mediadeck/internal/tui/navigation"
	"github.com/hayasedb/mediadeck/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Start is where the TUI opens. With an item it goes straight to playback,
// with only a kind it opens that section.
type Start struct {
	Kind    models.Kind
	HasKind bool
	Item    *models.MediaItem
}

type Model struct {
	state       *navigation.State
	config      *storage.Config
	start       Start
	sectionView *views.SectionView
	itemView    *views.ItemView
	playerView  *views.PlayerView
	ctx         context.Context
	cancelFunc  context.CancelFunc
}

func NewModel(
	ctx context.Context,
	cancelFunc context.CancelFunc,
	cat *models.Catalog,
	registry *players.Registry,
	env *players.Env,
	config *storage.Config,
	start Start,
) Model {
	state := navigation.NewState()

	return Model{
		state:       state,
		config:      config,
		start:       start,
		sectionView: views.NewSectionView(state, cat),
		itemView:    views.NewItemView(state, cat, config),
		playerView:  views.NewPlayerView(state, cat, registry, env, config),
		ctx:         ctx,
		cancelFunc:  cancelFunc,
	}
}

func (m Model) Init() tea.Cmd {
	if !m.start.HasKind {
		return nil
	}

	m.state.SetKind(m.start.Kind)
	m.itemView.LoadSection(m.start.Kind)
	m.state.SetCurrentView(navigation.ItemView)

	if m.start.Item == nil {
		return nil
	}

	m.itemView.SelectItem(m.start.Item.ID)
	m.state.SetItem(m.start.Item)
	m.state.SetCurrentView(navigation.PlayerView)
	return m.playerView.Start()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			log.Debug("Ctrl+C pressed in TUI, stopping playback and exiting")
			m.playerView.Stop()
			if m.cancelFunc != nil {
				m.cancelFunc()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.state.SetDimensions(msg.Width, msg.Height)
		m.sectionView, _ = m.sectionView.Update(msg)
		m.itemView, _ = m.itemView.Update(msg)
		var cmd tea.Cmd
		m.playerView, cmd = m.playerView.Update(msg)
		return m, cmd
	}

	currentView := m.state.GetCurrentView()
	previousView := currentView

	var cmd tea.Cmd
	switch currentView {
	case navigation.SectionView:
		m.sectionView, cmd = m.sectionView.Update(msg)
	case navigation.ItemView:
		m.itemView, cmd = m.itemView.Update(msg)
	case navigation.PlayerView:
		m.playerView, cmd = m.playerView.Update(msg)
	}

	if m.state.GetCurrentView() != previousView {
		cmd = tea.Batch(cmd, m.handleViewTransition(previousView, m.state.GetCurrentView()))
	}

	return m, cmd
}

func (m Model) handleViewTransition(from, to navigation.ViewState) tea.Cmd {
	switch to {
	case navigation.ItemView:
		if from == navigation.SectionView {
			m.itemView.LoadSection(m.state.GetKind())
		} else if item := m.state.GetItem(); item != nil {
			m.itemView.SelectItem(item.ID)
		}
	case navigation.PlayerView:
		return m.playerView.Start()
	}
	return nil
}

func (m Model) View() string {
	if m.state.IsQuitting() {
		return "\n  Goodbye!\n\n"
	}

	switch m.state.GetCurrentView() {
	case navigation.SectionView:
		return m.sectionView.View()
	case navigation.ItemView:
		return m.itemView.View()
	case navigation.PlayerView:
		return m.playerView.View()
	default:
		return m.sectionView.View()
	}
}
