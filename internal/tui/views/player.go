package views

import (
	"fmt"
	"strings"

	"github.com/hayasedb/mediadeck/internal/catalog"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
	"github.com/hayasedb/mediadeck/internal/storage"
	"github.com/hayasedb/mediadeck/internal/tui/navigation"
	"github.com/hayasedb/mediadeck/internal/tui/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginLeft(2).MarginTop(1)
	contentStyle = lipgloss.NewStyle().MarginLeft(2)
)

// PlayerView hosts the playback controllers for one section of the catalog.
type PlayerView struct {
	state      *navigation.State
	catalog    *models.Catalog
	config     *storage.Config
	dispatcher *players.Dispatcher
	playlist   *catalog.Playlist
	quality    string
	width      int
	height     int
	footer     *ui.Footer
}

func NewPlayerView(state *navigation.State, cat *models.Catalog, registry *players.Registry, env *players.Env, config *storage.Config) *PlayerView {
	v := &PlayerView{
		state:    state,
		catalog:  cat,
		config:   config,
		playlist: catalog.NewPlaylist(nil),
		footer:   ui.NewFooter(),
	}
	v.dispatcher = players.NewDispatcher(registry, env, players.Callbacks{
		OnEnded:   v.onEnded,
		OnNext:    func() { v.show(v.playlist.Next()) },
		OnPrev:    func() { v.show(v.playlist.Prev()) },
		OnQuality: func(label string) { v.quality = label },
	})
	return v
}

// Start plays the selected item with the rest of its section as the playlist.
func (v *PlayerView) Start() tea.Cmd {
	item := v.state.GetItem()
	if item == nil {
		return nil
	}

	v.playlist = catalog.NewPlaylist(v.catalog.Items(v.state.GetKind()))
	if _, err := v.playlist.Select(item.ID); err != nil {
		log.Warn("Selected item is not in its section", "item", item.ID, "error", err)
		v.playlist = catalog.NewPlaylistFrom([]*models.MediaItem{item})
	}

	cmd := v.show(v.playlist.Current())
	if v.width > 0 {
		v.dispatcher.Update(tea.WindowSizeMsg{Width: v.width - contentMargin, Height: v.height})
	}
	return cmd
}

func (v *PlayerView) show(item *models.MediaItem) tea.Cmd {
	if item == nil {
		return nil
	}
	if current := v.dispatcher.Item(); current == nil || current.ID != item.ID {
		v.quality = ""
	}
	v.state.SetItem(item)
	return v.dispatcher.Render(item)
}

func (v *PlayerView) onEnded() {
	if !v.config.GetAutoplay() || v.playlist.Len() < 2 {
		return
	}
	log.Debug("Autoplay advancing", "from", v.dispatcher.Item().ID)
	v.show(v.playlist.Next())
}

// Stop tears down the active controller.
func (v *PlayerView) Stop() {
	v.dispatcher.Close()
	v.quality = ""
}

func (v *PlayerView) Quality() string {
	return v.quality
}

func (v *PlayerView) Playlist() *catalog.Playlist {
	return v.playlist
}

const contentMargin = 2

func (v *PlayerView) Update(msg tea.Msg) (*PlayerView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			v.Stop()
			v.state.SetQuitting(true)
			return v, tea.Quit
		case "esc":
			v.Stop()
			v.state.NavigateBack()
			return v, nil
		}
		return v, v.dispatcher.Update(msg)

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		msg.Width -= contentMargin
		return v, v.dispatcher.Update(msg)

	case tea.MouseMsg:
		// Controllers expect coordinates relative to their own view.
		msg.X -= contentMargin
		msg.Y -= lipgloss.Height(v.header())
		return v, v.dispatcher.Update(msg)
	}

	return v, v.dispatcher.Update(msg)
}

func (v *PlayerView) header() string {
	parts := []string{v.state.GetKind().Title()}
	if v.playlist.Len() > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", v.playlist.Index()+1, v.playlist.Len()))
	}
	if item := v.dispatcher.Item(); item != nil {
		if by := item.Byline(); by != "" {
			parts = append(parts, by)
		}
	}
	if v.quality != "" {
		parts = append(parts, v.quality)
	}
	return sectionStyle.Render(strings.Join(parts, " • ")) + "\n"
}

func (v *PlayerView) View() string {
	name := ""
	if c := v.dispatcher.Controller(); c != nil {
		name = c.Name()
	}
	v.footer.SetKeys(ui.PlayerKeys(name))

	return lipgloss.JoinVertical(lipgloss.Left,
		v.header(),
		contentStyle.Render(v.dispatcher.View()),
		v.footer.View())
}
