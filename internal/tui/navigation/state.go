package navigation

import (
	"github.com/hayasedb/mediadeck/internal/models"
)

type ViewState int

const (
	SectionView ViewState = iota
	ItemView
	PlayerView
)

type State struct {
	current   ViewState
	selection struct {
		Kind models.Kind
		Item *models.MediaItem
	}
	width    int
	height   int
	quitting bool
}

func NewState() *State {
	return &State{
		current: SectionView,
	}
}

func (s *State) GetCurrentView() ViewState {
	return s.current
}

func (s *State) SetCurrentView(view ViewState) {
	s.current = view
}

func (s *State) GetKind() models.Kind {
	return s.selection.Kind
}

func (s *State) SetKind(kind models.Kind) {
	s.selection.Kind = kind
}

func (s *State) GetItem() *models.MediaItem {
	return s.selection.Item
}

// SetItem also follows the player when it moves through the playlist.
func (s *State) SetItem(item *models.MediaItem) {
	s.selection.Item = item
}

func (s *State) ClearItem() {
	s.selection.Item = nil
}

func (s *State) SetDimensions(width, height int) {
	s.width = width
	s.height = height
}

func (s *State) GetDimensions() (int, int) {
	return s.width, s.height
}

func (s *State) SetQuitting(quit bool) {
	s.quitting = quit
}

func (s *State) IsQuitting() bool {
	return s.quitting
}

func (s *State) NavigateForward() {
	switch s.current {
	case SectionView:
		s.current = ItemView
	case ItemView:
		s.current = PlayerView
	case PlayerView:
	}
}

func (s *State) NavigateBack() {
	switch s.current {
	case SectionView:
	case ItemView:
		s.current = SectionView
	case PlayerView:
		s.current = ItemView
	}
}
