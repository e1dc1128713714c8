package catalog

import (
	"fmt"

	"github.com/hayasedb/mediadeck/internal/models"
)

// Playlist is a circular cursor over one section of the catalog.
type Playlist struct {
	items []*models.MediaItem
	index int
}

func NewPlaylist(items []models.MediaItem) *Playlist {
	p := &Playlist{items: make([]*models.MediaItem, len(items))}
	for i := range items {
		p.items[i] = &items[i]
	}
	return p
}

func NewPlaylistFrom(items []*models.MediaItem) *Playlist {
	return &Playlist{items: items}
}

func (p *Playlist) Len() int {
	return len(p.items)
}

func (p *Playlist) Index() int {
	return p.index
}

func (p *Playlist) Current() *models.MediaItem {
	if len(p.items) == 0 {
		return nil
	}
	return p.items[p.index]
}

func (p *Playlist) Select(id string) (*models.MediaItem, error) {
	for i, item := range p.items {
		if item.ID == id {
			p.index = i
			return item, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
}

// Next advances the cursor, wrapping from the last item to the first.
func (p *Playlist) Next() *models.MediaItem {
	if len(p.items) == 0 {
		return nil
	}
	p.index = (p.index + 1) % len(p.items)
	return p.items[p.index]
}

// Prev moves the cursor back, wrapping from the first item to the last.
func (p *Playlist) Prev() *models.MediaItem {
	if len(p.items) == 0 {
		return nil
	}
	p.index = (p.index - 1 + len(p.items)) % len(p.items)
	return p.items[p.index]
}
