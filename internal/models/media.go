package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMissingLink = errors.New("media item has no link")

type MediaItem struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Tags        []string `yaml:"tags" json:"tags"`
	Author      string   `yaml:"author" json:"author"`
	Host        string   `yaml:"host" json:"host"`
	Rating      float64  `yaml:"rating" json:"rating"`
	Views       int      `yaml:"views" json:"views"`
	Plays       int      `yaml:"plays" json:"plays"`
	Published   string   `yaml:"date" json:"date"`
	Link        string   `yaml:"link" json:"link"`
	Thumbnail   string   `yaml:"thumbnail" json:"thumbnail"`
	Cover       string   `yaml:"cover" json:"cover"`
	Duration    string   `yaml:"duration" json:"duration"`
}

func (m *MediaItem) String() string {
	title := m.Title
	if title == "" {
		title = m.ID
	}
	if by := m.Byline(); by != "" {
		return fmt.Sprintf("%s - %s", title, by)
	}
	return title
}

// Byline prefers the author and falls back to the podcast host.
func (m *MediaItem) Byline() string {
	if m.Author != "" {
		return m.Author
	}
	return m.Host
}

func (m *MediaItem) Artwork() string {
	if m.Cover != "" {
		return m.Cover
	}
	return m.Thumbnail
}

func (m *MediaItem) PublishedAt() (time.Time, bool) {
	if m.Published == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01"} {
		if t, err := time.Parse(layout, m.Published); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Stats joins whichever display counters are present, e.g. "4.5★ • 1200 views".
func (m *MediaItem) Stats() string {
	var parts []string
	if m.Rating > 0 {
		parts = append(parts, fmt.Sprintf("%.1f★", m.Rating))
	}
	if m.Views > 0 {
		parts = append(parts, fmt.Sprintf("%d views", m.Views))
	}
	if m.Plays > 0 {
		parts = append(parts, fmt.Sprintf("%d plays", m.Plays))
	}
	if m.Duration != "" {
		parts = append(parts, m.Duration)
	}
	if t, ok := m.PublishedAt(); ok {
		parts = append(parts, t.Format("Jan 2006"))
	}
	return strings.Join(parts, " • ")
}

func (m *MediaItem) Validate() error {
	if strings.TrimSpace(m.Link) == "" {
		return fmt.Errorf("%q: %w", m.ID, ErrMissingLink)
	}
	return nil
}

type SearchResult struct {
	Item  *MediaItem `json:"item"`
	Score float64    `json:"score"`
}
