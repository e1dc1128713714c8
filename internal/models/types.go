package models

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Video Kind = iota
	Music
	Podcast
)

var Kinds = []Kind{Video, Music, Podcast}

func (k Kind) String() string {
	switch k {
	case Video:
		return "videos"
	case Music:
		return "music"
	case Podcast:
		return "podcasts"
	default:
		return "unknown"
	}
}

func (k Kind) Title() string {
	switch k {
	case Video:
		return "Videos"
	case Music:
		return "Music"
	case Podcast:
		return "Podcasts"
	default:
		return "Unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "videos", "video", "v":
		return Video, nil
	case "music", "songs", "m":
		return Music, nil
	case "podcasts", "podcast", "p":
		return Podcast, nil
	default:
		return Video, fmt.Errorf("unknown section: %s (valid: videos, music, podcasts)", s)
	}
}

type Catalog struct {
	Videos   []MediaItem `yaml:"videos" json:"videos"`
	Music    []MediaItem `yaml:"music" json:"music"`
	Podcasts []MediaItem `yaml:"podcasts" json:"podcasts"`
}

func (c *Catalog) Items(kind Kind) []MediaItem {
	switch kind {
	case Video:
		return c.Videos
	case Music:
		return c.Music
	case Podcast:
		return c.Podcasts
	default:
		return nil
	}
}

func (c *Catalog) Find(id string) (*MediaItem, Kind, bool) {
	for _, kind := range Kinds {
		items := c.Items(kind)
		for i := range items {
			if items[i].ID == id {
				return &items[i], kind, true
			}
		}
	}
	return nil, Video, false
}

func (c *Catalog) Len() int {
	return len(c.Videos) + len(c.Music) + len(c.Podcasts)
}

// Validate checks that every item has a link and that ids are unique.
// Items without an id get one derived from their section and position.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for _, kind := range Kinds {
		items := c.Items(kind)
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = fmt.Sprintf("%s-%d", kind, i+1)
			}
			if seen[items[i].ID] {
				return fmt.Errorf("duplicate item id %q in %s", items[i].ID, kind)
			}
			seen[items[i].ID] = true
			if err := items[i].Validate(); err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
		}
	}
	return nil
}
