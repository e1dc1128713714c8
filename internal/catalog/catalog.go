package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/hayasedb/mediadeck/internal/models"
)

//go:embed default.yaml
var defaultCatalog []byte

var ErrNotFound = errors.New("item not found")

// Load reads the catalog file at path, or the built-in catalog when path is empty.
func Load(path string) (*models.Catalog, error) {
	data := defaultCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		data = raw
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	log.Debug("Catalog loaded",
		"path", path,
		"videos", len(c.Videos),
		"music", len(c.Music),
		"podcasts", len(c.Podcasts))

	return c, nil
}

func Parse(data []byte) (*models.Catalog, error) {
	var c models.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Search scores every item against the query and returns the matches, best first.
func Search(items []models.MediaItem, query string) []*models.SearchResult {
	query = strings.TrimSpace(query)
	results := make([]*models.SearchResult, 0, len(items))

	for i := range items {
		item := &items[i]
		if query == "" {
			results = append(results, &models.SearchResult{Item: item})
			continue
		}

		score := calculateMatchScore(query, item.Title)
		for _, field := range append([]string{item.Byline(), item.Category}, item.Tags...) {
			if field == "" {
				continue
			}
			if s := calculateMatchScore(query, field) * 0.8; s > score {
				score = s
			}
		}

		if score > 0 {
			results = append(results, &models.SearchResult{Item: item, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

func calculateMatchScore(query, title string) float64 {
	queryLower := strings.ToLower(query)
	titleLower := strings.ToLower(title)

	if queryLower == titleLower {
		return 100.0
	}

	if strings.HasPrefix(titleLower, queryLower) {
		return 90.0
	}

	if strings.Contains(titleLower, queryLower) {
		return 70.0
	}

	queryWords := strings.Fields(queryLower)
	titleWords := strings.Fields(titleLower)

	matches := 0
	for _, qw := range queryWords {
		for _, tw := range titleWords {
			if strings.Contains(tw, qw) || strings.Contains(qw, tw) {
				matches++
				break
			}
		}
	}

	if len(queryWords) > 0 {
		return float64(matches) / float64(len(queryWords)) * 50.0
	}

	return 0.0
}
