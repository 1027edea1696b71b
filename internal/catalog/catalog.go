package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

const (
	CategoryMovie = "movie"
	CategoryMusic = "music"
)

var ErrUnknownCategory = errors.New("unknown catalog category")

type Catalog struct {
	Items []*Item `json:"items"`
}

// Item is a single recommendation candidate. Attributes hold mixed-type values
// (numbers, years, free text) exactly as they were loaded.
type Item struct {
	ID         string         `json:"id"`
	Category   string         `json:"category"`
	Title      string         `json:"title"`
	Creator    string         `json:"creator,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Items: []*Item{
			movie("tt0468569", "The Dark Knight", "Christopher Nolan", 2008, 9.0, "Action, Crime, Drama"),
			movie("tt0110912", "Pulp Fiction", "Quentin Tarantino", 1994, 8.9, "Crime, Drama"),
			movie("tt1375666", "Inception", "Christopher Nolan", 2010, 8.8, "Action, Adventure, Sci-Fi"),
			movie("tt0133093", "The Matrix", "Lana Wachowski, Lilly Wachowski", 1999, 8.7, "Action, Sci-Fi"),
			movie("tt0816692", "Interstellar", "Christopher Nolan", 2014, 8.6, "Adventure, Drama, Sci-Fi"),

			track("bohemian-rhapsody", "Bohemian Rhapsody", "Queen", 1975, 9.2, "Rock"),
			track("blinding-lights", "Blinding Lights", "The Weeknd", 2019, 8.4, "Synth-pop"),
			track("billie-jean", "Billie Jean", "Michael Jackson", 1982, 9.0, "Pop, Funk"),
			track("smells-like-teen-spirit", "Smells Like Teen Spirit", "Nirvana", 1991, 8.8, "Grunge, Rock"),
			track("levitating", "Levitating", "Dua Lipa", 2020, 8.1, "Disco, Pop"),
		},
	}
}

func movie(id, title, director string, year int, rating float64, genre string) *Item {
	return &Item{
		ID:       id,
		Category: CategoryMovie,
		Title:    title,
		Creator:  director,
		Attributes: map[string]any{
			AttributeYear:   year,
			AttributeRating: rating,
			AttributeGenre:  genre,
		},
	}
}

func track(id, title, artist string, year int, rating float64, genre string) *Item {
	return &Item{
		ID:       id,
		Category: CategoryMusic,
		Title:    title,
		Creator:  artist,
		Attributes: map[string]any{
			AttributeYear:   year,
			AttributeRating: rating,
			AttributeGenre:  genre,
		},
	}
}

// LoadFile reads a JSON catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %q: %w", path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog file %q: %w", path, err)
	}

	for idx, item := range c.Items {
		if item == nil || strings.TrimSpace(item.ID) == "" {
			return nil, fmt.Errorf("catalog item #%d has no id", idx)
		}
		item.Category = strings.ToLower(strings.TrimSpace(item.Category))
		if _, err := item.Attrs(); err != nil {
			return nil, fmt.Errorf("catalog item %s: %w", item.ID, err)
		}
	}

	return &c, nil
}

func (c *Catalog) Len() int {
	return len(c.Items)
}

func (c *Catalog) FindByID(id string) *Item {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// ByCategory returns the items of the given category in catalog order.
func (c *Catalog) ByCategory(category string) ([]*Item, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	items := make([]*Item, 0)
	for _, item := range c.Items {
		if item.Category == category {
			items = append(items, item)
		}
	}

	if len(items) == 0 && !c.hasCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	return items, nil
}

// Categories returns the sorted list of categories present in the catalog.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, item := range c.Items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	sort.Strings(categories)
	return categories
}

// ReportByCategory groups a short description of every item by its category.
func (c *Catalog) ReportByCategory() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range c.Items {
		entry := map[string]string{
			"id":      item.ID,
			"title":   item.Title,
			"creator": item.Creator,
		}
		if attrs, err := item.Attrs(); err == nil {
			entry["year"] = fmt.Sprintf("%d", attrs.Year)
			entry["rating"] = fmt.Sprintf("%.1f", attrs.Rating)
			entry["genre"] = attrs.Genre
		}
		report[item.Category] = append(report[item.Category], entry)
	}
	return report
}

func (c *Catalog) hasCategory(category string) bool {
	switch category {
	case CategoryMovie, CategoryMusic:
		return true
	}
	for _, item := range c.Items {
		if item.Category == category {
			return true
		}
	}
	return false
}
