package catalog

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	AttributeYear   = "year"
	AttributeRating = "rating"
	AttributeGenre  = "genre"
)

// Attributes is the typed view of Item.Attributes used for scoring.
type Attributes struct {
	Year   int     `mapstructure:"year"`
	Rating float64 `mapstructure:"rating"`
	Genre  string  `mapstructure:"genre"`
}

// Attrs decodes the raw attribute map. Decoding is weakly typed, so a year
// stored as "2008" or 2008.0 is accepted.
func (i *Item) Attrs() (Attributes, error) {
	var attrs Attributes
	if len(i.Attributes) == 0 {
		return attrs, nil
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           &attrs,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return attrs, fmt.Errorf("building attributes decoder: %w", err)
	}

	if err := decoder.Decode(i.Attributes); err != nil {
		return attrs, fmt.Errorf("decoding attributes of %s: %w", i.ID, err)
	}

	return attrs, nil
}

// Text returns the free-text description of an item used for overlap scoring.
func (i *Item) Text() string {
	parts := []string{i.Title, i.Creator}
	if genre, ok := i.Attributes[AttributeGenre].(string); ok {
		parts = append(parts, genre)
	}
	return strings.Join(parts, " ")
}
