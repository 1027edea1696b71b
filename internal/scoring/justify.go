package scoring

import (
	"fmt"
	"strings"
)

type phraseBand struct {
	min     int
	phrases []string
}

// Bands are ordered from the highest threshold down; the last one catches everything.
var justificationBands = []phraseBand{
	{min: 90, phrases: []string{
		"An outstanding %d%% match for %s based on your preferences.",
		"%d%% match: %s lines up with almost everything you asked for.",
		"Top pick at %d%%: %s is exactly your kind of thing.",
	}},
	{min: 75, phrases: []string{
		"A strong %d%% match: %s fits most of your preferences.",
		"%d%% match: %s should be a safe bet.",
		"Highly compatible at %d%%: %s shares a lot with your taste.",
	}},
	{min: 60, phrases: []string{
		"A decent %d%% match: %s is worth a try.",
		"%d%% match: %s partially fits what you are looking for.",
	}},
	{min: 0, phrases: []string{
		"A %d%% match: %s is a wildcard outside your usual picks.",
		"%d%% match: %s could broaden your horizons.",
	}},
}

// Justify renders a short human-readable explanation for score.
// The phrase inside a score band is picked with src, the result is never empty.
func Justify(src Source, score int, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "this pick"
	}

	for _, band := range justificationBands {
		if score >= band.min {
			return fmt.Sprintf(Pick(src, band.phrases), score, title)
		}
	}

	return fmt.Sprintf("%d%% match for %s.", score, title)
}
