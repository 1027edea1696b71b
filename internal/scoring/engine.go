package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/folio/internal/catalog"
)

const (
	MinBaseScore = 50
	MaxBaseScore = 100
	MaxScore     = 100
)

// ErrEmptyCatalog is returned when there is nothing to score. It signals a
// misconfigured catalog rather than a bad request.
var ErrEmptyCatalog = errors.New("catalog is empty")

// ScoredCandidate is a catalog item with its score and a short explanation.
type ScoredCandidate struct {
	catalog.Item
	Score         int      `json:"score"`
	Justification string   `json:"justification"`
	Matched       []string `json:"matched,omitempty"`
}

type Engine struct {
	src    Source
	rules  []Rule
	logger *zap.Logger
}

// NewEngine creates a scoring engine. A nil source falls back to EntropySource
// and a nil logger to a no-op logger.
func NewEngine(src Source, logger *zap.Logger) *Engine {
	if src == nil {
		src = EntropySource{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		src:    src,
		rules:  DefaultRules(),
		logger: logger,
	}
}

// Score rescores every item against prefs and returns them ordered by
// descending score. Ties keep catalog order. Items are not modified.
func (e *Engine) Score(items []*catalog.Item, prefs Preferences) ([]ScoredCandidate, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	for _, status := range Describe(e.rules, prefs) {
		e.logger.Debug("scoring rule",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.Any("details", status.Details),
		)
	}

	scored := make([]ScoredCandidate, 0, len(items))
	for _, item := range items {
		candidate, err := e.scoreItem(item, prefs)
		if err != nil {
			return nil, err
		}
		scored = append(scored, candidate)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, nil
}

func (e *Engine) scoreItem(item *catalog.Item, prefs Preferences) (ScoredCandidate, error) {
	if item == nil {
		return ScoredCandidate{}, errors.New("nil catalog item")
	}

	attrs, err := item.Attrs()
	if err != nil {
		return ScoredCandidate{}, fmt.Errorf("scoring %s: %w", item.ID, err)
	}

	score := float64(e.baseScore())
	matched := make([]string, 0)

	for _, rule := range e.rules {
		if !rule.IsEnabled(prefs) {
			continue
		}
		bonus, ok := rule.Apply(item, attrs, prefs)
		if !ok {
			continue
		}
		score += bonus
		matched = append(matched, rule.Name())
	}

	final := clampRound(score)

	return ScoredCandidate{
		Item:          *item,
		Score:         final,
		Justification: Justify(e.src, final, item.Title),
		Matched:       matched,
	}, nil
}

func (e *Engine) baseScore() int {
	return MinBaseScore + e.src.IntN(MaxBaseScore-MinBaseScore+1)
}

// Top returns at most k leading candidates. k <= 0 returns everything.
func Top(scored []ScoredCandidate, k int) []ScoredCandidate {
	if k <= 0 || k >= len(scored) {
		return scored
	}
	return scored[:k]
}

func clampRound(v float64) int {
	return int(math.Round(math.Max(0, math.Min(MaxScore, v))))
}
