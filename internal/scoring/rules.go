package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/folio/internal/catalog"
	"github.com/spigell/folio/internal/keywords"
)

const (
	YearBonus        = 10
	RatingBonus      = 15
	TargetBonusLimit = 20
)

// Preferences is a sparse set of constraints. Nil or empty fields impose nothing.
type Preferences struct {
	MinYear   *int     `json:"minYear,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
	Target    string   `json:"target,omitempty" validate:"omitempty,max=500"`
}

// Rule is a single bonus applied on top of the randomized base score.
type Rule interface {
	Name() string
	IsEnabled(prefs Preferences) bool
	Apply(item *catalog.Item, attrs catalog.Attributes, prefs Preferences) (bonus float64, matched bool)
}

// Status describes how a rule is configured for a particular request.
type Status struct {
	Name    string
	Enabled bool
	Details map[string]string
}

// DefaultRules returns the bonus rules in the order they are applied.
func DefaultRules() []Rule {
	return []Rule{
		&minYearRule{},
		&minRatingRule{},
		&targetOverlapRule{},
	}
}

// Describe returns the status of every rule for the provided preferences.
func Describe(rules []Rule, prefs Preferences) []Status {
	statuses := make([]Status, 0, len(rules))
	for _, rule := range rules {
		status := Status{Name: rule.Name(), Enabled: rule.IsEnabled(prefs), Details: map[string]string{}}
		switch rule.(type) {
		case *minYearRule:
			if prefs.MinYear != nil {
				status.Details["min_year"] = strconv.Itoa(*prefs.MinYear)
			}
		case *minRatingRule:
			if prefs.MinRating != nil {
				status.Details["min_rating"] = fmt.Sprintf("%.1f", *prefs.MinRating)
			}
		case *targetOverlapRule:
			if t := strings.TrimSpace(prefs.Target); t != "" {
				status.Details["target"] = t
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

type minYearRule struct{}

func (r *minYearRule) Name() string { return "min_year" }

func (r *minYearRule) IsEnabled(prefs Preferences) bool { return prefs.MinYear != nil }

func (r *minYearRule) Apply(_ *catalog.Item, attrs catalog.Attributes, prefs Preferences) (float64, bool) {
	if attrs.Year >= *prefs.MinYear {
		return YearBonus, true
	}
	return 0, false
}

type minRatingRule struct{}

func (r *minRatingRule) Name() string { return "min_rating" }

func (r *minRatingRule) IsEnabled(prefs Preferences) bool { return prefs.MinRating != nil }

func (r *minRatingRule) Apply(_ *catalog.Item, attrs catalog.Attributes, prefs Preferences) (float64, bool) {
	if attrs.Rating >= *prefs.MinRating {
		return RatingBonus, true
	}
	return 0, false
}

type targetOverlapRule struct{}

func (r *targetOverlapRule) Name() string { return "target_overlap" }

func (r *targetOverlapRule) IsEnabled(prefs Preferences) bool {
	return strings.TrimSpace(prefs.Target) != ""
}

func (r *targetOverlapRule) Apply(item *catalog.Item, _ catalog.Attributes, prefs Preferences) (float64, bool) {
	ratio := keywords.OverlapRatio(item.Text(), prefs.Target)
	if ratio == 0 {
		return 0, false
	}
	return ratio * TargetBonusLimit, true
}
