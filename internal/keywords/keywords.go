// Package keywords provides lightweight lexical analysis: tokenization,
// frequency counting and keyword overlap between two texts.
package keywords

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultTopN is used when a caller asks for a non-positive number of keywords.
	DefaultTopN = 10
	// MinKeywordLength is the shortest token (in runes) counted as a keyword.
	MinKeywordLength = 4
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all also am an and any are as at
		be because been before being below between both but by can could
		did do does doing down during each few for from further had has have
		having he her here hers herself him himself his how i if in into is it
		its itself just me more most must my myself no nor not now of off on
		once only or other our ours ourselves out over own same she should so
		some such than that the their theirs them themselves then there these
		they this those through to too under until up very was we were what
		when where which while who whom why will with within without would you
		your yours yourself yourselves etc via using used use well like able
		work working worked experience years year strong good new
	`) {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether the normalized token is excluded from keyword analysis.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Tokenize normalizes text and splits it into maximal runs of letters.
// Tokens are case-folded, so "Go" and "GO" produce the same token.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := cases.Fold().String(norm.NFKC.String(text))

	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// Table counts qualifying tokens and remembers the order in which they were first seen.
type Table struct {
	counts map[string]int
	order  []string
}

// Frequencies builds a frequency table of the qualifying tokens of text:
// stop words and tokens shorter than MinKeywordLength are skipped.
func Frequencies(text string) *Table {
	t := &Table{counts: make(map[string]int)}

	for _, token := range Tokenize(text) {
		if utf8.RuneCountInString(token) < MinKeywordLength || IsStopWord(token) {
			continue
		}
		if _, seen := t.counts[token]; !seen {
			t.order = append(t.order, token)
		}
		t.counts[token]++
	}

	return t
}

// Count returns the number of occurrences of token.
func (t *Table) Count(token string) int {
	return t.counts[token]
}

// Len returns the number of distinct tokens in the table.
func (t *Table) Len() int {
	return len(t.order)
}

// Top returns up to n tokens ordered by descending count, ties keep first-seen order.
func (t *Table) Top(n int) []string {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := make([]string, len(t.order))
	copy(ranked, t.order)

	sort.SliceStable(ranked, func(i, j int) bool {
		return t.counts[ranked[i]] > t.counts[ranked[j]]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// ExtractKeywords returns the topN most frequent keywords of text.
// The result is never nil.
func ExtractKeywords(text string, topN int) []string {
	return Frequencies(text).Top(topN)
}

// OverlapRatio returns the share of distinct tokens of b that also occur in a.
// The ratio is denominated on b, so b must be the target text (a job
// description, a preference phrase). It is 0 when b has no tokens.
func OverlapRatio(a, b string) float64 {
	target := set(Tokenize(b))
	if len(target) == 0 {
		return 0
	}

	source := set(Tokenize(a))

	shared := 0
	for token := range target {
		if _, ok := source[token]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(target))
}

// Missing returns up to topN keywords of target that never appear in content.
func Missing(content, target string, topN int) []string {
	present := set(Tokenize(content))

	missing := make([]string, 0)
	for _, keyword := range Frequencies(target).Top(len(Tokenize(target)) + 1) {
		if _, ok := present[keyword]; ok {
			continue
		}
		missing = append(missing, keyword)
	}

	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(missing) > topN {
		missing = missing[:topN]
	}

	return missing
}

func set(tokens []string) map[string]struct{} {
	s := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		s[token] = struct{}{}
	}
	return s
}
