package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/spigell/folio/internal/keywords"
)

const (
	MinATSScore = 70
	MaxATSScore = 95

	minWords            = 300
	maxWords            = 800
	minActionVerbs      = 5
	minNumericTokens    = 3
	minHealthyATSScore  = 80
	relevanceBlendShare = 0.4
)

const (
	AdviceAddDetail       = "Add more detail about your responsibilities and achievements."
	AdviceBeConcise       = "Be more concise: keep only the most relevant experience."
	AdviceActionVerbs     = "Use more action verbs such as led, built or delivered."
	AdviceQuantify        = "Add quantifiable achievements (numbers, percentages, amounts)."
	AdviceOptimizeKeyword = "Optimize keywords to match the job description."
	AdviceLooksGood       = "Your content is well structured and ready for applicant tracking systems."
)

var actionVerbs = map[string]struct{}{}

func init() {
	for _, verb := range strings.Fields(`
		achieved accelerated architected automated built collaborated created
		cut decreased delivered designed developed drove established executed
		expanded generated grew implemented improved increased initiated
		launched led managed mentored migrated optimized orchestrated owned
		reduced redesigned resolved scaled shipped spearheaded streamlined
		transformed
	`) {
		actionVerbs[verb] = struct{}{}
	}
}

var (
	numericToken = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	// Glyphs that count as bullets wherever they appear.
	bulletGlyphs = []rune{'•', '◦', '▪', '▫', '‣', '●', '■', '➤', '►'}
	// Markers that count as bullets only at the start of a line.
	lineBulletMarkers = []string{"- ", "* ", "+ "}
)

// AnalysisReport is the lexical assessment of a resume section.
type AnalysisReport struct {
	WordCount       int      `json:"wordCount"`
	BulletPoints    int      `json:"bulletPoints"`
	ActionVerbs     int      `json:"actionVerbs"`
	NumericTokens   int      `json:"numericTokens"`
	ATSScore        int      `json:"atsScore"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeText computes counters, a heuristic ATS score and fixed-threshold
// recommendations for content. Empty content has a word count of 0.
func (e *Engine) AnalyzeText(content string) AnalysisReport {
	report := AnalysisReport{
		WordCount:     len(strings.Fields(content)),
		BulletPoints:  countBullets(content),
		ActionVerbs:   countActionVerbs(content),
		NumericTokens: len(numericToken.FindAllString(content, -1)),
		ATSScore:      MinATSScore + e.src.IntN(MaxATSScore-MinATSScore+1),
	}
	report.Recommendations = recommend(report)

	return report
}

// BlendRelevance mixes the keyword overlap with a target text (0..1) into the
// ATS score and refreshes the recommendations.
func (r *AnalysisReport) BlendRelevance(overlap float64) {
	overlap = math.Max(0, math.Min(1, overlap))
	blended := (1-relevanceBlendShare)*float64(r.ATSScore) + relevanceBlendShare*overlap*100
	r.ATSScore = clampRound(blended)
	r.Recommendations = recommend(*r)
}

func recommend(r AnalysisReport) []string {
	advice := make([]string, 0, 5)

	if r.WordCount < minWords {
		advice = append(advice, AdviceAddDetail)
	}
	if r.WordCount > maxWords {
		advice = append(advice, AdviceBeConcise)
	}
	if r.ActionVerbs < minActionVerbs {
		advice = append(advice, AdviceActionVerbs)
	}
	if r.NumericTokens < minNumericTokens {
		advice = append(advice, AdviceQuantify)
	}
	if r.ATSScore < minHealthyATSScore {
		advice = append(advice, AdviceOptimizeKeyword)
	}

	if len(advice) == 0 {
		advice = append(advice, AdviceLooksGood)
	}

	return advice
}

func countBullets(content string) int {
	count := 0
	for _, r := range content {
		for _, glyph := range bulletGlyphs {
			if r == glyph {
				count++
				break
			}
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		for _, marker := range lineBulletMarkers {
			if strings.HasPrefix(trimmed, marker) {
				count++
				break
			}
		}
	}

	return count
}

func countActionVerbs(content string) int {
	count := 0
	for _, token := range keywords.Tokenize(content) {
		if _, ok := actionVerbs[token]; ok {
			count++
		}
	}
	return count
}
