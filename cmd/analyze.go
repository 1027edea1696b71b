package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/keywords"
	"github.com/spigell/folio/internal/scoring"
)

type analyzeOutput struct {
	Report          scoring.AnalysisReport `json:"report"`
	Keywords        []string               `json:"keywords"`
	Overlap         *float64               `json:"overlap,omitempty"`
	MissingKeywords []string               `json:"missingKeywords,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze resume text and print the ATS report",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("file", "f", "", "file with the resume text")
	analyzeCmd.Flags().String("job", "", "file with the job description to match against")
	analyzeCmd.Flags().IntP("keywords", "k", keywords.DefaultTopN, "number of keywords to extract")
	analyzeCmd.MarkFlagRequired("file")
}

func analyze(cmd *cobra.Command) {
	logger, _ := setup()

	file, _ := cmd.Flags().GetString("file")
	jobFile, _ := cmd.Flags().GetString("job")
	topN, _ := cmd.Flags().GetInt("keywords")

	content, err := os.ReadFile(file)
	if err != nil {
		logger.Fatal("reading resume", zap.String("file", file), zap.Error(err))
	}

	engine := scoring.NewEngine(scoring.EntropySource{}, logger)
	out := analyzeOutput{
		Report:   engine.AnalyzeText(string(content)),
		Keywords: keywords.ExtractKeywords(string(content), topN),
	}

	if jobFile != "" {
		job, err := os.ReadFile(jobFile)
		if err != nil {
			logger.Fatal("reading job description", zap.String("file", jobFile), zap.Error(err))
		}

		overlap := keywords.OverlapRatio(string(content), string(job))
		out.Overlap = &overlap
		out.Report.BlendRelevance(overlap)
		out.MissingKeywords = keywords.Missing(string(content), string(job), topN)
	}

	// do not bother error since the values are plain structs
	pretty, _ := json.MarshalIndent(out, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
