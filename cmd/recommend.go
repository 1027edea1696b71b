package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/scoring"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank catalog items against preferences and print the top results",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("type", "t", "movie", "catalog category to rank (movie or music)")
	recommendCmd.Flags().Float64("min-rating", 0, "prefer items rated at least this")
	recommendCmd.Flags().Int("min-year", 0, "prefer items released in or after this year")
	recommendCmd.Flags().String("target", "", "free text the item should resemble")
	recommendCmd.Flags().IntP("top", "n", 3, "number of results to print")
}

func recommend(cmd *cobra.Command) {
	logger, config := setup()

	items, err := loadCatalog(config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	category, _ := cmd.Flags().GetString("type")
	top, _ := cmd.Flags().GetInt("top")

	var prefs scoring.Preferences
	if cmd.Flags().Changed("min-rating") {
		v, _ := cmd.Flags().GetFloat64("min-rating")
		prefs.MinRating = &v
	}
	if cmd.Flags().Changed("min-year") {
		v, _ := cmd.Flags().GetInt("min-year")
		prefs.MinYear = &v
	}
	prefs.Target, _ = cmd.Flags().GetString("target")

	for _, status := range scoring.Describe(scoring.DefaultRules(), prefs) {
		logger.Debug("scoring rule", zap.String("rule", status.Name), zap.Bool("enabled", status.Enabled), zap.Any("details", status.Details))
	}

	candidates, err := items.ByCategory(category)
	if err != nil {
		logger.Fatal("selecting candidates", zap.Error(err))
	}

	engine := scoring.NewEngine(scoring.EntropySource{}, logger)
	scored, err := engine.Score(candidates, prefs)
	if err != nil {
		logger.Fatal("scoring candidates", zap.Error(err))
	}

	// do not bother error since the values are plain structs
	pretty, _ := json.MarshalIndent(scoring.Top(scored, top), "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
