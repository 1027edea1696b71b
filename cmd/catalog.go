package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the recommendation catalog grouped by category",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()

		items, err := loadCatalog(config, logger)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}

		pretty, _ := json.MarshalIndent(items.ReportByCategory(), "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
