package commands

import (
	"log/slog"
	"os"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/util/serviceutil"
	"ytcharts-backend/services/collector"

	"github.com/spf13/cobra"
)

var fetchOut *string

func init() {
	fetchOut = fetchCmd.Flags().String("out", "latest_chart.csv", "Where to write the downloaded csv.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--out <path/to/output.csv>]",
	Short: "Downloads the current chart to a csv file without archiving it.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		service, err := collector.NewService(collector.Options{
			Sources: createSources(cmd.Context(), cfg),
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize pipeline", err)
		}

		snapshot, err := service.Collect(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to download chart", err)
		}

		f, err := os.Create(*fetchOut)
		if err != nil {
			serviceutil.Fatal("failed to create output file", err)
		}
		err = chart.WriteCSV(f, snapshot.Entries)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			serviceutil.Fatal("failed to write output file", err)
		}

		slog.Info("chart written",
			"out", *fetchOut,
			"source", snapshot.Source,
			"week", snapshot.Week.String(),
			"rows", len(snapshot.Entries),
		)
	},
}
