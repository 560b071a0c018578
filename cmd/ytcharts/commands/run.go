package commands

import (
	"log/slog"
	"time"
	"ytcharts-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the full pipeline once: download, archive, clean up.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service := createPipeline(cmd.Context(), cfg)

		t1 := time.Now()
		report, err := service.Run(cmd.Context())
		if err != nil {
			serviceutil.Fatal("pipeline run failed", err)
		}

		slog.Info("pipeline run finished",
			"source", report.Snapshot.Source,
			"week", report.Snapshot.Week.String(),
			"inserted", report.Result.Inserted,
			"skipped", report.Result.Skipped,
			"backups_deleted", report.BackupsDeleted,
			"databases_deleted", report.DatabaseDeleted,
			"seconds", time.Since(t1).Seconds(),
		)
		renderStats(report.Stats)
	},
}
