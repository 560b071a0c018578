package commands

import (
	"os"
	"ytcharts-backend/lib/util/serviceutil"
	"ytcharts-backend/services/archive"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

func renderStats(stats []archive.WeekStats) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)

	t.AppendHeader(table.Row{"Week", "Entries", "Ingestions", "First", "Last", "Size (KB)"})
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.Week.String(),
			s.Entries,
			s.Ingestions,
			s.FirstDate,
			s.LastDate,
			s.SizeBytes / 1024,
		})
	}
	t.Render()
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the archived week databases with their statistics.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		stats, err := createArchive(cfg).ListDatabases(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list databases", err)
		}
		renderStats(stats)
	},
}
