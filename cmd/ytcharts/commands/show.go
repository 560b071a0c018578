package commands

import (
	"os"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <week>",
	Short: "Prints the most recently ingested chart for a week (e.g. 2025-W05).",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		week, err := chart.ParseWeek(args[0])
		if err != nil {
			serviceutil.Fatal("invalid week id", err)
		}

		entries, err := createArchive(cfg).LatestEntries(cmd.Context(), week)
		if err != nil {
			serviceutil.Fatal("failed to read week database", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Rank", "Prev", "Track", "Artists", "Weeks", "Views", "Growth"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				e.Rank,
				e.PreviousRank,
				e.TrackName,
				e.ArtistNames,
				e.PeriodsOnChart,
				e.Views,
				e.Growth,
			})
		}
		t.Render()
	},
}
