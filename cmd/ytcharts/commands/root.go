package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"ytcharts-backend/lib/configutil"
	"ytcharts-backend/lib/sqliteutil"
	"ytcharts-backend/lib/util/serviceutil"
	"ytcharts-backend/services/notify"

	"github.com/spf13/cobra"
)

type ArchiveConfig struct {
	Root                   string            `json:"root"`
	BackupRetentionDays    int               `json:"backup_retention_days"`
	DatabaseRetentionWeeks int               `json:"database_retention_weeks"`
	Mirror                 sqliteutil.Config `json:"mirror"`
}

type ChartConfig struct {
	BaseUrl        string `json:"base_url"`
	ChartPath      string `json:"chart_path"`
	SampleSize     int    `json:"sample_size"`
	DisableBrowser bool   `json:"disable_browser"`
}

type Config struct {
	Archive ArchiveConfig  `json:"archive"`
	Chart   ChartConfig    `json:"chart"`
	Notify  notify.Options `json:"notify"`
}

var debug *bool

func init() {
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Dump http messages exchanged with the charts site to .dev/resty.")
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no config.json5 found, using defaults")
		err = nil
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Archive.Root == "" {
		cfg.Archive.Root = "charts_archive"
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "ytcharts",
	Short: "ytcharts downloads the weekly music chart and archives it into per-week sqlite databases.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
