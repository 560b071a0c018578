package commands

import (
	"context"
	"path/filepath"
	"ytcharts-backend/lib/restyutil"
	"ytcharts-backend/lib/scrapers/ytcharts"
	"ytcharts-backend/lib/util/serviceutil"
	"ytcharts-backend/services/archive"
	"ytcharts-backend/services/collector"
	"ytcharts-backend/services/notify"
)

func createArchive(cfg Config) archive.Service {
	service, err := archive.NewService(archive.Options{
		Root:                   cfg.Archive.Root,
		BackupRetentionDays:    cfg.Archive.BackupRetentionDays,
		DatabaseRetentionWeeks: cfg.Archive.DatabaseRetentionWeeks,
		Mirror:                 cfg.Archive.Mirror,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize archive", err)
	}
	return service
}

func createSources(ctx context.Context, cfg Config) []collector.Source {
	if *debug {
		ytcharts.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/ytcharts"))
	}

	client, err := ytcharts.NewClient(ctx, ytcharts.ClientOptions{
		BaseUrl:   cfg.Chart.BaseUrl,
		ChartPath: cfg.Chart.ChartPath,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize charts client", err)
	}

	var sources []collector.Source
	if !cfg.Chart.DisableBrowser {
		sources = append(sources, collector.BrowserSource{
			PageUrl:     client.BaseUrl.JoinPath(client.ChartPath).String(),
			DownloadDir: filepath.Join(cfg.Archive.Root, "downloads"),
		})
	}
	sources = append(sources,
		collector.HTTPSource{Client: client},
		collector.SampleSource{Size: cfg.Chart.SampleSize},
	)
	return sources
}

func createPipeline(ctx context.Context, cfg Config) collector.Service {
	service, err := collector.NewService(collector.Options{
		Sources: createSources(ctx, cfg),
		Archive: createArchive(cfg),
		Notify:  notify.NewService(cfg.Notify),
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize pipeline", err)
	}
	return service
}
