// Command tidyviz renders the TidyTuesday charts for the selected week.
//
// Usage:
//
//	go run ./cmd/tidyviz -week all
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/tidyviz/internal/adapter/fetch"
	"github.com/couchcryptid/tidyviz/internal/adapter/filestore"
	kafkaadapter "github.com/couchcryptid/tidyviz/internal/adapter/kafka"
	"github.com/couchcryptid/tidyviz/internal/config"
	"github.com/couchcryptid/tidyviz/internal/observability"
	"github.com/couchcryptid/tidyviz/internal/pipeline"
	"github.com/couchcryptid/tidyviz/internal/render"
)

const weekAll = "all"

func main() {
	week := flag.String("week", weekAll, fmt.Sprintf("week to render: %s, %s or %s",
		pipeline.SpamWeek, pipeline.SleepWeek, weekAll))
	flag.Parse()

	switch *week {
	case weekAll, pipeline.SpamWeek, pipeline.SleepWeek:
	default:
		fmt.Fprintf(os.Stderr, "unknown week %q\n", *week)
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*week))
}

func run(week string) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if n, err := render.RegisterFonts(cfg.FontDir, logger); err != nil {
		logger.Error("failed to register fonts", "error", err)
		return 1
	} else if n > 0 {
		logger.Info("display fonts registered", "count", n, "dir", cfg.FontDir)
	}

	client := fetch.NewClient(cfg.HTTPTimeout, metrics, logger)
	fetcher, err := fetch.NewCachedFetcher(client, cfg.AssetCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create asset cache", "error", err)
		return 1
	}
	out := filestore.New(cfg.OutputDir)
	flags := filestore.New(cfg.FlagsDir)

	var jobs []pipeline.Job
	if week == weekAll || week == pipeline.SpamWeek {
		jobs = append(jobs, pipeline.NewSpamJob(fetcher, out, cfg.SpamDataURL, cfg.DPI, logger, metrics))
	}
	if week == weekAll || week == pipeline.SleepWeek {
		jobs = append(jobs, pipeline.NewSleepJob(fetcher, out, flags, pipeline.SleepSources{
			CountriesURL: cfg.SleepDataURL,
			RegionsURL:   cfg.RegionsDataURL,
			FlagBaseURL:  cfg.FlagBaseURL,
			BedIconPath:  cfg.BedIconPath,
		}, cfg.DPI, logger, metrics))
	}

	var publisher pipeline.Publisher = pipeline.NopPublisher{}
	if cfg.NotificationsEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("render notifications enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	runErr := pipeline.NewRunner(jobs, publisher, logger, metrics).Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("one or more jobs failed", "error", runErr)
		return 1
	}
	return 0
}
