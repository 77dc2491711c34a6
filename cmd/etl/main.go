// Command etl builds the AMeDAS station registry and fetches one batch of
// observations into a canonical CSV.
//
// Usage:
//
//	go run ./cmd/etl -cadence hourly -prec 東京都 -dates 2023-08-10,2023-08-11
//	go run ./cmd/etl -cadence daily -blocks 47662,0366 -months 2023-01,2023-02
//	go run ./cmd/etl -stations-only -refresh-stations
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/amedas-etl/internal/adapter/archive"
	"github.com/couchcryptid/amedas-etl/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/amedas-etl/internal/adapter/http"
	"github.com/couchcryptid/amedas-etl/internal/adapter/jma"
	kafkaadapter "github.com/couchcryptid/amedas-etl/internal/adapter/kafka"
	"github.com/couchcryptid/amedas-etl/internal/config"
	"github.com/couchcryptid/amedas-etl/internal/observability"
	"github.com/couchcryptid/amedas-etl/internal/pipeline"
	"github.com/couchcryptid/amedas-etl/internal/stations"
)

func main() {
	refresh := flag.Bool("refresh-stations", false, "rebuild the station registry even if the CSV exists")
	stationsOnly := flag.Bool("stations-only", false, "build the station registry and exit")
	cadence := flag.String("cadence", "hourly", "observation cadence: 10min, hourly, or daily")
	precs := flag.String("prec", "", "comma-separated prefecture names or prec_no values")
	blocks := flag.String("blocks", "", "comma-separated station block numbers")
	dates := flag.String("dates", "", "comma-separated dates (YYYY-MM-DD)")
	months := flag.String("months", "", "comma-separated months (YYYY-MM)")
	out := flag.String("out", "", "output CSV path (default DATA_DIR/<cadence>_data/...)")
	calendar := flag.Bool("calendar", false, "add year/month/day[/hour/minute] columns to the CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	var req request
	if !*stationsOnly {
		req, err = parseRequest(*cadence, *precs, *blocks, *dates, *months, *out)
		if err != nil {
			logger.Error("invalid request", "error", err)
			flag.Usage()
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, req, *refresh, *stationsOnly, *calendar); err != nil {
		logger.Error("job failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, req request, refresh, stationsOnly, calendar bool) error {
	metrics := observability.NewMetrics()
	client := jma.NewClient(cfg.HTTPTimeout, logger, metrics)

	var loaders []pipeline.Loader
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger, metrics)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}
	if cfg.ArchiveEnabled() {
		uploader, err := archive.NewUploader(cfg, logger, metrics)
		if err != nil {
			return err
		}
		if err := uploader.EnsureBucket(ctx); err != nil {
			return err
		}
		loaders = append(loaders, uploader)
		logger.Info("csv archive enabled", "endpoint", cfg.ArchiveEndpoint, "bucket", cfg.ArchiveBucket)
	}

	var persisterOpts []csvfile.Option
	if calendar {
		persisterOpts = append(persisterOpts, csvfile.WithCalendarColumns())
	}
	fetcher := pipeline.NewFetcher(client, cfg.JMABaseURL, logger, metrics, pipeline.WithThrottle(cfg.FetchThrottle))
	p := pipeline.New(fetcher, csvfile.NewPersister(persisterOpts...), logger, metrics, loaders...)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	builder := stations.NewBuilder(client, cfg.JMABaseURL, cfg.JMAStationsJSONURL, logger, stations.WithThrottle(cfg.FetchThrottle))
	reg, err := stations.Ensure(ctx, cfg.StationsCSV, builder, refresh, logger)
	if err != nil {
		return err
	}
	metrics.RegistryStations.Set(float64(reg.Len()))
	if stationsOnly {
		return nil
	}

	selected, err := req.selectStations(reg)
	if err != nil {
		return err
	}
	_, err = p.Run(ctx, pipeline.Job{
		Cadence:  req.cadence,
		Stations: selected,
		Units:    req.units,
		Output:   req.outputPath(cfg.DataDir),
	})
	return err
}
