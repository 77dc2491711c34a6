package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	JMABaseURL         string
	JMAStationsJSONURL string
	HTTPTimeout        time.Duration
	FetchThrottle      time.Duration

	StationsCSV string
	DataDir     string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka publishing of persisted rows.
	KafkaBrokers []string
	KafkaTopic   string
	BatchSize    int

	// Optional upload of written CSVs to an S3-compatible bucket.
	ArchiveEndpoint  string
	ArchiveBucket    string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveUseSSL    bool
}

// PublishEnabled reports whether persisted rows are also published to Kafka.
func (c *Config) PublishEnabled() bool { return c.KafkaTopic != "" }

// ArchiveEnabled reports whether written CSVs are uploaded to the archive bucket.
func (c *Config) ArchiveEnabled() bool { return c.ArchiveEndpoint != "" && c.ArchiveBucket != "" }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	if httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT: must be positive")
	}

	throttle, err := parseDuration("FETCH_THROTTLE", "50ms")
	if err != nil {
		return nil, err
	}
	if throttle < 0 {
		return nil, errors.New("invalid FETCH_THROTTLE: must not be negative")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	useSSL := true
	if v := os.Getenv("ARCHIVE_USE_SSL"); v != "" {
		useSSL, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ARCHIVE_USE_SSL: %w", err)
		}
	}

	cfg := &Config{
		JMABaseURL:         sharedcfg.EnvOrDefault("JMA_BASE_URL", "https://www.data.jma.go.jp/obd/stats/etrn"),
		JMAStationsJSONURL: sharedcfg.EnvOrDefault("JMA_STATIONS_JSON_URL", "https://www.jma.go.jp/bosai/amedas/const/amedastable.json"),
		HTTPTimeout:        httpTimeout,
		FetchThrottle:      throttle,
		StationsCSV:        sharedcfg.EnvOrDefault("STATIONS_CSV", "data/stations_information/stations.csv"),
		DataDir:            sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		HTTPAddr:           os.Getenv("HTTP_ADDR"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   os.Getenv("KAFKA_TOPIC"),
		BatchSize:    batchSize,

		ArchiveEndpoint:  os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveBucket:    os.Getenv("ARCHIVE_BUCKET"),
		ArchiveAccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
		ArchiveSecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
		ArchiveUseSSL:    useSSL,
	}

	if cfg.JMABaseURL == "" {
		return nil, errors.New("JMA_BASE_URL is required")
	}
	if cfg.PublishEnabled() && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_TOPIC is set")
	}
	if cfg.ArchiveEnabled() && (cfg.ArchiveAccessKey == "" || cfg.ArchiveSecretKey == "") {
		return nil, errors.New("ARCHIVE_ACCESS_KEY and ARCHIVE_SECRET_KEY are required when the archive is enabled")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
