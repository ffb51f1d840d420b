package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default dataset and asset locations for the weeks this module renders.
const (
	DefaultSpamDataURL    = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data/2023/2023-08-15/spam.csv"
	DefaultSleepDataURL   = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data/2023/2023-09-12/all_countries.csv"
	DefaultRegionsDataURL = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data/2023/2023-09-12/country_regions.csv"
	DefaultFlagBaseURL    = "https://raw.githubusercontent.com/HatScripts/circle-flags/gh-pages/flags/"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	OutputDir   string
	FlagsDir    string
	FontDir     string
	BedIconPath string
	DPI         int

	HTTPTimeout    time.Duration
	RunTimeout     time.Duration
	AssetCacheSize int

	SpamDataURL    string
	SleepDataURL   string
	RegionsDataURL string
	FlagBaseURL    string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Render notifications; disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// NotificationsEnabled reports whether rendered artifacts are published to Kafka.
func (c *Config) NotificationsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	httpTimeout, err := parsePositiveDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	runTimeout, err := parsePositiveDuration("RUN_TIMEOUT", "5m")
	if err != nil {
		return nil, err
	}

	dpi, err := parsePositiveInt("DPI", 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OutputDir:   envOrDefault("OUTPUT_DIR", "."),
		FlagsDir:    envOrDefault("FLAGS_DIR", "./flags"),
		FontDir:     os.Getenv("FONT_DIR"),
		BedIconPath: envOrDefault("BED_ICON_PATH", "icons8-bed-100.png"),
		DPI:         dpi,

		HTTPTimeout:    httpTimeout,
		RunTimeout:     runTimeout,
		AssetCacheSize: parseAssetCacheSize(),

		SpamDataURL:    envOrDefault("SPAM_DATA_URL", DefaultSpamDataURL),
		SleepDataURL:   envOrDefault("SLEEP_DATA_URL", DefaultSleepDataURL),
		RegionsDataURL: envOrDefault("REGIONS_DATA_URL", DefaultRegionsDataURL),
		FlagBaseURL:    envOrDefault("FLAG_BASE_URL", DefaultFlagBaseURL),

		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "rendered-charts"),
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.FlagsDir == "" {
		return nil, errors.New("FLAGS_DIR is required")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.NotificationsEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseAssetCacheSize() int {
	if s := os.Getenv("ASSET_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 512
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
