package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./geonews.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesFile        string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with the feed source registry"`
	Port               string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount        int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for feed scraping"`
	ScrapeInterval     int    `long:"scrape-interval" env:"SCRAPE_INTERVAL" default:"300" description:"Feed scrape interval in seconds"`
	CleanupInterval    int    `long:"cleanup-interval" env:"CLEANUP_INTERVAL" default:"86400" description:"Retention cleanup interval in seconds"`
	RetentionDays      int    `long:"retention-days" env:"DATA_RETENTION_DAYS" default:"30" description:"Delete events older than this many days"`
	MaxFirstRunEntries int    `long:"max-first-run-entries" env:"MAX_FIRST_RUN_ENTRIES" default:"10" description:"Entry cap for a source's first scrape"`

	// Enrichment configuration
	OpenAIAPIKey  string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key (enrichment disabled when empty)"`
	OpenAIModel   string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model used for enrichment and recaps"`
	OpenAIBaseURL string `long:"openai-base-url" env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1" description:"Base URL of the OpenAI-compatible API"`
	EnrichTimeout int    `long:"enrich-timeout" env:"ENRICH_TIMEOUT" default:"30" description:"Timeout for a single enrichment call in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"GeoNews/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Jerusalem)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:             raw.DBPath,
		SourcesFile:        raw.SourcesFile,
		Port:               raw.Port,
		WorkerCount:        raw.WorkerCount,
		ScrapeInterval:     raw.ScrapeInterval,
		CleanupInterval:    raw.CleanupInterval,
		RetentionDays:      raw.RetentionDays,
		MaxFirstRunEntries: raw.MaxFirstRunEntries,
		OpenAIAPIKey:       raw.OpenAIAPIKey,
		OpenAIModel:        raw.OpenAIModel,
		OpenAIBaseURL:      raw.OpenAIBaseURL,
		EnrichTimeout:      raw.EnrichTimeout,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
