package config

import (
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Config holds runtime settings for the client.
type Config struct {
	APIBaseURL  string
	DBPath      string
	LogPath     string
	BatchSize   int
	CacheLimit  int
	HTTPTimeout int
}

type rawConfig struct {
	APIBaseURL  string `long:"api-url" env:"READLIST_API_URL" default:"http://localhost:5000" description:"Base URL of the reading-list server"`
	DBPath      string `long:"db-path" env:"READLIST_DB_PATH" default:"readlist.db" description:"Path to the local sqlite cache"`
	LogPath     string `long:"log-path" env:"READLIST_LOG_PATH" default:"readlist.log" description:"Path to the log file"`
	BatchSize   int    `long:"batch-size" env:"READLIST_BATCH_SIZE" default:"50" description:"Articles rendered per batch"`
	CacheLimit  int    `long:"cache-limit" env:"READLIST_CACHE_LIMIT" default:"500" description:"Cached articles loaded at startup"`
	HTTPTimeout int    `long:"http-timeout" env:"READLIST_HTTP_TIMEOUT" default:"10" description:"HTTP timeout in seconds"`
}

// ErrHelp is returned when the user asked for --help; callers exit cleanly.
var ErrHelp = fmt.Errorf("help requested")

func Load() (Config, error) {
	return loadArgs(nil)
}

func loadArgs(args []string) (Config, error) {
	var raw rawConfig
	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return Config{}, ErrHelp
		}
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}

	cfg := Config{
		APIBaseURL:  strings.TrimRight(raw.APIBaseURL, "/"),
		DBPath:      raw.DBPath,
		LogPath:     raw.LogPath,
		BatchSize:   raw.BatchSize,
		CacheLimit:  raw.CacheLimit,
		HTTPTimeout: raw.HTTPTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api-url is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api-url must be an http(s) URL: %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db-path is required")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch-size must be positive: %d", c.BatchSize)
	}
	if c.CacheLimit < 1 {
		return fmt.Errorf("cache-limit must be positive: %d", c.CacheLimit)
	}
	if c.HTTPTimeout < 1 {
		return fmt.Errorf("http-timeout must be positive: %d", c.HTTPTimeout)
	}
	return nil
}
