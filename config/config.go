// config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "mysql", "sqlite", or empty to disable the SQL export
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Path     string `yaml:"path"` // sqlite file
}

// Enabled reports whether a SQL export target is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver != ""
}

type ScraperConfig struct {
	BaseURL            string        `yaml:"base_url"`
	MinOffset          int           `yaml:"min_offset"`
	MaxOffset          int           `yaml:"max_offset"`
	TimeoutStr         string        `yaml:"timeout"`
	UserAgent          string        `yaml:"user_agent"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"` // applies to this scraper's client only
	Timeout            time.Duration `yaml:"-"`                    // Parsed duration
}

type ScraperSelectorsConfig struct {
	LabelTable string `yaml:"label_table"`
	Label      string `yaml:"label"`
	Rows       string `yaml:"rows"`
}

type AirportConfig struct {
	Code         string  `yaml:"code"`
	ZoneName     string  `yaml:"zone_name"`      // e.g. "PST"
	UTCOffsetStr string  `yaml:"utc_offset"`     // standard offset, never DST-adjusted, e.g. "-08:00"
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	UTCOffset    int     `yaml:"-"` // Parsed offset, seconds east of UTC
}

// Location returns the airport's fixed standard-time zone.
func (a AirportConfig) Location() *time.Location {
	return time.FixedZone(a.ZoneName, a.UTCOffset)
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LookupsConfig struct {
	AirportLocations string `yaml:"airport_locations"` // local path or http(s) URL; .csv or .json
	CountryCodes     string `yaml:"country_codes"`
	CacheDir         string `yaml:"cache_dir"` // where remote lookup files are downloaded
}

type ExportConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server           ServerConfig           `yaml:"server"`
	Database         DatabaseConfig         `yaml:"database"`
	Scraper          ScraperConfig          `yaml:"scraper"`
	ScraperSelectors ScraperSelectorsConfig `yaml:"scraper_selectors"`
	Airport          AirportConfig          `yaml:"airport"`
	Store            StoreConfig            `yaml:"store"`
	Lookups          LookupsConfig          `yaml:"lookups"`
	Export           ExportConfig           `yaml:"export"`
	Schedule         ScheduleConfig         `yaml:"schedule"`
	Log              LogConfig              `yaml:"log"`
}

// Default returns the configuration used when no config file is found: the
// LAX arrivals board, offsets -10..20, Pacific Standard Time.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Port: "3306"},
		Scraper: ScraperConfig{
			BaseURL:    "https://www.airport-la.com/lax/arrivals",
			MinOffset:  -10,
			MaxOffset:  20,
			TimeoutStr: "30s",
			UserAgent:  "Mozilla/5.0 (compatible; arrivals-scraper/1.0)",
		},
		ScraperSelectors: ScraperSelectorsConfig{
			LabelTable: "table",
			Label:      "div",
			Rows:       "table.my_flight",
		},
		Airport: AirportConfig{
			Code:         "LAX",
			ZoneName:     "PST",
			UTCOffsetStr: "-08:00",
			Latitude:     33.9425,
			Longitude:    -118.408056,
		},
		Store:    StoreConfig{Path: "database.json"},
		Lookups:  LookupsConfig{CacheDir: "temp_data"},
		Schedule: ScheduleConfig{Cron: "0 6 * * *"},
		Log:      LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from file, .env and environment variables.
// With an empty configPath the usual locations are searched; if none exists
// the defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		potentialPaths := []string{
			"config.yaml",
			"config/config.yaml",
		}
		for _, p := range potentialPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	if configPath != "" {
		slog.Debug("loading configuration", "path", configPath)
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}
	applyEnv(&cfg)

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				slog.Warn("ignoring non-integer environment value", "key", key, "value", v)
			}
		}
	}

	setString("ARRIVALS_STORE_PATH", &cfg.Store.Path)
	setString("ARRIVALS_BASE_URL", &cfg.Scraper.BaseURL)
	setInt("ARRIVALS_MIN_OFFSET", &cfg.Scraper.MinOffset)
	setInt("ARRIVALS_MAX_OFFSET", &cfg.Scraper.MaxOffset)
	setString("ARRIVALS_TIMEOUT", &cfg.Scraper.TimeoutStr)
	setString("ARRIVALS_AIRPORT_CODE", &cfg.Airport.Code)
	setString("ARRIVALS_UTC_OFFSET", &cfg.Airport.UTCOffsetStr)
	setString("ARRIVALS_ZONE_NAME", &cfg.Airport.ZoneName)
	setString("ARRIVALS_AIRPORT_LOCATIONS", &cfg.Lookups.AirportLocations)
	setString("ARRIVALS_COUNTRY_CODES", &cfg.Lookups.CountryCodes)
	setString("ARRIVALS_DB_DRIVER", &cfg.Database.Driver)
	setString("ARRIVALS_DB_HOST", &cfg.Database.Host)
	setString("ARRIVALS_DB_PORT", &cfg.Database.Port)
	setString("ARRIVALS_DB_USER", &cfg.Database.User)
	setString("ARRIVALS_DB_PASSWORD", &cfg.Database.Password)
	setString("ARRIVALS_DB_NAME", &cfg.Database.DBName)
	setString("ARRIVALS_DB_PATH", &cfg.Database.Path)
	setString("ARRIVALS_SCHEDULE", &cfg.Schedule.Cron)
	setString("ARRIVALS_LOG_LEVEL", &cfg.Log.Level)
	setString("PORT", &cfg.Server.Port)

	if v := os.Getenv("ARRIVALS_INSECURE_SKIP_VERIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scraper.InsecureSkipVerify = b
		}
	}
}

// finish parses derived fields and validates the result.
func (cfg *Config) finish() error {
	var err error

	if cfg.Scraper.TimeoutStr != "" {
		cfg.Scraper.Timeout, err = time.ParseDuration(cfg.Scraper.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse scraper timeout: %w", err)
		}
	} else {
		cfg.Scraper.Timeout = 30 * time.Second // Default
	}

	if cfg.Scraper.MinOffset > cfg.Scraper.MaxOffset {
		return fmt.Errorf("scraper min_offset %d is greater than max_offset %d", cfg.Scraper.MinOffset, cfg.Scraper.MaxOffset)
	}
	if cfg.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper base_url is not configured")
	}

	cfg.Airport.UTCOffset, err = ParseUTCOffset(cfg.Airport.UTCOffsetStr)
	if err != nil {
		return fmt.Errorf("failed to parse airport utc_offset: %w", err)
	}
	if cfg.Airport.ZoneName == "" {
		cfg.Airport.ZoneName = cfg.Airport.UTCOffsetStr
	}

	switch cfg.Database.Driver {
	case "", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	// Remote lookup tables are cached under CacheDir.
	if cfg.Lookups.CacheDir != "" && (isRemote(cfg.Lookups.AirportLocations) || isRemote(cfg.Lookups.CountryCodes)) {
		if err := os.MkdirAll(filepath.Clean(cfg.Lookups.CacheDir), 0755); err != nil {
			return fmt.Errorf("failed to create lookup cache directory: %w", err)
		}
	}
	return nil
}

// ParseUTCOffset parses "+HH:MM", "-HH:MM" or "-HH" into seconds east of UTC.
func ParseUTCOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" {
		return 0, nil
	}
	sign := 1
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	default:
		return 0, fmt.Errorf("offset %q must start with + or -", s)
	}
	hh, mm, _ := strings.Cut(s, ":")
	if strings.ContainsAny(hh+mm, "+-") {
		return 0, fmt.Errorf("offset %q has more than one sign", s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 14 {
		return 0, fmt.Errorf("invalid offset hours %q", hh)
	}
	minutes := 0
	if mm != "" {
		minutes, err = strconv.Atoi(mm)
		if err != nil || minutes >= 60 {
			return 0, fmt.Errorf("invalid offset minutes %q", mm)
		}
	}
	return sign * (hours*3600 + minutes*60), nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
