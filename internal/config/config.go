// Package config loads the dashboard configuration: server settings,
// snapshot origin, cache/store backends, and the per-dataset pipeline
// parameters (file names, join keys, thresholds) that used to be
// hard-coded per page.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the dashboard backend.
type Config struct {
	Server   Server    `yaml:"server"`
	Origin   Origin    `yaml:"origin"`
	Redis    Redis     `yaml:"redis"`
	DB       DB        `yaml:"db"`
	Logging  Logging   `yaml:"logging"`
	Admin    Admin     `yaml:"admin"`
	Schema   Schema    `yaml:"schema"`
	Datasets []Dataset `yaml:"datasets"`
	Charts   Charts    `yaml:"charts"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Origin points at the static host serving the pre-computed CSV snapshots.
type Origin struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Redis holds the cache connection settings. An empty Addr disables caching.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DB holds the snapshot store settings. Driver is "sqlite" or "postgres".
type DB struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Admin configures the cookie gate protecting admin-only datasets.
// This is a plain shared-token check, not an authentication scheme.
type Admin struct {
	CookieName string `yaml:"cookie_name"`
	Token      string `yaml:"token"`
}

// Schema maps logical field names to the column-header aliases that the
// various snapshot generators use for them.
type Schema struct {
	Date      []string `yaml:"date"`
	Open      []string `yaml:"open"`
	High      []string `yaml:"high"`
	Low       []string `yaml:"low"`
	Close     []string `yaml:"close"`
	Volume    []string `yaml:"volume"`
	Name      []string `yaml:"name"`
	Code      []string `yaml:"code"`
	MarketCap []string `yaml:"market_cap"`
	Change    []string `yaml:"change"`
}

// Sort is a dataset's default sort order.
type Sort struct {
	Key       string `yaml:"key"`
	Direction string `yaml:"direction"` // "asc" or "desc"
}

// Secondary names one secondary CSV source joined into a dataset and the
// columns taken from it.
type Secondary struct {
	File   string   `yaml:"file"`
	Fields []string `yaml:"fields"`
}

// Dataset parameterizes one table view of the dashboard. The pipeline is
// shared; only these values differ between pages.
type Dataset struct {
	Name         string      `yaml:"name"`
	Title        string      `yaml:"title"`
	Primary      string      `yaml:"primary"`
	JoinKey      string      `yaml:"join_key"`
	Secondaries  []Secondary `yaml:"secondaries"`
	DefaultSort  Sort        `yaml:"default_sort"`
	MinMarketCap float64     `yaml:"min_market_cap"`
	SearchFields []string    `yaml:"search_fields"`
	// CategoryField/Categories drive the breakout-outcome filter
	// (돌파: 지속/실패/임박). Empty means no category filter.
	CategoryField string   `yaml:"category_field"`
	Categories    []string `yaml:"categories"`
	AdminOnly     bool     `yaml:"admin_only"`
}

// Charts configures the candle chart feeds.
type Charts struct {
	FileList    string   `yaml:"file_list"`   // JSON listing of per-stock chart files
	Dir         string   `yaml:"dir"`         // origin subdirectory of chart CSVs
	IndexFiles  []string `yaml:"index_files"` // comparison-overlay index series
	Concurrency int      `yaml:"concurrency"` // max concurrent chart fetches
}

// Load reads the YAML configuration at path, applies defaults and then
// environment variable overrides. A missing file is not an error; the
// defaults plus environment form a usable configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Origin.TimeoutSeconds == 0 {
		cfg.Origin.TimeoutSeconds = 10
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "sqlite"
	}
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = "./snapshots.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Admin.CookieName == "" {
		cfg.Admin.CookieName = "admin_token"
	}
	if cfg.Charts.Concurrency == 0 {
		cfg.Charts.Concurrency = 8
	}
	if cfg.Charts.FileList == "" {
		cfg.Charts.FileList = "file_list.json"
	}

	s := &cfg.Schema
	defaultAliases(&s.Date, "날짜", "일자", "Date")
	defaultAliases(&s.Open, "시가")
	defaultAliases(&s.High, "고가")
	defaultAliases(&s.Low, "저가")
	defaultAliases(&s.Close, "종가")
	defaultAliases(&s.Volume, "거래량")
	defaultAliases(&s.Name, "종목명")
	defaultAliases(&s.Code, "종목코드")
	defaultAliases(&s.MarketCap, "시가총액")
	defaultAliases(&s.Change, "등락률")
}

func defaultAliases(dst *[]string, aliases ...string) {
	if len(*dst) == 0 {
		*dst = aliases
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("ORIGIN_BASE_URL"); v != "" {
		cfg.Origin.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}
}

// FindDataset returns the dataset configuration with the given name.
func (c *Config) FindDataset(name string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}
