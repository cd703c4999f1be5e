package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the complete journal configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Report  ReportConfig  `json:"report" yaml:"report"`
}

// AccountConfig describes the trading account the journal tracks
type AccountConfig struct {
	Currency        string  `json:"currency" yaml:"currency"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
	// ContractSize converts price distance × lot size into account currency.
	ContractSize float64 `json:"contract_size,omitempty" yaml:"contract_size,omitempty"`
	// ContractSizes overrides ContractSize for individual symbols.
	ContractSizes map[string]float64 `json:"contract_sizes,omitempty" yaml:"contract_sizes,omitempty"`
	// Timezone decides which calendar day a trade belongs to.
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// StoreConfig selects where trades are kept
type StoreConfig struct {
	Type   string `json:"type" yaml:"type"` // "memory" or "sqlite"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains REST API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`
	// RateLimit is requests per second across all clients; 0 disables it.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	Burst     int     `json:"burst,omitempty" yaml:"burst,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// ReportConfig controls scheduled report generation
type ReportConfig struct {
	// Schedule is a six-field cron spec (with seconds). Empty disables it.
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Dir      string `json:"dir" yaml:"dir"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Env names recognised by ApplyEnv.
const (
	EnvStartingBalance = "TJ_STARTING_BALANCE"
	EnvCurrency        = "TJ_CURRENCY"
	EnvContractSize    = "TJ_CONTRACT_SIZE"
	EnvTimezone        = "TJ_TIMEZONE"
	EnvStoreType       = "TJ_STORE"
	EnvDBPath          = "TJ_DB_PATH"
	EnvAddr            = "TJ_ADDR"
	EnvGinMode         = "TJ_GIN_MODE"
	EnvRateLimit       = "TJ_RATE_LIMIT"
	EnvLogLevel        = "TJ_LOG_LEVEL"
	EnvLogFormat       = "TJ_LOG_FORMAT"
	EnvReportSchedule  = "TJ_REPORT_SCHEDULE"
	EnvReportDir       = "TJ_REPORT_DIR"
)

// ApplyEnv loads the given .env files (".env" when none are named; a missing
// file is not an error) and then overrides fields from TJ_* variables.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	c.Account.Currency = getEnv(EnvCurrency, c.Account.Currency)
	c.Account.Timezone = getEnv(EnvTimezone, c.Account.Timezone)
	c.Store.Type = getEnv(EnvStoreType, c.Store.Type)
	c.Store.DBPath = getEnv(EnvDBPath, c.Store.DBPath)
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	c.Server.Mode = getEnv(EnvGinMode, c.Server.Mode)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnv(EnvLogFormat, c.Log.Format)
	c.Report.Schedule = getEnv(EnvReportSchedule, c.Report.Schedule)
	c.Report.Dir = getEnv(EnvReportDir, c.Report.Dir)

	for key, dst := range map[string]*float64{
		EnvStartingBalance: &c.Account.StartingBalance,
		EnvContractSize:    &c.Account.ContractSize,
		EnvRateLimit:       &c.Server.RateLimit,
	} {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Location resolves Account.Timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Account.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Account.Timezone)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.StartingBalance < 0 {
		return fmt.Errorf("account.starting_balance must not be negative")
	}
	if c.Account.ContractSize < 0 {
		return fmt.Errorf("account.contract_size must not be negative")
	}
	for sym, cs := range c.Account.ContractSizes {
		if cs <= 0 {
			return fmt.Errorf("account.contract_sizes[%s] must be positive", sym)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("account.timezone: %w", err)
	}
	switch c.Store.Type {
	case "memory":
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("store.type must be 'memory' or 'sqlite'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	if c.Report.Schedule != "" {
		p := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := p.Parse(c.Report.Schedule); err != nil {
			return fmt.Errorf("report.schedule: %w", err)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:        "USD",
			StartingBalance: 10000,
			ContractSize:    1,
		},
		Store: StoreConfig{
			Type:   "sqlite",
			DBPath: "./tradejournal.db",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			Mode:      "release",
			RateLimit: 20,
			Burst:     40,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Report: ReportConfig{
			Dir: "./reports",
		},
	}
}
