package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logging"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with performance analytics",
	Long: `Tradejournal records discretionary trades and turns them into
account statistics, risk metrics and reports.

It provides tools for:
  - Logging trades with multi-timeframe confluence scores
  - Importing and exporting broker CSV statements
  - Account, risk and calendar analytics
  - A REST API with Prometheus metrics
  - Text, Org-mode and Excel performance reports

Complete documentation is available at https://github.com/rustyeddy/tradejournal`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgFile string
	envFile string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with TJ_* overrides")
}

// loadConfig reads --config (or the defaults) and applies env overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// env bundles what most commands need.
type env struct {
	cfg   *config.Config
	store journal.Store
	log   *logrus.Logger
}

func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	log.SetOutput(os.Stderr)

	store, err := cfg.OpenStore()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, store: store, log: log}, nil
}

func (e *env) Close() error { return e.store.Close() }
