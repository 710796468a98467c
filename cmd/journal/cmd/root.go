package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vitos/trade_journal/internal/config"
	"github.com/vitos/trade_journal/internal/infrastructure/logger"
	"github.com/vitos/trade_journal/internal/infrastructure/storage"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Personal trade journal",
	Long: `Journal records closed and open trades, computes their profit and
keeps a live dashboard of overall and today's results.

Run "journal serve" for the HTTP/WebSocket API, or use the other
commands to inspect and export the journal from the shell.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "path to YAML config file")
}

// app holds what every command needs: config, logger and an open store.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.SQLiteStore
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLoggerWithConfig(logger.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := storage.NewSQLiteStoreWithDriver(cfg.Storage.Driver, cfg.Storage.Path, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &app{cfg: cfg, log: log, store: store}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("Failed to close store", zap.Error(err))
	}
	a.log.Sync()
}
