// Command billsplit splits a shared bill from the terminal. Ledgers are kept
// in a SQLite database; every change prints the recomputed summary.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/service"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/internal/storage/memory"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
	"github.com/mmynk/billsplit/pkg/logging"
)

var (
	// Flags
	configPath string
	dbPath     string
	logLevel   string

	// Set up in PersistentPreRunE
	cfg   config.Config
	store storage.Store
	svc   *service.Service
)

const memoryDB = ":memory:"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "billsplit",
	Short: "Split a shared bill between friends",
	Long: `billsplit keeps a ledger per event: participants, priced line items
shared by some of them, and tax spread over everyone who had something.
After every change it prints what each person owes.

Participants and items can be referenced by key or by name.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logging.SetupWithLevel(level)

		if cfg.DBPath == memoryDB {
			// Nothing outlives the process; handy for trying commands out.
			store = memory.New()
		} else {
			sqliteStore, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			store = sqliteStore
		}
		slog.Debug("Storage initialized", "database", cfg.DBPath)

		svc = service.New(store)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path, or "+memoryDB+" (overrides config and "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config and "+config.EnvLogLevel+")")

	rootCmd.AddCommand(
		newCmd,
		listCmd,
		showCmd,
		deleteCmd,
		eventCmd,
		taxCmd,
		balancesCmd,
		participantCmd,
		itemCmd,
		exportCmd,
		importCmd,
	)
}

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE does not run when a command fails.
	if closeErr := closeStore(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Exit(1)
	}
}
