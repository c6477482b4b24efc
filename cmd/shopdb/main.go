package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/shopdb/internal/config"
	"github.com/saltyorg/shopdb/internal/database"
	"github.com/saltyorg/shopdb/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultDBPath = "./shop.db"

// Settings keys read by the CLI itself. Log rotation keys are read by the logging package.
const (
	settingLogLevel    = "log.level"
	settingBusyTimeout = "db.busy_timeout"
)

// options holds the persistent CLI flags shared by every subcommand.
type options struct {
	dbPath      string
	logFile     string
	verbosity   int
	busyTimeout time.Duration

	logCloser io.Closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "shopdb",
		Short:         "shopdb - shop catalogue reports and writes",
		Long:          `shopdb runs reporting queries and transactional writes against the shop SQLite database.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logCloser != nil {
				return opts.logCloser.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dbPath, "db", "d", defaultDBPath, "SQLite database path (or set DB_PATH env var)")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path (default: shopdb.log next to the database)")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	flags.DurationVar(&opts.busyTimeout, "busy-timeout", 5*time.Second, "How long to wait on a locked database")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newLoadCmd(opts),
		newReportCmd(opts),
		newReviewCmd(opts),
		newSupplierCmd(opts),
		newMaintenanceCmd(opts),
		newSettingsCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			// no database or log file needed
			PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
			PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "shopdb %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

func (o *options) setup(cmd *cobra.Command) error {
	// Check for DB_PATH env var if using default
	if !cmd.Flags().Changed("db") {
		if envDB := os.Getenv("DB_PATH"); envDB != "" {
			o.dbPath = envDB
		}
	}
	if o.dbPath == "" {
		return fmt.Errorf("--db flag or DB_PATH environment variable is required")
	}
	if o.logFile == "" {
		o.logFile = logging.FilePathForDB(o.dbPath)
	}

	config.SetGlobalTimeouts(&config.TimeoutConfig{BusyTimeout: o.busyTimeout})
	o.logCloser = logging.Apply(logging.LevelFromVerbosity(o.verbosity), nil, o.logFile, cmd.ErrOrStderr())
	return nil
}

// withDB opens and migrates the database, runs fn and always closes the handle.
func (o *options) withDB(cmd *cobra.Command, fn func(db *database.DB) error) error {
	db, err := database.New(o.dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Rotation limits and defaults for unset flags live in the settings table;
	// re-apply once it is reachable
	loader := config.NewLoader(db)
	level := logging.LevelFromVerbosity(o.verbosity)
	if o.verbosity == 0 {
		level = loader.String(settingLogLevel, level)
	}
	if o.logCloser != nil {
		o.logCloser.Close()
	}
	o.logCloser = logging.Apply(level, loader, o.logFile, cmd.ErrOrStderr())

	if !cmd.Flags().Changed("busy-timeout") {
		if timeout := loader.Duration(settingBusyTimeout, o.busyTimeout); timeout != o.busyTimeout {
			if err := db.SetBusyTimeout(timeout); err != nil {
				return err
			}
		}
	}

	log.Debug().Str("database", db.Path()).Str("command", cmd.Name()).Msg("Running command")

	return fn(db)
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(db *database.DB) error {
				v, err := db.SchemaVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
				return nil
			})
		},
	}
}

func newLoadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.sql>",
		Short: "Load fixture data from a SQL script in one transaction",
		Long: `Load fixture data from a SQL script in one transaction.

Statements end at a semicolon outside quoted text, so string literals may span
lines. Nothing is applied if any statement fails.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			return opts.withDB(cmd, func(db *database.DB) error {
				n, err := db.ExecScript(string(script))
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", n)
				return nil
			})
		},
	}
}
