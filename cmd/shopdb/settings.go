package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/shopdb/internal/database"
)

func newSettingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change settings stored in the database",
		Long: `Read and change settings stored in the database.

Known keys:
  log.level          log level when no -v flag is given (trace, debug, info, error)
  log.max_size_mb    log file size before rotation
  log.max_backups    rotated log files to keep
  log.max_age_days   days to keep rotated log files
  log.compress       gzip rotated log files (true/false)
  db.busy_timeout    wait on a locked database when --busy-timeout is not given (e.g. 10s)`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print a setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					val, err := db.GetSetting(args[0])
					if err != nil {
						return err
					}
					if val == "" {
						return fmt.Errorf("setting %s is not set", args[0])
					}
					fmt.Fprintln(cmd.OutOrStdout(), val)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Store a setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					if err := db.SetSetting(args[0], args[1]); err != nil {
						return err
					}
					log.Info().Str("key", args[0]).Str("value", args[1]).Msg("Setting updated")
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print all stored settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					settings, err := db.GetAllSettings()
					if err != nil {
						return err
					}
					keys := make([]string, 0, len(settings))
					for k := range settings {
						keys = append(keys, k)
					}
					slices.Sort(keys)

					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "KEY\tVALUE")
					for _, k := range keys {
						fmt.Fprintf(tw, "%s\t%s\n", k, settings[k])
					}
					return tw.Flush()
				})
			},
		},
	)

	return cmd
}
