package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/shopdb/internal/database"
)

func newMaintenanceCmd(opts *options) *cobra.Command {
	var vacuum bool

	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Refresh planner statistics and check foreign key integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(db *database.DB) error {
				if err := db.Optimize(); err != nil {
					return err
				}
				if vacuum {
					if err := db.Vacuum(); err != nil {
						return err
					}
				}

				violations, err := db.ForeignKeyCheck()
				if err != nil {
					return err
				}
				for _, v := range violations {
					ev := log.Warn().Str("table", v.Table).Str("parent", v.ParentTable)
					if v.RowID != nil {
						ev = ev.Int64("rowid", *v.RowID)
					}
					ev.Msg("Dangling foreign key")
				}

				fmt.Fprintf(cmd.OutOrStdout(), "maintenance complete, %d foreign key violations\n", len(violations))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also rebuild the database file")

	return cmd
}
