package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/saltyorg/shopdb/internal/database"
)

func newReviewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Manage product reviews",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <product-id> <customer-id> <rating> [comment]",
		Short: "Add a review to a product",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product-id", args[0])
			if err != nil {
				return err
			}
			customerID, err := parseID("customer-id", args[1])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid rating %q: %w", args[2], err)
			}
			comment := ""
			if len(args) == 4 {
				comment = args[3]
			}

			return opts.withDB(cmd, func(db *database.DB) error {
				return report(cmd, db.AddReview(productID, customerID, rating, comment))
			})
		},
	})

	return cmd
}

func newSupplierCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplier",
		Short: "Manage product supplier links",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "link <product-id> <supplier-id> <purchase-price> <delivery-days>",
		Short: "Create or update the link between a product and a supplier",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product-id", args[0])
			if err != nil {
				return err
			}
			supplierID, err := parseID("supplier-id", args[1])
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid purchase-price %q: %w", args[2], err)
			}
			days, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid delivery-days %q: %w", args[3], err)
			}

			return opts.withDB(cmd, func(db *database.DB) error {
				return report(cmd, db.UpsertProductSupplier(productID, supplierID, price, days))
			})
		},
	})

	return cmd
}

// report prints the outcome of a write and turns a failure into a command error.
func report(cmd *cobra.Command, res database.WriteResult) error {
	if res.OK() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", res.Op)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: FAIL\n", res.Op)
	return res.Err
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return id, nil
}
