package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/saltyorg/shopdb/internal/database"
)

func newReportCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a reporting query",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print rows as JSON")

	render := func(cmd *cobra.Command, rows any, table func(w io.Writer)) error {
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "products",
			Short: "Products with category, details, tags and ratings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					rows, err := db.GetProductsWithDetails()
					if err != nil {
						return err
					}
					return render(cmd, rows, func(w io.Writer) {
						fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY\tTAGS\tRATING\tREVIEWS")
						for _, p := range rows {
							fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
								p.ID, p.Name, p.Price, p.StockQuantity, strOrDash(p.CategoryName),
								joinOrDash(p.Tags), decOrDash(p.AvgRating), p.ReviewCount)
						}
					})
				})
			},
		},
		&cobra.Command{
			Use:   "suppliers",
			Short: "Supplier link statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					rows, err := db.GetSupplierStatistics()
					if err != nil {
						return err
					}
					return render(cmd, rows, func(w io.Writer) {
						fmt.Fprintln(w, "SUPPLIER\tPRODUCTS\tAVG PURCHASE\tSTOCK")
						for _, s := range rows {
							fmt.Fprintf(w, "%s\t%d\t%s\t%d\n",
								s.CompanyName, s.ProductsSupplied, decOrDash(s.AvgPurchasePrice), s.TotalStock)
						}
					})
				})
			},
		},
		&cobra.Command{
			Use:   "tag <name>",
			Short: "Products carrying a tag, with all of their tags",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					rows, err := db.GetProductsByTag(args[0])
					if err != nil {
						return err
					}
					return render(cmd, rows, func(w io.Writer) {
						fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tALL TAGS")
						for _, p := range rows {
							fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
								p.ID, p.Name, p.Price, strOrDash(p.CategoryName), joinOrDash(p.AllTags))
						}
					})
				})
			},
		},
		&cobra.Command{
			Use:   "categories",
			Short: "Price, stock and review aggregates per category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(cmd, func(db *database.DB) error {
					rows, err := db.CategoryAnalysis()
					if err != nil {
						return err
					}
					return render(cmd, rows, func(w io.Writer) {
						fmt.Fprintln(w, "CATEGORY\tPRODUCTS\tAVG\tMAX\tMIN\tSTOCK\tREVIEWS\tRATING")
						for _, c := range rows {
							fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
								c.CategoryName, c.ProductCount,
								decOrDash(c.AvgPrice), decOrDash(c.MaxPrice), decOrDash(c.MinPrice),
								c.TotalStock, c.TotalReviews, decOrDash(c.AvgRating))
						}
					})
				})
			},
		},
	)

	return cmd
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}

func decOrDash(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}
