// Invoice commands: paged listing and daily totals.
package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukaforge/stockroom/internal/sqlite"
	"github.com/dukaforge/stockroom/pkg/types"
)

var (
	invoicePage     int
	invoicePageSize int
	invoiceFrom     string
	invoiceTo       string
	invoiceMethod   string
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage invoices",
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices page by page",
	Long: `List fetches one page of invoices, newest first.

Dates are given as YYYY-MM-DD.

Example:
  stockroom invoice list
  stockroom invoice list --from 2026-08-01 --to 2026-08-31
  stockroom invoice list --method cash --json`,
	Args: cobra.NoArgs,
	RunE: runInvoiceList,
}

var invoiceTotalCmd = &cobra.Command{
	Use:   "total [date]",
	Short: "Print the invoice total for a day (default: today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInvoiceTotal,
}

func init() {
	invoiceListCmd.Flags().IntVar(&invoicePage, "page", 1, "page number (1-based)")
	invoiceListCmd.Flags().IntVar(&invoicePageSize, "page-size", 20, "items per page")
	invoiceListCmd.Flags().StringVar(&invoiceFrom, "from", "", "start date, inclusive (YYYY-MM-DD)")
	invoiceListCmd.Flags().StringVar(&invoiceTo, "to", "", "end date, exclusive (YYYY-MM-DD)")
	invoiceListCmd.Flags().StringVar(&invoiceMethod, "method", "", "filter by payment method (cash, card, credit)")

	invoiceCmd.AddCommand(invoiceListCmd)
	invoiceCmd.AddCommand(invoiceTotalCmd)
}

func runInvoiceList(cmd *cobra.Command, args []string) error {
	filter := sqlite.InvoiceFilter{PaymentMethod: invoiceMethod}

	var err error
	if filter.From, err = parseDate(invoiceFrom); err != nil {
		return err
	}
	if filter.To, err = parseDate(invoiceTo); err != nil {
		return err
	}

	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	result, invoices, err := s.ListInvoicesPage(context.Background(), filter, invoicePage, invoicePageSize)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}

	if flagJSON {
		return printJSON(invoices)
	}
	printInvoiceTable(invoices)
	printPageFooter(result)
	return nil
}

func runInvoiceTotal(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if len(args) == 1 {
		parsed, err := parseDate(args[0])
		if err != nil {
			return err
		}
		day = parsed
	}

	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	total, err := s.DailyTotal(context.Background(), day)
	if err != nil {
		return fmt.Errorf("daily total: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", total)
	return nil
}

// parseDate parses YYYY-MM-DD, returning the zero time for empty input.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// printInvoiceTable prints invoices in a human-readable table format.
func printInvoiceTable(invoices []*types.Invoice) {
	if len(invoices) == 0 {
		fmt.Println("No invoices found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tISSUED\tMETHOD\tTOTAL\tDISCOUNT")
	for _, inv := range invoices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\n",
			inv.InvoiceID, inv.IssuedAt.Format("2006-01-02 15:04"),
			inv.PaymentMethod, inv.TotalAmount, inv.Discount)
	}
	w.Flush()
	fmt.Print(sb.String())
}
