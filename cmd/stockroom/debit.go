// Debit commands: paged listing and payment recording.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukaforge/stockroom/internal/sqlite"
	"github.com/dukaforge/stockroom/pkg/types"
)

var (
	debitPage      int
	debitPageSize  int
	debitStatus    string
	debitSearch    string
	debitPayMethod string
	debitPayNotes  string

	debitAddName    string
	debitAddPhone   string
	debitAddAmount  float64
	debitAddInvoice string
	debitAddNotes   string
)

var debitCmd = &cobra.Command{
	Use:   "debit",
	Short: "Manage customer debits",
}

var debitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List debits page by page",
	Long: `List fetches one page of debits, newest first.

Example:
  stockroom debit list
  stockroom debit list --status unpaid
  stockroom debit list --search Sami --json`,
	Args: cobra.NoArgs,
	RunE: runDebitList,
}

var debitAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new debit",
	Args:  cobra.NoArgs,
	RunE:  runDebitAdd,
}

var debitPayCmd = &cobra.Command{
	Use:   "pay <debit-id> <amount>",
	Short: "Record a payment against a debit",
	Args:  cobra.ExactArgs(2),
	RunE:  runDebitPay,
}

func init() {
	debitListCmd.Flags().IntVar(&debitPage, "page", 1, "page number (1-based)")
	debitListCmd.Flags().IntVar(&debitPageSize, "page-size", 20, "items per page")
	debitListCmd.Flags().StringVar(&debitStatus, "status", "", "filter by status (unpaid, partial, paid)")
	debitListCmd.Flags().StringVar(&debitSearch, "search", "", "match customer name or phone substring")

	debitAddCmd.Flags().StringVar(&debitAddName, "name", "", "customer name (required)")
	debitAddCmd.Flags().StringVar(&debitAddPhone, "phone", "", "customer phone")
	debitAddCmd.Flags().Float64Var(&debitAddAmount, "amount", 0, "debit amount")
	debitAddCmd.Flags().StringVar(&debitAddInvoice, "invoice", "", "invoice ID the debit is tied to")
	debitAddCmd.Flags().StringVar(&debitAddNotes, "notes", "", "debit notes")
	debitAddCmd.MarkFlagRequired("name")

	debitPayCmd.Flags().StringVar(&debitPayMethod, "method", types.PaymentCash, "payment method")
	debitPayCmd.Flags().StringVar(&debitPayNotes, "notes", "", "payment notes")

	debitCmd.AddCommand(debitListCmd)
	debitCmd.AddCommand(debitAddCmd)
	debitCmd.AddCommand(debitPayCmd)
}

func runDebitList(cmd *cobra.Command, args []string) error {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	filter := sqlite.DebitFilter{Status: debitStatus, Search: debitSearch}
	result, debits, err := s.ListDebitsPage(context.Background(), filter, debitPage, debitPageSize)
	if err != nil {
		return fmt.Errorf("list debits: %w", err)
	}

	if flagJSON {
		return printJSON(debits)
	}
	printDebitTable(debits)
	printPageFooter(result)
	return nil
}

func runDebitAdd(cmd *cobra.Command, args []string) error {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	id, err := s.SaveDebit(context.Background(), &types.Debit{
		Name:      debitAddName,
		Phone:     debitAddPhone,
		Amount:    debitAddAmount,
		InvoiceID: debitAddInvoice,
		Notes:     debitAddNotes,
		Status:    types.DebitUnpaid,
	})
	if err != nil {
		return fmt.Errorf("add debit: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runDebitPay(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}

	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	if err := s.RecordPayment(context.Background(), args[0], amount, debitPayMethod, debitPayNotes); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	debit, err := s.GetDebit(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get debit: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f outstanding (%s)\n",
		debit.Name, debit.Outstanding(), debit.Status)
	return nil
}

// printDebitTable prints debits in a human-readable table format.
func printDebitTable(debits []*types.Debit) {
	if len(debits) == 0 {
		fmt.Println("No debits found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tNAME\tPHONE\tAMOUNT\tPAID\tSTATUS")
	for _, d := range debits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
			d.DebitID, d.Name, d.Phone, d.Amount, d.AmountPaid, d.Status)
	}
	w.Flush()
	fmt.Print(sb.String())
}
