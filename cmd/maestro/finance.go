// ABOUTME: CLI commands for the gig finance ledger.
// ABOUTME: Void keeps an entry in history; rm removes it outright.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	txMemo  string
	txEvent string
	txKind  string
	txAll   bool
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"finance", "f"},
	Short:   "Manage the finance ledger",
	Long: `Manage the gig finance ledger: income and expense entries.

Voiding keeps the entry in history with a void mark, for audit. Use
rm to remove an entry outright. Entries can link to events with
--event, tying gig fees to the calendar.

EXAMPLES:

  maestro tx add income 400 --memo "Green Mill gig" --event abc123
  maestro tx add expense 35.50 --memo "Strings and picks"
  maestro tx list
  maestro tx summary
  maestro tx void abc123`,
}

var txAddCmd = &cobra.Command{
	Use:   "add <kind> <amount>",
	Short: "Record a ledger entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidTransactionKind(args[0]) {
			return fmt.Errorf("unknown kind: %s\nValid kinds: income, expense", args[0])
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil || amount <= 0 {
			return fmt.Errorf("invalid amount: %s", args[1])
		}

		tx := models.NewTransaction(models.TransactionKind(args[0]), amount)
		if txMemo != "" {
			tx.WithMemo(txMemo)
		}
		if txEvent != "" {
			e, ok := resolveEvent(txEvent)
			if !ok {
				return fmt.Errorf("event not found: %s", txEvent)
			}
			tx.WithEvent(e.ID)
		}
		finStore.AddTransaction(*tx)

		color.Green("✓ Recorded %s %.2f %s", tx.Kind, tx.Amount, tx.Currency)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(tx.ID)))
		return nil
	},
}

var txListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List ledger entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs := finStore.Transactions()
		if len(txs) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, tx := range txs {
			if tx.DeletedAt != nil && !txAll {
				continue
			}
			if txKind != "" && string(tx.Kind) != txKind {
				continue
			}
			mark := ""
			if tx.DeletedAt != nil {
				mark = color.YellowString(" (void)")
			}
			memo := ""
			if tx.Memo != "" {
				memo = faint.Sprintf(" %s", truncate(tx.Memo, 40))
			}
			fmt.Printf("%s %s %s %8.2f %s%s%s\n",
				faint.Sprint(shortID(tx.ID)),
				faint.Sprint(tx.OccurredAt.Format("2006-01-02")),
				padRight(string(tx.Kind), 8),
				tx.Amount, tx.Currency, memo, mark)
		}
		return nil
	},
}

var txSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, expenses, and net",
	RunE: func(cmd *cobra.Command, args []string) error {
		var income, expenses float64
		for _, tx := range finStore.Transactions() {
			if tx.DeletedAt != nil {
				continue
			}
			switch tx.Kind {
			case models.TxIncome:
				income += tx.Amount
			case models.TxExpense:
				expenses += tx.Amount
			}
		}

		fmt.Printf("  Income:   %10.2f\n", income)
		fmt.Printf("  Expenses: %10.2f\n", expenses)
		net := income - expenses
		if net >= 0 {
			color.Green("  Net:      %10.2f", net)
		} else {
			color.Red("  Net:      %10.2f", net)
		}
		return nil
	},
}

var txVoidCmd = &cobra.Command{
	Use:   "void <id>",
	Short: "Void a ledger entry (kept in history)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, ok := resolveTx(args[0])
		if !ok {
			return fmt.Errorf("transaction not found: %s", args[0])
		}
		finStore.VoidTransaction(tx.ID)

		color.Yellow("✗ Voided %s %.2f %s", tx.Kind, tx.Amount, tx.Currency)
		return nil
	},
}

var txDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a ledger entry outright",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, ok := resolveTx(args[0])
		if !ok {
			return fmt.Errorf("transaction not found: %s", args[0])
		}
		finStore.DeleteTransaction(tx.ID)

		color.Yellow("✗ Deleted %s %.2f %s", tx.Kind, tx.Amount, tx.Currency)
		return nil
	},
}

func resolveTx(idOrPrefix string) (models.Transaction, bool) {
	var match models.Transaction
	found := false
	for _, tx := range finStore.Transactions() {
		if tx.ID == idOrPrefix {
			return tx, true
		}
		if strings.HasPrefix(tx.ID, idOrPrefix) {
			if found {
				return models.Transaction{}, false
			}
			match, found = tx, true
		}
	}
	return match, found
}

func init() {
	txAddCmd.Flags().StringVar(&txMemo, "memo", "", "free-form memo")
	txAddCmd.Flags().StringVar(&txEvent, "event", "", "event id this entry relates to")

	txListCmd.Flags().StringVar(&txKind, "kind", "", "filter by kind")
	txListCmd.Flags().BoolVar(&txAll, "all", false, "include voided entries")

	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txSummaryCmd)
	txCmd.AddCommand(txVoidCmd)
	txCmd.AddCommand(txDeleteCmd)
	rootCmd.AddCommand(txCmd)
}
