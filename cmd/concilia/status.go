package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/model"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the working batch and reconciliation progress",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("all", false, "list every transaction, not just unreconciled ones")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	showAll, _ := cmd.Flags().GetBool("all")

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	transactions := a.engine.Transactions()
	if len(transactions) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No transactions imported. Start with 'concilia import'."))
		return nil
	}

	stats := a.engine.Stats()
	summary := strings.Join([]string{
		fmt.Sprintf("Transactions:   %d", stats.Total),
		fmt.Sprintf("Reconciled:     %d (%.0f%%)", stats.Reconciled, stats.ReconciledPercent()),
		fmt.Sprintf("Pending debits: R$ %.2f", stats.PendingDebitTotal),
		fmt.Sprintf("Active plan:    %s", a.accounts.ActivePlan()),
	}, "\n")
	fmt.Println(cli.RenderBox(cli.ChartIcon+" Reconciliation", summary))

	for _, txn := range transactions {
		if !showAll && txn.IsReconciled() {
			continue
		}

		amount := cli.CreditStyle.Render(fmt.Sprintf("%10.2f", txn.Amount))
		if txn.Type == model.TypeDebit {
			amount = cli.DebitStyle.Render(fmt.Sprintf("%10.2f", -txn.Amount))
		}

		target := ""
		if txn.IsReconciled() {
			target = " → " + txn.Reconciliation.AccountID
		}

		fmt.Printf("  %s  %s  %s  %-40s %s%s\n",
			cli.SubtleStyle.Render(txn.ID),
			txn.Date,
			amount,
			txn.Description,
			cli.FormatStatus(string(txn.Reconciliation.Status)),
			target)
	}
	return nil
}
