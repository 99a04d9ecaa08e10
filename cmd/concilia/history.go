package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the reconciliation history",
		Long:  `List every applied reconciliation, manual and automatic, in order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			events := a.engine.Events()
			if len(events) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No reconciliations recorded yet."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Reconciliation history (%d)", len(events))))
			for _, ev := range events {
				account := ev.AccountID
				if ev.AccountName != "" {
					account = fmt.Sprintf("%s (%s)", ev.AccountID, ev.AccountName)
				}
				fmt.Printf("  %s  %-9s  %-40s → %s\n",
					cli.SubtleStyle.Render(ev.Timestamp.Local().Format("2006-01-02 15:04")),
					cli.FormatStatus(string(ev.Method)),
					ev.Description,
					account)
			}
			return nil
		},
	}
}
