package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage learned reconciliation rules",
		Long: `List and delete the rules learned from your manual reconciliations.
Rules are sent to the AI classifier as the highest-priority signal.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesRemoveCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learned rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			rules := a.learning.All()
			if len(rules) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No learned rules yet. Reconcile something with 'concilia set'."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Learned rules (%d)", len(rules))))
			for _, rule := range rules {
				amount := cli.CreditStyle.Render(fmt.Sprintf("%+.2f", rule.Amount))
				if rule.Type == model.TypeDebit {
					amount = cli.DebitStyle.Render(fmt.Sprintf("%.2f", rule.Amount))
				}
				fmt.Printf("  %s  %-40s %s → %s\n",
					cli.SubtleStyle.Render(rule.ID), rule.Description, amount, rule.AccountID)
			}
			return nil
		},
	}
}

func rulesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <rule-id>",
		Short: "Delete a learned rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.learning.Remove(args[0]); err != nil {
				return err
			}
			if err := a.store.DeleteLearningExample(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to persist rule removal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed rule %s", args[0])))
			return nil
		},
	}
}
