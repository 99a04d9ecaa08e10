package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/config"
	"github.com/conciliafacil/concilia/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
		Long: `View and manage the two charts of accounts: the built-in reference plan
and your own custom plan. Exactly one plan is active at a time.`,
	}

	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsUseCmd())
	cmd.AddCommand(accountsLoadCmd())
	cmd.AddCommand(accountsRemoveCmd())
	cmd.AddCommand(accountsClearCmd())

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active chart of accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			active := a.accounts.ActiveAccounts()
			fmt.Println(cli.FormatTitle(fmt.Sprintf("Chart of accounts (%s plan, %d accounts)",
				a.accounts.ActivePlan(), len(active))))
			for _, acc := range active {
				fmt.Printf("  %s  %s\n", cli.InfoStyle.Render(acc.ID), acc.Name)
			}
			return nil
		},
	}
}

func accountsUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <reference|custom>",
		Short: "Switch the active plan",
		Long: `Switch between the reference plan and the custom plan. Existing
reconciliations keep their account ids even when the id is absent from the
newly active plan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan := model.AccountPlan(args[0])

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.accounts.SetActivePlan(plan); err != nil {
				return err
			}
			if err := a.store.SetSetting(ctx, config.KeyActivePlan, string(plan)); err != nil {
				return fmt.Errorf("failed to persist active plan: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Switched to the %s plan", plan)))
			return nil
		},
	}
}

func accountsLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Load a custom chart of accounts from a file",
		Long: `Extract a custom chart of accounts from an arbitrary document (CSV, a
pasted list, a report) using the AI extractor, and replace the current
custom plan with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			classifier, err := buildClassifier(ctx)
			if err != nil {
				return err
			}

			var extracted []model.Account
			err = withSpinner("Extracting accounts...", func() error {
				var exErr error
				extracted, exErr = classifier.ExtractAccounts(ctx, string(content))
				return exErr
			})
			if err != nil {
				fmt.Println(cli.FormatError(userMessage(err)))
				return err
			}
			if len(extracted) == 0 {
				return fmt.Errorf("no accounts found in %s", args[0])
			}

			a.accounts.ReplaceCustomAccounts(extracted)
			if err := a.store.ReplaceCustomAccounts(ctx, extracted); err != nil {
				return fmt.Errorf("failed to persist custom accounts: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Loaded %d custom accounts", len(extracted))))
			fmt.Println(cli.SubtleStyle.Render("  Run 'concilia accounts use custom' to activate them"))
			return nil
		},
	}
}

func accountsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <account-id>",
		Short: "Remove one account from the custom plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.accounts.RemoveCustomAccount(args[0]); err != nil {
				return err
			}
			if err := a.store.ReplaceCustomAccounts(ctx, a.accounts.CustomAccounts()); err != nil {
				return fmt.Errorf("failed to persist custom accounts: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed account %s from the custom plan", args[0])))
			return nil
		},
	}
}

func accountsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every account from the custom plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			a.accounts.ClearCustomAccounts()
			if err := a.store.ReplaceCustomAccounts(ctx, nil); err != nil {
				return fmt.Errorf("failed to persist custom accounts: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Cleared the custom plan"))
			return nil
		},
	}
}
