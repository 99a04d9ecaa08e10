package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/common"
)

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <transaction-id> <account-id>",
		Short: "Manually reconcile a transaction to an account",
		Long: `Reconcile a transaction to a ledger account. Manual reconciliations take
precedence over automation: a later AI pass will never overwrite them.
Each manual reconciliation is also recorded as a learning rule for future
suggestions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, accountID := args[0], args[1]

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			account, err := a.accounts.Find(accountID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("account %q is not in the active chart of accounts", accountID)
				}
				return err
			}

			if err := a.engine.ApplyManual(id, accountID); err != nil {
				return err
			}
			if err := a.persistTransaction(ctx, id); err != nil {
				return fmt.Errorf("failed to persist reconciliation: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Reconciled %s to %s (%s)", id, account.ID, account.Name)))
			return nil
		},
	}
}

func unsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <transaction-id>",
		Short: "Return a transaction to the unreconciled state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.ApplyManual(id, ""); err != nil {
				return err
			}
			if err := a.persistTransaction(ctx, id); err != nil {
				return fmt.Errorf("failed to persist reconciliation: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Unset reconciliation for %s", id)))
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <transaction-id> <description...>",
		Short: "Edit a transaction's description",
		Long: `Replace a transaction's description. The reconciliation state is left
untouched, whatever it is.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			description := strings.Join(args[1:], " ")

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.UpdateDescription(id, description); err != nil {
				return err
			}
			if err := a.persistTransaction(ctx, id); err != nil {
				return fmt.Errorf("failed to persist description: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated description for %s", id)))
			return nil
		},
	}
}
