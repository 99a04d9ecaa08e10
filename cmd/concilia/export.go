package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reconciled transactions as double-entry journal files",
		Long: `Export the reconciled subset of the working batch. You must designate a
counterpart account, the bank side of every journal entry: debits credit
it, credits debit it.

Examples:
  # Semicolon-delimited text for the accountant
  concilia export --counterpart 1.01.01.01.001 -o lancamentos.txt

  # XLSX workbook
  concilia export --format xlsx --counterpart 1.01.01.01.001 -o lancamentos.xlsx

  # OFX-style statement with reconciliation memos
  concilia export --format ofx --counterpart 1.01.01.01.001 -o conciliado.ofx`,
		RunE: runExport,
	}

	cmd.Flags().String("format", "txt", "output format (xlsx, ods, txt, ofx)")
	cmd.Flags().String("counterpart", "", "counterpart account id (required)")
	cmd.Flags().StringP("output", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("counterpart")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	counterpart, _ := cmd.Flags().GetString("counterpart")
	output, _ := cmd.Flags().GetString("output")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	transactions := a.engine.Transactions()

	// Validate before touching the output file so a rejected export never
	// leaves an empty file behind.
	if _, err := export.BuildJournal(transactions, counterpart); err != nil {
		fmt.Println(cli.FormatError(userMessage(err)))
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := export.Write(f, format, transactions, counterpart); err != nil {
		return err
	}

	stats := a.engine.Stats()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d reconciled transactions to %s", stats.Reconciled, output)))
	return nil
}
