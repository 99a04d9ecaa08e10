package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/conciliafacil/concilia/internal/statement"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement",
		Long: `Import a bank statement and replace the working transaction batch.

OFX statements are parsed directly. Free-form text statements are sent to
the AI extractor, which requires a configured Gemini API key.

Examples:
  # Import an OFX statement
  concilia import extrato_julho.ofx

  # Import only a date range
  concilia import extrato.ofx --start 2024-07-01 --end 2024-07-31

  # Import a statement pasted into a text file
  concilia import extrato.txt --format text`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("format", "ofx", "statement format (ofx, text)")
	cmd.Flags().String("start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "inclusive end date (YYYY-MM-DD)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	formatName, _ := cmd.Flags().GetString("format")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	var format statement.Format
	switch formatName {
	case "ofx":
		format = statement.FormatOFX
	case "text":
		format = statement.FormatText
	default:
		return fmt.Errorf("unknown statement format %q (want ofx or text)", formatName)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	parser := statement.NewParser(nil)
	if format == statement.FormatText {
		classifier, classifierErr := buildClassifier(ctx)
		if classifierErr != nil {
			return classifierErr
		}
		parser = statement.NewParser(classifier)
	}

	var raw []model.RawTransaction
	parse := func() error {
		var parseErr error
		raw, parseErr = parser.Parse(ctx, string(content), format)
		return parseErr
	}
	if format == statement.FormatText {
		err = withSpinner("Extracting transactions...", parse)
	} else {
		err = parse()
	}
	if err != nil {
		fmt.Println(cli.FormatError(userMessage(err)))
		return err
	}

	batch := statement.Normalize(raw, statement.Filter{StartDate: start, EndDate: end})
	a.engine.SetTransactions(batch)
	if err := a.persistBatch(ctx); err != nil {
		return fmt.Errorf("failed to persist batch: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %s", len(batch), args[0])))
	if skipped := len(raw) - len(batch); skipped > 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d outside the date range", skipped)))
	}
	return nil
}
