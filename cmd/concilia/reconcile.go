package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conciliafacil/concilia/internal/cli"
	"github.com/conciliafacil/concilia/internal/model"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Suggest accounts for unreconciled transactions",
		Long: `Send the unreconciled transactions to the AI classifier and apply its
suggestions. Transactions you reconciled manually are never touched.

Examples:
  # Reconcile the current batch
  concilia reconcile

  # Attach supporting evidence (invoices, receipts)
  concilia reconcile --doc nota_fiscal.pdf --doc recibo.txt`,
		RunE: runReconcile,
	}

	cmd.Flags().StringArray("doc", nil, "supporting document to send with the request (repeatable)")

	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	docPaths, _ := cmd.Flags().GetStringArray("doc")
	documents, err := loadDocuments(docPaths)
	if err != nil {
		return err
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

	var applied int
	err = withSpinner("Reconciling transactions...", func() error {
		var recErr error
		applied, recErr = a.engine.Reconcile(ctx, classifier, a.accounts.ActiveAccounts(), a.learning.All(), documents)
		return recErr
	})
	if err != nil {
		fmt.Println(cli.FormatError(userMessage(err)))
		return err
	}

	if err := a.persistBatch(ctx); err != nil {
		return fmt.Errorf("failed to persist batch: %w", err)
	}

	stats := a.engine.Stats()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Applied %d suggestions", applied)))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d of %d transactions reconciled (%.0f%%)",
		stats.Reconciled, stats.Total, stats.ReconciledPercent())))
	return nil
}

// loadDocuments reads evidence files. Text files travel as plain text,
// everything else as a base64 data URL.
func loadDocuments(paths []string) ([]model.SupportingDocument, error) {
	var documents []model.SupportingDocument
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		if idx := strings.Index(mimeType, ";"); idx > 0 {
			mimeType = mimeType[:idx]
		}

		doc := model.SupportingDocument{
			Name:     filepath.Base(path),
			MIMEType: mimeType,
		}
		if doc.IsText() {
			doc.Content = string(data)
		} else {
			doc.Content = model.EncodeBinary(mimeType, data)
		}
		documents = append(documents, doc)
	}
	return documents, nil
}
