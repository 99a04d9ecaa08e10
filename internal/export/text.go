package export

import (
	"fmt"
	"io"
	"strings"
)

const textHeader = "Data;Descrição;Conta Débito;Conta Crédito;Valor"

// writeText renders journal entries as semicolon-delimited plain text with
// comma decimal separators.
func writeText(w io.Writer, entries []Entry) error {
	var b strings.Builder
	b.WriteString(textHeader)
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s;%s;%s;%s;%s\n",
			e.Date, e.Description, e.DebitAccount, e.CreditAccount, formatAmount(e.Amount))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text export: %w", err)
	}
	return nil
}
