package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
)

// writeOFX renders the reconciled subset as an OFX-style statement. Each
// record carries the posted date, the signed amount, and a memo noting the
// account the transaction was reconciled to.
func writeOFX(w io.Writer, transactions []model.Transaction) error {
	var records []model.Transaction
	for _, txn := range transactions {
		if txn.IsReconciled() {
			records = append(records, txn)
		}
	}
	if len(records) == 0 {
		return common.ErrNothingToExport
	}

	var b strings.Builder
	b.WriteString("OFXHEADER:100\nDATA:OFXSGML\nVERSION:102\n\n")
	b.WriteString("<OFX>\n<BANKMSGSRSV1>\n<STMTTRNRS>\n<STMTRS>\n<BANKTRANLIST>\n")

	for _, txn := range records {
		trnType := "DEBIT"
		if txn.Type == model.TypeCredit {
			trnType = "CREDIT"
		}
		b.WriteString("<STMTTRN>\n")
		fmt.Fprintf(&b, "<TRNTYPE>%s\n", trnType)
		fmt.Fprintf(&b, "<DTPOSTED>%s\n", strings.ReplaceAll(txn.Date, "-", ""))
		fmt.Fprintf(&b, "<TRNAMT>%s\n", decimal.NewFromFloat(txn.SignedAmount()).StringFixed(2))
		fmt.Fprintf(&b, "<MEMO>%s (Conciliado para: %s)\n", txn.Description, txn.Reconciliation.AccountID)
		b.WriteString("</STMTTRN>\n")
	}

	b.WriteString("</BANKTRANLIST>\n</STMTRS>\n</STMTTRNRS>\n</BANKMSGSRSV1>\n</OFX>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write statement export: %w", err)
	}
	return nil
}
