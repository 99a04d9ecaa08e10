package export

import (
	"fmt"
	"io"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
)

// Format identifies an output encoding.
type Format string

// Supported output encodings.
const (
	FormatXLSX Format = "xlsx"
	FormatODS  Format = "ods"
	FormatText Format = "txt"
	FormatOFX  Format = "ofx"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatXLSX, FormatODS, FormatText, FormatOFX:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, s)
	}
}

// Write renders the reconciled subset of a batch to w in the requested
// encoding. Every format requires a counterpart account and at least one
// reconciled transaction; violations are rejected before any bytes are
// written.
func Write(w io.Writer, format Format, transactions []model.Transaction, counterpart string) error {
	entries, err := BuildJournal(transactions, counterpart)
	if err != nil {
		return err
	}

	switch format {
	case FormatXLSX:
		return writeXLSX(w, entries)
	case FormatODS:
		return writeODS(w, entries)
	case FormatText:
		return writeText(w, entries)
	case FormatOFX:
		return writeOFX(w, transactions)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, string(format))
	}
}
