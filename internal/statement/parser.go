// Package statement converts bank-statement input into raw transaction
// entries and normalizes them into the canonical transaction model.
package statement

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/conciliafacil/concilia/internal/service"
)

// Format identifies a supported statement input format.
type Format string

const (
	// FormatOFX is the structured OFX/QFX bank-statement markup.
	FormatOFX Format = "ofx"
	// FormatText is free-form statement text handed to the external classifier.
	FormatText Format = "text"
)

// Parser turns statement input into raw (date, description, signed amount)
// entries. The free-text path needs a classifier; the OFX path does not.
type Parser struct {
	classifier service.Classifier
}

// NewParser creates a parser. classifier may be nil when only OFX input is used.
func NewParser(classifier service.Classifier) *Parser {
	return &Parser{classifier: classifier}
}

// Parse dispatches on the input format.
func (p *Parser) Parse(ctx context.Context, rawInput string, format Format) ([]model.RawTransaction, error) {
	switch format {
	case FormatOFX:
		return p.parseOFX(rawInput)
	case FormatText:
		return p.parseFreeText(ctx, rawInput)
	default:
		return nil, fmt.Errorf("%w: unknown statement format %q", common.ErrInvalidFormat, format)
	}
}

var (
	tranListRegex = regexp.MustCompile(`(?s)<BANKTRANLIST>(.*?)</BANKTRANLIST>`)
	stmtTrnRegex  = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	memoRegex     = regexp.MustCompile(`<MEMO>([^<\r\n]+)`)
	amountRegex   = regexp.MustCompile(`<TRNAMT>([^<\r\n]+)`)
	dateRegex     = regexp.MustCompile(`<DTPOSTED>([^<\r\n]+)`)
)

// parseOFX extracts transactions from OFX markup. Fully well-formed files go
// through ofxgo; anything it rejects falls back to a lenient scan that
// tolerates the half-broken exports banks actually produce. Either way, a
// file without a transaction-list section is a format error, and records
// missing one of memo, amount, or posted date are skipped, not fatal.
func (p *Parser) parseOFX(content string) ([]model.RawTransaction, error) {
	content = strings.TrimLeft(content, " \t\r\n")

	listMatch := tranListRegex.FindStringSubmatch(content)
	if listMatch == nil {
		return nil, fmt.Errorf("%w: <BANKTRANLIST> section not found", common.ErrInvalidFormat)
	}

	if raw, ok := p.parseStrict(content); ok {
		return raw, nil
	}

	return p.parseLenient(listMatch[1]), nil
}

// parseStrict runs the input through ofxgo. It reports ok=false rather than
// an error so the caller can fall back to the lenient scan.
func (p *Parser) parseStrict(content string) ([]model.RawTransaction, bool) {
	resp, err := ofxgo.ParseResponse(strings.NewReader(content))
	if err != nil {
		slog.Debug("strict statement parse failed, using lenient scan", "error", err)
		return nil, false
	}

	var raw []model.RawTransaction
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, txn := range stmt.BankTranList.Transactions {
			memo := strings.TrimSpace(string(txn.Memo))
			if memo == "" {
				continue
			}
			amount, _ := txn.TrnAmt.Float64()
			raw = append(raw, model.RawTransaction{
				Date:        txn.DtPosted.Format("2006-01-02"),
				Description: memo,
				Amount:      amount,
			})
		}
	}

	if len(raw) == 0 {
		return nil, false
	}
	slog.Debug("parsed statement strictly", "transactions", len(raw))
	return raw, true
}

// parseLenient scans the transaction-list span record by record.
func (p *Parser) parseLenient(span string) []model.RawTransaction {
	var raw []model.RawTransaction
	skipped := 0

	for _, record := range stmtTrnRegex.FindAllStringSubmatch(span, -1) {
		memo := memoRegex.FindStringSubmatch(record[1])
		amt := amountRegex.FindStringSubmatch(record[1])
		posted := dateRegex.FindStringSubmatch(record[1])
		if memo == nil || amt == nil || posted == nil {
			skipped++
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(amt[1]), 64)
		if err != nil {
			skipped++
			continue
		}

		date, ok := formatPostedDate(posted[1])
		if !ok {
			skipped++
			continue
		}

		raw = append(raw, model.RawTransaction{
			Date:        date,
			Description: strings.TrimSpace(memo[1]),
			Amount:      amount,
		})
	}

	if skipped > 0 {
		slog.Warn("skipped incomplete statement records", "skipped", skipped, "parsed", len(raw))
	}
	return raw
}

// formatPostedDate truncates an OFX timestamp to its YYYYMMDD prefix and
// reformats it as YYYY-MM-DD.
func formatPostedDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if len(value) < 8 {
		return "", false
	}
	value = value[:8]
	return value[:4] + "-" + value[4:6] + "-" + value[6:8], true
}

// parseFreeText delegates extraction to the external classifier and checks
// the returned shape: any entry missing one of the three fields rejects the
// whole batch.
func (p *Parser) parseFreeText(ctx context.Context, text string) ([]model.RawTransaction, error) {
	if p.classifier == nil {
		return nil, fmt.Errorf("%w: no classifier available for free-text statements", common.ErrMissingConfig)
	}

	raw, err := p.classifier.ExtractTransactions(ctx, text)
	if err != nil {
		return nil, err
	}

	for i, entry := range raw {
		if entry.Date == "" || entry.Description == "" {
			return nil, fmt.Errorf("%w: extracted entry %d is incomplete", common.ErrInvalidResponse, i)
		}
	}
	return raw, nil
}
