package model

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SupportingDocument is transient evidence attached to a classification
// request: an invoice, a receipt, a spreadsheet flattened to text. It is
// never persisted by the core.
type SupportingDocument struct {
	Name     string
	Content  string // raw text, or a data URL for binary payloads
	MIMEType string
}

// IsText reports whether the document content can be sent as plain text.
func (d SupportingDocument) IsText() bool {
	return strings.HasPrefix(d.MIMEType, "text/") || d.MIMEType == "application/json"
}

// EncodeBinary packs raw bytes into the data-URL form used for binary
// document content.
func EncodeBinary(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeBinary extracts the raw bytes from a data-URL encoded document.
func (d SupportingDocument) DecodeBinary() ([]byte, error) {
	content := d.Content
	if idx := strings.Index(content, ","); idx >= 0 && strings.HasPrefix(content, "data:") {
		content = content[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", d.Name, err)
	}
	return data, nil
}
