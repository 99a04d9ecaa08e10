package model

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportingDocumentIsText(t *testing.T) {
	assert.True(t, SupportingDocument{MIMEType: "text/plain"}.IsText())
	assert.True(t, SupportingDocument{MIMEType: "text/csv"}.IsText())
	assert.True(t, SupportingDocument{MIMEType: "application/json"}.IsText())
	assert.False(t, SupportingDocument{MIMEType: "application/pdf"}.IsText())
	assert.False(t, SupportingDocument{MIMEType: "image/png"}.IsText())
}

func TestSupportingDocumentDecodeBinary(t *testing.T) {
	payload := []byte("%PDF-1.4 fake")
	encoded := base64.StdEncoding.EncodeToString(payload)

	doc := SupportingDocument{
		Name:     "invoice.pdf",
		Content:  "data:application/pdf;base64," + encoded,
		MIMEType: "application/pdf",
	}

	data, err := doc.DecodeBinary()
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// Bare base64 without the data-URL prefix also decodes.
	doc.Content = encoded
	data, err = doc.DecodeBinary()
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	doc.Content = "not base64 at all!"
	_, err = doc.DecodeBinary()
	assert.Error(t, err)
}
