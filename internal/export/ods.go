package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

const odsMimetype = "application/vnd.oasis.opendocument.spreadsheet"

const odsManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.spreadsheet"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

var odsEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// writeODS renders journal entries as a minimal OpenDocument spreadsheet.
// The package is assembled by hand: a stored mimetype entry first, then the
// manifest and a single-table content document.
func writeODS(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)

	// The mimetype entry must come first and be stored uncompressed so
	// readers can sniff the document type.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("failed to create mimetype entry: %w", err)
	}
	if _, err := io.WriteString(mt, odsMimetype); err != nil {
		return fmt.Errorf("failed to write mimetype entry: %w", err)
	}

	mf, err := zw.Create("META-INF/manifest.xml")
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}
	if _, err := io.WriteString(mf, odsManifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	cf, err := zw.Create("content.xml")
	if err != nil {
		return fmt.Errorf("failed to create content entry: %w", err)
	}
	if _, err := io.WriteString(cf, odsContent(entries)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize spreadsheet: %w", err)
	}
	return nil
}

func odsContent(entries []Entry) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">
 <office:body>
  <office:spreadsheet>
   <table:table table:name="Lançamentos">
`)

	writeRow := func(cells ...string) {
		b.WriteString("    <table:table-row>\n")
		for _, c := range cells {
			b.WriteString("     <table:table-cell office:value-type=\"string\"><text:p>")
			b.WriteString(odsEscaper.Replace(c))
			b.WriteString("</text:p></table:table-cell>\n")
		}
		b.WriteString("    </table:table-row>\n")
	}

	writeRow(sheetHeaders...)
	for _, e := range entries {
		writeRow(e.Date, e.Description, e.DebitAccount, e.CreditAccount, formatAmount(e.Amount))
	}

	b.WriteString(`   </table:table>
  </office:spreadsheet>
 </office:body>
</office:document-content>
`)
	return b.String()
}
