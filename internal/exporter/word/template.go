package word

import (
	"archive/zip"
	"io"
	"os"
)

// Placeholders understood by the summary template
const (
	PlaceholderDate       = "{{Date}}"
	PlaceholderSource     = "{{SourceFile}}"
	PlaceholderHouseholds = "{{Households}}"
	PlaceholderRows       = "{{GeneratedRows}}"
	PlaceholderFindings   = "{{Findings}}"
	PlaceholderContent    = "{{Content}}"
)

var templateParts = []struct {
	Name string
	Body string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	// Required by some parsers
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t>Household Reshape Summary</w:t></w:r></w:p>
<w:p><w:r><w:t>Date: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Source: {{SourceFile}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Households: {{Households}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Member rows: {{GeneratedRows}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Members missing data: {{Findings}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`},
}

// WriteTemplate writes the built-in summary template as a .docx archive
func WriteTemplate(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, part := range templateParts {
		pw, err := zw.Create(part.Name)
		if err != nil {
			return err
		}
		if _, err := pw.Write([]byte(part.Body)); err != nil {
			return err
		}
	}
	return zw.Close()
}

// WriteTemplateFile writes the built-in template to path
func WriteTemplateFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTemplate(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
