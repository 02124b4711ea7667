// Package classify decides the processing route for incoming receipts:
// structured e-invoice data vs. content extraction.
package classify

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/pdf"
)

var pdfMagic = []byte("%PDF-")

// Receipt classifies a set of attachments. It returns StrategyStructured
// as soon as one attachment qualifies: an XML mime type or filename, or a
// PDF carrying an embedded XML payload. Inspection failures are swallowed;
// on doubt the receipt goes to the extraction pipeline.
func Receipt(attachments []model.Attachment) model.Strategy {
	for _, attachment := range attachments {
		if IsXML(attachment) {
			return model.StrategyStructured
		}
		if isPDF(attachment) && pdfHasXML(attachment.Content) {
			return model.StrategyStructured
		}
	}
	return model.StrategyExtraction
}

// IsXML reports whether the attachment announces itself as XML by mime
// type or file extension, case-insensitively.
func IsXML(attachment model.Attachment) bool {
	if strings.Contains(strings.ToLower(attachment.MimeType), "xml") {
		return true
	}
	return strings.EqualFold(filepath.Ext(attachment.Filename), ".xml")
}

func isPDF(attachment model.Attachment) bool {
	if strings.EqualFold(attachment.MimeType, "application/pdf") {
		return true
	}
	if strings.EqualFold(filepath.Ext(attachment.Filename), ".pdf") {
		return true
	}
	return bytes.HasPrefix(attachment.Content, pdfMagic)
}

// pdfHasXML checks for an embedded payload: a raw byte scan for an XML
// declaration followed by a closing tag catches uncompressed embeddings,
// the extractor handles Flate-compressed ones.
func pdfHasXML(content []byte) bool {
	if idx := bytes.Index(content, []byte("<?xml")); idx >= 0 {
		if bytes.Contains(content[idx:], []byte("</")) {
			return true
		}
	}
	return pdf.HasEmbeddedXML(content)
}
