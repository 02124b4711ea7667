package classify_test

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturio/einvoice/internal/classify"
	"github.com/fakturio/einvoice/internal/model"
)

const xmlDoc = `<?xml version="1.0"?><Invoice><ID>1</ID></Invoice>`

func flatePDF(t *testing.T) []byte {
	t.Helper()
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, err := zw.Write([]byte(xmlDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	fmt.Fprintf(&buf, "1 0 obj\n<< /Filter /FlateDecode /Length %d >>\nstream\n", z.Len())
	buf.Write(z.Bytes())
	buf.WriteString("\nendstream\nendobj\n%%EOF\n")
	return buf.Bytes()
}

func TestReceipt_XMLAttachments(t *testing.T) {
	tests := []struct {
		name       string
		attachment model.Attachment
		expected   model.Strategy
	}{
		{
			name:       "xml mime type",
			attachment: model.Attachment{MimeType: "application/xml", Filename: "invoice.bin"},
			expected:   model.StrategyStructured,
		},
		{
			name:       "text xml mime type",
			attachment: model.Attachment{MimeType: "text/xml", Filename: "data"},
			expected:   model.StrategyStructured,
		},
		{
			name:       "uppercase mime type",
			attachment: model.Attachment{MimeType: "APPLICATION/XML"},
			expected:   model.StrategyStructured,
		},
		{
			name:       "xml filename extension",
			attachment: model.Attachment{MimeType: "application/octet-stream", Filename: "rechnung.xml"},
			expected:   model.StrategyStructured,
		},
		{
			name:       "uppercase extension",
			attachment: model.Attachment{Filename: "RECHNUNG.XML"},
			expected:   model.StrategyStructured,
		},
		{
			name:       "plain pdf without embedded xml",
			attachment: model.Attachment{MimeType: "application/pdf", Filename: "scan.pdf", Content: []byte("%PDF-1.4\nsome page content")},
			expected:   model.StrategyExtraction,
		},
		{
			name:       "jpeg scan",
			attachment: model.Attachment{MimeType: "image/jpeg", Filename: "scan.jpg", Content: []byte{0xff, 0xd8, 0xff}},
			expected:   model.StrategyExtraction,
		},
		{
			name:       "empty attachment",
			attachment: model.Attachment{},
			expected:   model.StrategyExtraction,
		},
		{
			name:       "corrupt pdf buffer",
			attachment: model.Attachment{MimeType: "application/pdf", Filename: "broken.pdf", Content: []byte("%PDF-\x00\x01\x02 garbage")},
			expected:   model.StrategyExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				got := classify.Receipt([]model.Attachment{tt.attachment})
				assert.Equal(t, tt.expected, got)
			})
		})
	}
}

func TestReceipt_PDFWithEmbeddedXML(t *testing.T) {
	got := classify.Receipt([]model.Attachment{{
		MimeType: "application/pdf",
		Filename: "invoice.pdf",
		Content:  flatePDF(t),
	}})
	assert.Equal(t, model.StrategyStructured, got)
}

func TestReceipt_PDFWithUncompressedXML(t *testing.T) {
	content := []byte("%PDF-1.7\nstream\n" + xmlDoc + "\nendstream\n")
	got := classify.Receipt([]model.Attachment{{MimeType: "application/pdf", Content: content}})
	assert.Equal(t, model.StrategyStructured, got)
}

func TestReceipt_FirstQualifyingWins(t *testing.T) {
	got := classify.Receipt([]model.Attachment{
		{MimeType: "image/png", Filename: "logo.png"},
		{MimeType: "application/xml", Filename: "invoice.xml"},
	})
	assert.Equal(t, model.StrategyStructured, got)
}

func TestReceipt_EmptySet(t *testing.T) {
	assert.Equal(t, model.StrategyExtraction, classify.Receipt(nil))
	assert.Equal(t, model.StrategyExtraction, classify.Receipt([]model.Attachment{}))
}

func TestIsXML(t *testing.T) {
	assert.True(t, classify.IsXML(model.Attachment{MimeType: "application/xhtml+xml"}))
	assert.True(t, classify.IsXML(model.Attachment{Filename: "a.xml"}))
	assert.False(t, classify.IsXML(model.Attachment{MimeType: "application/json", Filename: "a.json"}))
}
