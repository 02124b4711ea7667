package einvoice

import (
	"github.com/fakturio/einvoice/internal/classify"
	"github.com/fakturio/einvoice/internal/codec"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/pdf"
)

// Extract decodes e-invoice content into the canonical structure. The input
// may be raw XML of either dialect or a PDF with an embedded XML payload.
// The currency is the caller's accounting currency and is stamped onto the
// result; it is not read from the document.
//
// Extraction never fails: unrecognized or malformed content yields a result
// tagged FormatUnknown.
func Extract(content []byte, currency string) *ExtractedInvoice {
	if payload, ok := pdf.ExtractEmbeddedXML(content); ok {
		content = []byte(payload)
	}

	result := codec.NewRegistry().Decode(content)
	result.Currency = currency
	return result
}

// DetectFormat identifies the XML dialect from raw bytes
func DetectFormat(content []byte) Format {
	return codec.DetectFormat(content)
}

// ClassifyReceipt decides the processing route for an incoming attachment
// set: StrategyStructured when any attachment carries machine-readable
// invoice XML (directly or embedded in a PDF), StrategyExtraction otherwise.
func ClassifyReceipt(attachments []model.Attachment) Strategy {
	return classify.Receipt(attachments)
}
