package model

import "time"

// ExtractedLineItem is one decoded invoice position.
// The unit price is derived (line total / quantity) because neither dialect
// is guaranteed to carry a usable per-unit price on decode.
type ExtractedLineItem struct {
	Name           string  `json:"name"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	Quantity       float64 `json:"quantity"`
	TaxPercent     float64 `json:"taxPercent"`
	NetCents       int64   `json:"netCents"`
	TaxCents       int64   `json:"taxCents"`
	GrossCents     int64   `json:"grossCents"`
}

// ExtractedTotals are document-level amounts in cents.
type ExtractedTotals struct {
	NetCents   int64 `json:"netCents"`
	TaxCents   int64 `json:"taxCents"`
	GrossCents int64 `json:"grossCents"`
}

// ExtractedInvoice is the canonical result of decoding either XML dialect.
// Decoding is defensive: missing or malformed fields default to zero values
// rather than failing the whole document.
type ExtractedInvoice struct {
	Format        Format              `json:"format"`
	Currency      string              `json:"currency,omitempty"`
	LineItems     []ExtractedLineItem `json:"lineItems"`
	Totals        ExtractedTotals     `json:"totals"`
	From          string              `json:"from"`
	InvoiceDate   time.Time           `json:"invoiceDate"`
	InvoiceNumber string              `json:"invoiceNumber"`
	Subject       string              `json:"subject"`
}
