// Package validate performs consistency checks on decoded invoices. The
// decoders never fail on bad numbers, so downstream callers use these checks
// to tell a clean extraction from a degraded one.
package validate

import (
	"github.com/fakturio/einvoice/internal/model"
)

// Result represents a single validation finding
type Result struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	IsError bool        `json:"isError"` // true = error, false = warning
}

// Validator checks extracted invoices for internal consistency
type Validator struct{}

// NewValidator creates a validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate performs full validation and returns all findings.
// An empty slice means the invoice is clean.
func (v *Validator) Validate(inv *model.ExtractedInvoice) []Result {
	if inv == nil {
		return []Result{{Field: "invoice", Message: "no invoice data", IsError: true}}
	}

	var results []Result

	if inv.Format == model.FormatUnknown {
		results = append(results, Result{
			Field:   "format",
			Message: "unrecognized document format",
			IsError: true,
		})
	}
	if inv.InvoiceNumber == "" {
		results = append(results, Result{
			Field:   "invoiceNumber",
			Message: "missing invoice number",
			IsError: true,
		})
	}
	if inv.InvoiceDate.IsZero() || inv.InvoiceDate.Unix() == 0 {
		results = append(results, Result{
			Field:   "invoiceDate",
			Message: "missing or unparseable invoice date",
			IsError: false,
		})
	}
	if inv.From == "" {
		results = append(results, Result{
			Field:   "from",
			Message: "missing seller name",
			IsError: false,
		})
	}

	results = append(results, v.validateAmounts(inv)...)
	return results
}

// validateAmounts cross-checks the totals block against itself and against
// the line items.
func (v *Validator) validateAmounts(inv *model.ExtractedInvoice) []Result {
	var results []Result
	totals := inv.Totals

	if totals.GrossCents == 0 && len(inv.LineItems) == 0 {
		results = append(results, Result{
			Field:   "totals",
			Message: "no line items and no totals",
			IsError: true,
		})
		return results
	}

	if totals.NetCents+totals.TaxCents != totals.GrossCents {
		results = append(results, Result{
			Field:   "totals.grossCents",
			Message: "net plus tax does not equal gross",
			Value:   totals.GrossCents,
			IsError: true,
		})
	}

	if len(inv.LineItems) > 0 {
		var lineNet, lineTax, lineGross int64
		for _, line := range inv.LineItems {
			lineNet += line.NetCents
			lineTax += line.TaxCents
			lineGross += line.GrossCents
		}
		if lineNet != totals.NetCents {
			results = append(results, Result{
				Field:   "totals.netCents",
				Message: "line item net sum does not match total",
				Value:   totals.NetCents,
				IsError: true,
			})
		}
		if lineTax != totals.TaxCents {
			results = append(results, Result{
				Field:   "totals.taxCents",
				Message: "line item tax sum does not match total",
				Value:   totals.TaxCents,
				IsError: true,
			})
		}
		if lineGross != totals.GrossCents {
			results = append(results, Result{
				Field:   "totals.grossCents",
				Message: "line item gross sum does not match total",
				Value:   totals.GrossCents,
				IsError: true,
			})
		}
	}

	for i, line := range inv.LineItems {
		if line.NetCents+line.TaxCents != line.GrossCents {
			results = append(results, Result{
				Field:   "lineItems",
				Message: "line net plus tax does not equal line gross",
				Value:   i,
				IsError: false,
			})
		}
	}

	return results
}

// Errors filters results down to hard errors
func Errors(results []Result) []Result {
	var errors []Result
	for _, r := range results {
		if r.IsError {
			errors = append(errors, r)
		}
	}
	return errors
}

// IsValid reports whether no finding is a hard error
func IsValid(results []Result) bool {
	return len(Errors(results)) == 0
}
