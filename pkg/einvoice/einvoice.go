// Package einvoice provides a public API for generating and reading
// EN16931 electronic invoices.
//
// This package exposes the core types and operations for encoding domain
// invoices as ZUGFeRD (CII) or XRechnung (UBL) documents, classifying
// incoming attachments, and decoding either dialect back into a canonical
// structure.
//
// Example usage:
//
//	gen := einvoice.NewGenerator()
//	attachments, err := gen.Generate(ctx, invoice, company, einvoice.GenerateOptions{
//	    Formats: []einvoice.Format{einvoice.FormatZugferd},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(attachments[0].Filename)
package einvoice

import "github.com/fakturio/einvoice/internal/model"

// Re-export core types for public API
type (
	Invoice          = model.Invoice
	InvoiceItem      = model.InvoiceItem
	Customer         = model.Customer
	CompanyData      = model.CompanyData
	BankAccount      = model.BankAccount
	Attachment       = model.Attachment
	ExtractedInvoice = model.ExtractedInvoice
	Format           = model.Format
	VatStatus        = model.VatStatus
	Strategy         = model.Strategy
)

// Re-export format tags
const (
	FormatZugferd   = model.FormatZugferd
	FormatXRechnung = model.FormatXRechnung
	FormatUnknown   = model.FormatUnknown
)

// Re-export VAT registration states
const (
	VatEnabled                  = model.VatEnabled
	VatDisabledKleinunternehmer = model.VatDisabledKleinunternehmer
	VatDisabledOther            = model.VatDisabledOther
)

// Re-export processing strategies
const (
	StrategyStructured = model.StrategyStructured
	StrategyExtraction = model.StrategyExtraction
)

// Re-export error types
type (
	EncodeError     = model.EncodeError
	ParseError      = model.ParseError
	ValidationError = model.ValidationError
	ExtractionError = model.ExtractionError
)
