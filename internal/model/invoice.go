package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Format identifies an e-invoice XML dialect.
type Format string

const (
	FormatZugferd   Format = "zugferd"
	FormatXRechnung Format = "xrechnung"
	FormatUnknown   Format = "unknown"
)

// VatStatus describes how the issuing company is registered for VAT.
type VatStatus string

const (
	VatEnabled                  VatStatus = "ENABLED"
	VatDisabledKleinunternehmer VatStatus = "DISABLED_KLEINUNTERNEHMER"
	VatDisabledOther            VatStatus = "DISABLED_OTHER"
)

// TaxCategoryCode is the EN16931 single-letter tax category.
type TaxCategoryCode string

const (
	TaxCategoryStandard TaxCategoryCode = "S"
	TaxCategoryZero     TaxCategoryCode = "Z"
	TaxCategoryExempt   TaxCategoryCode = "E"
)

// Strategy is the processing route chosen for an incoming receipt.
type Strategy string

const (
	// StrategyStructured means the receipt carries machine-readable
	// e-invoice XML, directly or embedded in a PDF container.
	StrategyStructured Strategy = "structured"

	// StrategyExtraction means no structured payload was found and the
	// receipt must go through the content-extraction pipeline.
	StrategyExtraction Strategy = "extraction"
)

// InvoiceItem is a single position on an outgoing invoice.
// Negative totals (unit price x quantity) are treated as document-level
// allowances by the line allocator.
type InvoiceItem struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unitPriceCents"`
	TaxPercent     float64         `json:"taxPercent"`
	Position       int             `json:"position"`
}

// Customer is the invoice recipient.
type Customer struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	Email       string `json:"email"`
	CountryCode string `json:"countryCode"`
}

// Invoice is the domain invoice handed to the encoders.
type Invoice struct {
	Number        string        `json:"number"`
	Items         []InvoiceItem `json:"items"`
	Customer      Customer      `json:"customer"`
	InvoicedAt    time.Time     `json:"invoicedAt"`
	DueAt         time.Time     `json:"dueAt"`
	FooterText    string        `json:"footerText,omitempty"`
	TotalCents    int64         `json:"totalCents"`
	TotalTaxCents int64         `json:"totalTaxCents"`
	PaidCents     int64         `json:"paidCents"`
}

// BankAccount holds the payee account referenced in payment instructions.
type BankAccount struct {
	IBAN string `json:"iban"`
	BIC  string `json:"bic,omitempty"`
}

// CompanyData describes the issuing company (the seller).
type CompanyData struct {
	Name        string      `json:"name"`
	Street      string      `json:"street"`
	Zip         string      `json:"zip"`
	City        string      `json:"city"`
	Email       string      `json:"email"`
	VatID       string      `json:"vatId,omitempty"`
	TaxID       string      `json:"taxId,omitempty"`
	Bank        BankAccount `json:"bank"`
	CountryCode string      `json:"countryCode"`
	Currency    string      `json:"currency"`
	VatStatus   VatStatus   `json:"vatStatus"`
}

// Attachment is a generated or received file.
type Attachment struct {
	Content  []byte `json:"content"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}
