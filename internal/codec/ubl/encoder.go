// Package ubl implements the XRechnung codec: OASIS UBL 2.1 invoice XML as
// profiled for the German public sector.
package ubl

import (
	"context"
	"strconv"

	"github.com/beevik/etree"

	"github.com/fakturio/einvoice/internal/codec/calc"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
)

// XML namespaces of the UBL schema family
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	profileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

	typeCodeInvoice            = "380"
	paymentMeansCreditTransfer = "30"
	unitCodePiece              = "C62"

	dateFormatISO = "2006-01-02"
)

// Encoder renders invoices as XRechnung UBL documents.
type Encoder struct{}

// NewEncoder creates an XRechnung encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Format returns the dialect this encoder produces
func (e *Encoder) Format() model.Format {
	return model.FormatXRechnung
}

// Encode renders the invoice as a single xrechnung.xml attachment.
// XRechnung requires an electronic delivery address, so a missing buyer
// email fails generation outright.
func (e *Encoder) Encode(ctx context.Context, inv *model.Invoice, company *model.CompanyData) (*model.Attachment, error) {
	xmlData, err := e.EncodeXML(inv, company)
	if err != nil {
		return nil, err
	}
	return &model.Attachment{
		Content:  xmlData,
		Filename: "xrechnung.xml",
		MimeType: "application/xml",
	}, nil
}

// EncodeXML builds the UBL document and serializes it.
func (e *Encoder) EncodeXML(inv *model.Invoice, company *model.CompanyData) ([]byte, error) {
	if inv.Customer.Email == "" {
		return nil, model.NewEncodeError(model.FormatXRechnung, "customer.email",
			"buyer email address is mandatory for XRechnung", nil)
	}

	vc := calc.ClassifyVat(company.VatStatus)
	allocation := calc.AllocateLines(inv.Items, company.VatStatus).Merged()
	totals := calc.ComputeTotals(allocation, inv.PaidCents, vc)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCAC)
	root.CreateAttr("xmlns:cbc", nsCBC)

	text(root, "cbc:CustomizationID", customizationID)
	text(root, "cbc:ProfileID", profileID)
	text(root, "cbc:ID", inv.Number)
	text(root, "cbc:IssueDate", inv.InvoicedAt.Format(dateFormatISO))
	if !inv.DueAt.IsZero() {
		text(root, "cbc:DueDate", inv.DueAt.Format(dateFormatISO))
	}
	text(root, "cbc:InvoiceTypeCode", typeCodeInvoice)
	if inv.FooterText != "" {
		text(root, "cbc:Note", inv.FooterText)
	}
	text(root, "cbc:DocumentCurrencyCode", company.Currency)

	e.buildSupplier(root, company)
	e.buildCustomer(root, inv)
	e.buildPaymentMeans(root, company)
	e.buildAllowances(root, company.Currency, allocation)
	e.buildTaxTotal(root, company.Currency, inv, totals, vc)
	e.buildMonetaryTotal(root, company.Currency, totals)
	for i, line := range allocation.Lines {
		e.buildLine(root, company.Currency, i+1, line)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (e *Encoder) buildSupplier(root *etree.Element, company *model.CompanyData) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	endpoint := text(party, "cbc:EndpointID", company.Email)
	endpoint.CreateAttr("schemeID", "EM")
	text(party.CreateElement("cac:PartyName"), "cbc:Name", company.Name)
	buildAddress(party, company.Street, company.City, company.Zip, company.CountryCode)

	if company.VatID != "" {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		text(taxScheme, "cbc:CompanyID", company.VatID)
		text(taxScheme.CreateElement("cac:TaxScheme"), "cbc:ID", "VAT")
	}

	legal := party.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", company.Name)

	contact := party.CreateElement("cac:Contact")
	text(contact, "cbc:ElectronicMail", company.Email)
}

func (e *Encoder) buildCustomer(root *etree.Element, inv *model.Invoice) {
	customer := inv.Customer
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	endpoint := text(party, "cbc:EndpointID", customer.Email)
	endpoint.CreateAttr("schemeID", "EM")
	text(party.CreateElement("cac:PartyName"), "cbc:Name", customer.Name)
	buildAddress(party, customer.Street, customer.City, customer.Zip, customer.CountryCode)

	legal := party.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", customer.Name)

	contact := party.CreateElement("cac:Contact")
	text(contact, "cbc:ElectronicMail", customer.Email)
}

func (e *Encoder) buildPaymentMeans(root *etree.Element, company *model.CompanyData) {
	if company.Bank.IBAN == "" {
		return
	}
	means := root.CreateElement("cac:PaymentMeans")
	text(means, "cbc:PaymentMeansCode", paymentMeansCreditTransfer)
	account := means.CreateElement("cac:PayeeFinancialAccount")
	text(account, "cbc:ID", company.Bank.IBAN)
	if company.Bank.BIC != "" {
		branch := account.CreateElement("cac:FinancialInstitutionBranch")
		text(branch, "cbc:ID", company.Bank.BIC)
	}
}

func (e *Encoder) buildAllowances(root *etree.Element, currency string, allocation *calc.Allocation) {
	for _, allowance := range allocation.Allowances {
		charge := root.CreateElement("cac:AllowanceCharge")
		text(charge, "cbc:ChargeIndicator", "false")
		text(charge, "cbc:AllowanceChargeReason", allowance.Reason)
		amount(charge, "cbc:Amount", allowance.ActualCents, currency)
		category := charge.CreateElement("cac:TaxCategory")
		text(category, "cbc:ID", string(allowance.CategoryCode))
		text(category, "cbc:Percent", money.FormatRate(allowance.TaxPercent))
		text(category.CreateElement("cac:TaxScheme"), "cbc:ID", "VAT")
	}
}

// buildTaxTotal emits a single aggregate subtotal whose percent comes from
// the first invoice item. A per-group breakdown like the ZUGFeRD side would
// be strictly compliant; this reproduces the established document shape.
func (e *Encoder) buildTaxTotal(root *etree.Element, currency string, inv *model.Invoice, totals *calc.Totals, vc calc.VatClassification) {
	s := totals.Summation

	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", s.TaxCents, currency)

	subtotal := taxTotal.CreateElement("cac:TaxSubtotal")
	amount(subtotal, "cbc:TaxableAmount", s.TaxBasisCents, currency)
	amount(subtotal, "cbc:TaxAmount", s.TaxCents, currency)

	category := subtotal.CreateElement("cac:TaxCategory")
	code := model.TaxCategoryStandard
	if len(totals.Breakdown) > 0 {
		code = totals.Breakdown[0].CategoryCode
	}
	text(category, "cbc:ID", string(code))
	firstRate := 0.0
	if len(inv.Items) > 0 {
		firstRate = inv.Items[0].TaxPercent
	}
	text(category, "cbc:Percent", money.FormatRate(firstRate))
	if vc.Disabled {
		text(category, "cbc:TaxExemptionReason", vc.ExemptionReason)
	}
	text(category.CreateElement("cac:TaxScheme"), "cbc:ID", "VAT")
}

func (e *Encoder) buildMonetaryTotal(root *etree.Element, currency string, totals *calc.Totals) {
	s := totals.Summation
	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "cbc:LineExtensionAmount", s.LineTotalCents, currency)
	amount(total, "cbc:TaxExclusiveAmount", s.TaxBasisCents, currency)
	amount(total, "cbc:TaxInclusiveAmount", s.GrandCents, currency)
	if s.HasAllowances {
		amount(total, "cbc:AllowanceTotalAmount", s.AllowanceTotalCents, currency)
	}
	amount(total, "cbc:PayableAmount", s.DueCents, currency)
}

func (e *Encoder) buildLine(root *etree.Element, currency string, seq int, line calc.EncodedLine) {
	invoiceLine := root.CreateElement("cac:InvoiceLine")
	text(invoiceLine, "cbc:ID", strconv.Itoa(seq))
	qty := text(invoiceLine, "cbc:InvoicedQuantity", line.Quantity.StringFixed(2))
	qty.CreateAttr("unitCode", unitCodePiece)
	amount(invoiceLine, "cbc:LineExtensionAmount", line.NetCents, currency)

	item := invoiceLine.CreateElement("cac:Item")
	if line.Description != "" {
		text(item, "cbc:Description", line.Description)
	}
	text(item, "cbc:Name", line.Name)
	category := item.CreateElement("cac:ClassifiedTaxCategory")
	// Fixed standard category on line level, mirroring the established
	// document shape; the aggregate TaxTotal carries the effective figures.
	text(category, "cbc:ID", string(model.TaxCategoryStandard))
	text(category, "cbc:Percent", money.FormatRate(line.TaxPercent))
	text(category.CreateElement("cac:TaxScheme"), "cbc:ID", "VAT")

	price := invoiceLine.CreateElement("cac:Price")
	amount(price, "cbc:PriceAmount", line.UnitPriceCents, currency)
}

func buildAddress(party *etree.Element, street, city, zip, country string) {
	addr := party.CreateElement("cac:PostalAddress")
	text(addr, "cbc:StreetName", street)
	text(addr, "cbc:CityName", city)
	text(addr, "cbc:PostalZone", zip)
	text(addr.CreateElement("cac:Country"), "cbc:IdentificationCode", country)
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, cents int64, currency string) *etree.Element {
	el := text(parent, tag, money.FormatCents(cents))
	el.CreateAttr("currencyID", currency)
	return el
}
