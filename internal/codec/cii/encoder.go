// Package cii implements the ZUGFeRD codec: UN/CEFACT Cross Industry
// Invoice XML, optionally embedded in a PDF/A-3 container.
package cii

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/fakturio/einvoice/internal/codec/calc"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
	"github.com/fakturio/einvoice/internal/pdf"
)

// XML namespaces of the CII schema family
const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"

	guidelineBasic = "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:basic"

	// UNTDID 1001 code for a commercial invoice
	typeCodeInvoice = "380"
	// UNTDID 4461 code for credit transfer
	paymentMeansCreditTransfer = "30"
	// UN/ECE Recommendation 20 code for "unit" (piece)
	unitCodePiece = "C62"

	// CII format 102 means compact calendar date YYYYMMDD
	dateFormat102 = "20060102"

	// XMLFilename is the attachment name of the embedded invoice stream.
	XMLFilename = "zugferd-invoice.xml"
)

// Encoder renders invoices as ZUGFeRD documents. With a renderer configured
// the CII XML is embedded into the rendered PDF; without one the raw XML is
// returned.
type Encoder struct {
	renderer pdf.Renderer
}

// EncoderOption configures the encoder
type EncoderOption func(*Encoder)

// WithRenderer supplies the external PDF renderer used as the visual
// carrier for the PDF/A-3 container.
func WithRenderer(r pdf.Renderer) EncoderOption {
	return func(e *Encoder) {
		e.renderer = r
	}
}

// NewEncoder creates a ZUGFeRD encoder
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format returns the dialect this encoder produces
func (e *Encoder) Format() model.Format {
	return model.FormatZugferd
}

// Encode renders the invoice. Returns invoice.pdf (application/pdf) when a
// renderer is configured, zugferd.xml (application/xml) otherwise.
func (e *Encoder) Encode(ctx context.Context, inv *model.Invoice, company *model.CompanyData) (*model.Attachment, error) {
	xmlData, err := e.EncodeXML(inv, company)
	if err != nil {
		return nil, err
	}

	if e.renderer == nil {
		return &model.Attachment{
			Content:  xmlData,
			Filename: "zugferd.xml",
			MimeType: "application/xml",
		}, nil
	}

	rendered, err := e.renderer.Render(ctx, inv, company)
	if err != nil {
		return nil, model.NewEncodeError(model.FormatZugferd, "renderer", "failed to render carrier PDF", err)
	}

	embedded, err := pdf.EmbedXML(rendered, xmlData, XMLFilename, pdf.Metadata{
		Title:    fmt.Sprintf("Invoice %s", inv.Number),
		Author:   company.Name,
		Created:  inv.InvoicedAt,
		Modified: inv.InvoicedAt,
	})
	if err != nil {
		return nil, model.NewEncodeError(model.FormatZugferd, "pdf", "failed to embed invoice XML", err)
	}

	return &model.Attachment{
		Content:  embedded,
		Filename: "invoice.pdf",
		MimeType: "application/pdf",
	}, nil
}

// EncodeXML builds the CII document and serializes it.
func (e *Encoder) EncodeXML(inv *model.Invoice, company *model.CompanyData) ([]byte, error) {
	vc := calc.ClassifyVat(company.VatStatus)
	allocation := calc.AllocateLines(inv.Items, company.VatStatus).Merged()
	totals := calc.ComputeTotals(allocation, inv.PaidCents, vc)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRSM)
	root.CreateAttr("xmlns:ram", nsRAM)
	root.CreateAttr("xmlns:udt", nsUDT)

	contextEl := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := contextEl.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	text(guideline, "ram:ID", guidelineBasic)

	e.buildHeader(root, inv)

	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")
	for _, line := range allocation.Lines {
		e.buildLine(tx, line, vc)
	}
	e.buildAgreement(tx, inv, company)
	e.buildDelivery(tx, inv)
	e.buildSettlement(tx, inv, company, allocation, totals)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (e *Encoder) buildHeader(root *etree.Element, inv *model.Invoice) {
	header := root.CreateElement("rsm:ExchangedDocument")
	text(header, "ram:ID", inv.Number)
	text(header, "ram:TypeCode", typeCodeInvoice)
	issue := header.CreateElement("ram:IssueDateTime")
	dateTime(issue, inv.InvoicedAt)
	if inv.FooterText != "" {
		note := header.CreateElement("ram:IncludedNote")
		text(note, "ram:Content", inv.FooterText)
	}
}

func (e *Encoder) buildLine(tx *etree.Element, line calc.EncodedLine, vc calc.VatClassification) {
	item := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	lineDoc := item.CreateElement("ram:AssociatedDocumentLineDocument")
	text(lineDoc, "ram:LineID", line.ID)

	product := item.CreateElement("ram:SpecifiedTradeProduct")
	text(product, "ram:Name", line.Name)
	if line.Description != "" {
		text(product, "ram:Description", line.Description)
	}

	// The net trade price carries the line total here, not the per-unit
	// price; the decoder divides by quantity to recover it.
	agreement := item.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	text(price, "ram:ChargeAmount", money.FormatCents(line.NetCents))

	delivery := item.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := text(delivery, "ram:BilledQuantity", line.Quantity.StringFixed(2))
	qty.CreateAttr("unitCode", unitCodePiece)

	settlement := item.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	text(tax, "ram:TypeCode", "VAT")
	if vc.Disabled {
		text(tax, "ram:ExemptionReason", vc.ExemptionReason)
	}
	text(tax, "ram:CategoryCode", string(line.CategoryCode))
	text(tax, "ram:RateApplicablePercent", money.FormatRate(line.TaxPercent))

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	text(summation, "ram:LineTotalAmount", money.FormatCents(line.NetCents))
}

func (e *Encoder) buildAgreement(tx *etree.Element, inv *model.Invoice, company *model.CompanyData) {
	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")

	seller := agreement.CreateElement("ram:SellerTradeParty")
	text(seller, "ram:Name", company.Name)
	address(seller, company.Street, company.Zip, company.City, company.CountryCode)
	email(seller, company.Email)
	if company.VatID != "" {
		reg := seller.CreateElement("ram:SpecifiedTaxRegistration")
		id := text(reg, "ram:ID", company.VatID)
		id.CreateAttr("schemeID", "VA")
	} else if company.TaxID != "" {
		reg := seller.CreateElement("ram:SpecifiedTaxRegistration")
		id := text(reg, "ram:ID", company.TaxID)
		id.CreateAttr("schemeID", "FC")
	}

	buyer := agreement.CreateElement("ram:BuyerTradeParty")
	text(buyer, "ram:Name", inv.Customer.Name)
	address(buyer, inv.Customer.Street, inv.Customer.Zip, inv.Customer.City, inv.Customer.CountryCode)
	email(buyer, inv.Customer.Email)
}

func (e *Encoder) buildDelivery(tx *etree.Element, inv *model.Invoice) {
	delivery := tx.CreateElement("ram:ApplicableHeaderTradeDelivery")
	event := delivery.CreateElement("ram:ActualDeliverySupplyChainEvent")
	occurrence := event.CreateElement("ram:OccurrenceDateTime")
	dateTime(occurrence, inv.InvoicedAt)
}

func (e *Encoder) buildSettlement(tx *etree.Element, inv *model.Invoice, company *model.CompanyData, allocation *calc.Allocation, totals *calc.Totals) {
	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	text(settlement, "ram:InvoiceCurrencyCode", company.Currency)

	if company.Bank.IBAN != "" {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		text(means, "ram:TypeCode", paymentMeansCreditTransfer)
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		text(account, "ram:IBANID", company.Bank.IBAN)
	}

	for _, entry := range totals.Breakdown {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		text(tax, "ram:CalculatedAmount", money.FormatCents(entry.TaxCents))
		text(tax, "ram:TypeCode", "VAT")
		if entry.ExemptionReason != "" {
			text(tax, "ram:ExemptionReason", entry.ExemptionReason)
		}
		text(tax, "ram:BasisAmount", money.FormatCents(entry.BasisCents))
		text(tax, "ram:CategoryCode", string(entry.CategoryCode))
		text(tax, "ram:RateApplicablePercent", money.FormatRate(entry.TaxPercent))
	}

	for _, allowance := range allocation.Allowances {
		charge := settlement.CreateElement("ram:SpecifiedTradeAllowanceCharge")
		indicator := charge.CreateElement("ram:ChargeIndicator")
		text(indicator, "udt:Indicator", "false")
		text(charge, "ram:ActualAmount", money.FormatCents(allowance.ActualCents))
		text(charge, "ram:Reason", allowance.Reason)
		tax := charge.CreateElement("ram:CategoryTradeTax")
		text(tax, "ram:TypeCode", "VAT")
		text(tax, "ram:CategoryCode", string(allowance.CategoryCode))
		text(tax, "ram:RateApplicablePercent", money.FormatRate(allowance.TaxPercent))
	}

	if !inv.DueAt.IsZero() {
		terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		due := terms.CreateElement("ram:DueDateDateTime")
		dateTime(due, inv.DueAt)
	}

	s := totals.Summation
	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	text(summation, "ram:LineTotalAmount", money.FormatCents(s.LineTotalCents))
	if s.HasAllowances {
		text(summation, "ram:AllowanceTotalAmount", money.FormatCents(s.AllowanceTotalCents))
	}
	text(summation, "ram:TaxBasisTotalAmount", money.FormatCents(s.TaxBasisCents))
	taxTotal := text(summation, "ram:TaxTotalAmount", money.FormatCents(s.TaxCents))
	taxTotal.CreateAttr("currencyID", company.Currency)
	text(summation, "ram:GrandTotalAmount", money.FormatCents(s.GrandCents))
	text(summation, "ram:TotalPrepaidAmount", money.FormatCents(s.PaidCents))
	text(summation, "ram:DuePayableAmount", money.FormatCents(s.DueCents))
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func address(party *etree.Element, street, zip, city, country string) {
	addr := party.CreateElement("ram:PostalTradeAddress")
	text(addr, "ram:PostcodeCode", zip)
	text(addr, "ram:LineOne", street)
	text(addr, "ram:CityName", city)
	text(addr, "ram:CountryID", country)
}

func email(party *etree.Element, addr string) {
	if addr == "" {
		return
	}
	comm := party.CreateElement("ram:URIUniversalCommunication")
	uri := text(comm, "ram:URIID", addr)
	uri.CreateAttr("schemeID", "EM")
}

func dateTime(parent *etree.Element, t time.Time) {
	el := parent.CreateElement("udt:DateTimeString")
	el.CreateAttr("format", "102")
	el.SetText(t.Format(dateFormat102))
}
