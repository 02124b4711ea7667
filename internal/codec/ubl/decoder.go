package ubl

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/fakturio/einvoice/internal/codec/calc"
	"github.com/fakturio/einvoice/internal/codec/xmltree"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
)

// Decoder parses UBL (XRechnung) documents back into the canonical
// structure.
type Decoder struct{}

// NewDecoder creates an XRechnung decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Format returns the dialect this decoder handles
func (d *Decoder) Format() model.Format {
	return model.FormatXRechnung
}

// CanDecode reports whether the root element is a UBL invoice
func (d *Decoder) CanDecode(root *etree.Element) bool {
	return root != nil && root.Tag == "Invoice"
}

// Decode extracts line items, header allowances, totals, and document
// metadata from a UBL tree. Missing fields become zero values.
func (d *Decoder) Decode(root *etree.Element) *model.ExtractedInvoice {
	result := &model.ExtractedInvoice{Format: model.FormatXRechnung}

	result.InvoiceNumber = xmltree.Text(root, "ID")
	result.InvoiceDate = xmltree.ParseDate(xmltree.Text(root, "IssueDate"))
	result.Subject = xmltree.Text(root, "Note")
	result.From = xmltree.FirstText(root,
		"AccountingSupplierParty.Party.PartyName.Name",
		"AccountingSupplierParty.Party.PartyLegalEntity.RegistrationName",
	)

	lines := d.decodeLines(root)
	allowances := d.decodeAllowances(root)
	lines = calc.MergeExtractedLines(lines, allowances)
	result.LineItems = lines

	if len(lines) > 0 {
		for _, line := range lines {
			result.Totals.NetCents += line.NetCents
			result.Totals.TaxCents += line.TaxCents
			result.Totals.GrossCents += line.GrossCents
		}
	} else {
		total := xmltree.First(root, "LegalMonetaryTotal")
		result.Totals.NetCents = money.ParseToCentsOrZero(xmltree.Text(total, "TaxExclusiveAmount"))
		result.Totals.TaxCents = money.ParseToCentsOrZero(xmltree.Text(root, "TaxTotal.TaxAmount"))
		result.Totals.GrossCents = money.ParseToCentsOrZero(xmltree.Text(total, "TaxInclusiveAmount"))
	}

	return result
}

func (d *Decoder) decodeLines(root *etree.Element) []model.ExtractedLineItem {
	// The aggregate subtotal percent backs lines that omit their own rate
	fallbackRate := money.ParseRate(xmltree.Text(root, "TaxTotal.TaxSubtotal.TaxCategory.Percent"))

	var items []model.ExtractedLineItem
	for _, li := range xmltree.All(root, "InvoiceLine") {
		name := xmltree.FirstText(li, "Item.Name", "Item.Description")
		quantity := money.ParseQuantity(xmltree.Text(li, "InvoicedQuantity"))
		netCents := money.ParseToCentsOrZero(xmltree.Text(li, "LineExtensionAmount"))

		rate := fallbackRate
		if s := xmltree.Text(li, "Item.ClassifiedTaxCategory.Percent"); s != "" {
			rate = money.ParseRate(s)
		}
		taxCents := money.TaxCents(netCents, rate)

		items = append(items, model.ExtractedLineItem{
			Name:           name,
			UnitPriceCents: money.UnitPriceCents(netCents, quantity),
			Quantity:       quantity,
			TaxPercent:     rate,
			NetCents:       netCents,
			TaxCents:       taxCents,
			GrossCents:     netCents + taxCents,
		})
	}
	return items
}

func (d *Decoder) decodeAllowances(root *etree.Element) []calc.DecodedAllowance {
	var allowances []calc.DecodedAllowance
	for _, charge := range xmltree.All(root, "AllowanceCharge") {
		if strings.EqualFold(xmltree.Text(charge, "ChargeIndicator"), "true") {
			continue
		}
		allowances = append(allowances, calc.DecodedAllowance{
			Reason:      xmltree.Text(charge, "AllowanceChargeReason"),
			ActualCents: money.ParseToCentsOrZero(xmltree.Text(charge, "Amount")),
			TaxPercent:  money.ParseRate(xmltree.Text(charge, "TaxCategory.Percent")),
		})
	}
	return allowances
}
