package cii

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/fakturio/einvoice/internal/codec/calc"
	"github.com/fakturio/einvoice/internal/codec/xmltree"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
)

// Decoder parses CII (ZUGFeRD) documents back into the canonical structure.
// It is defensive throughout: missing or malformed fields become zero values.
type Decoder struct{}

// NewDecoder creates a ZUGFeRD decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Format returns the dialect this decoder handles
func (d *Decoder) Format() model.Format {
	return model.FormatZugferd
}

// CanDecode reports whether the root element is a CII invoice
func (d *Decoder) CanDecode(root *etree.Element) bool {
	return root != nil && root.Tag == "CrossIndustryInvoice"
}

// Decode extracts line items, header allowances, totals, and document
// metadata from a CII tree.
func (d *Decoder) Decode(root *etree.Element) *model.ExtractedInvoice {
	result := &model.ExtractedInvoice{Format: model.FormatZugferd}

	header := xmltree.First(root, "ExchangedDocument")
	result.InvoiceNumber = xmltree.Text(header, "ID")
	result.InvoiceDate = xmltree.ParseDate(xmltree.Text(header, "IssueDateTime.DateTimeString"))
	result.Subject = xmltree.Text(header, "IncludedNote.Content")

	tx := xmltree.First(root, "SupplyChainTradeTransaction")
	result.From = xmltree.Text(tx, "ApplicableHeaderTradeAgreement.SellerTradeParty.Name")

	lines := d.decodeLines(tx)
	allowances := d.decodeAllowances(tx)
	lines = calc.MergeExtractedLines(lines, allowances)
	result.LineItems = lines

	if len(lines) > 0 {
		for _, line := range lines {
			result.Totals.NetCents += line.NetCents
			result.Totals.TaxCents += line.TaxCents
			result.Totals.GrossCents += line.GrossCents
		}
	} else {
		summation := xmltree.Walk(tx, "ApplicableHeaderTradeSettlement.SpecifiedTradeSettlementHeaderMonetarySummation")
		result.Totals.NetCents = money.ParseToCentsOrZero(xmltree.Text(summation, "TaxBasisTotalAmount"))
		result.Totals.TaxCents = money.ParseToCentsOrZero(xmltree.Text(summation, "TaxTotalAmount"))
		result.Totals.GrossCents = money.ParseToCentsOrZero(xmltree.Text(summation, "GrandTotalAmount"))
	}

	return result
}

func (d *Decoder) decodeLines(tx *etree.Element) []model.ExtractedLineItem {
	var items []model.ExtractedLineItem
	for _, li := range xmltree.All(tx, "IncludedSupplyChainTradeLineItem") {
		name := xmltree.Text(li, "SpecifiedTradeProduct.Name")
		quantity := money.ParseQuantity(xmltree.Text(li, "SpecifiedLineTradeDelivery.BilledQuantity"))

		settlement := xmltree.First(li, "SpecifiedLineTradeSettlement")
		netCents := money.ParseToCentsOrZero(xmltree.Text(settlement, "SpecifiedTradeSettlementLineMonetarySummation.LineTotalAmount"))
		if netCents == 0 {
			// The net trade price carries the line total in this mapping
			netCents = money.ParseToCentsOrZero(xmltree.Text(li, "SpecifiedLineTradeAgreement.NetPriceProductTradePrice.ChargeAmount"))
		}
		rate := money.ParseRate(xmltree.Text(settlement, "ApplicableTradeTax.RateApplicablePercent"))
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

func (d *Decoder) decodeAllowances(tx *etree.Element) []calc.DecodedAllowance {
	settlement := xmltree.Walk(tx, "ApplicableHeaderTradeSettlement")

	var allowances []calc.DecodedAllowance
	for _, charge := range xmltree.All(settlement, "SpecifiedTradeAllowanceCharge") {
		// ChargeIndicator true means a surcharge, not an allowance
		if strings.EqualFold(xmltree.Text(charge, "ChargeIndicator.Indicator"), "true") {
			continue
		}
		allowances = append(allowances, calc.DecodedAllowance{
			Reason:      xmltree.Text(charge, "Reason"),
			ActualCents: money.ParseToCentsOrZero(xmltree.Text(charge, "ActualAmount")),
			TaxPercent:  money.ParseRate(xmltree.Text(charge, "CategoryTradeTax.RateApplicablePercent")),
		})
	}
	return allowances
}
