package calc

import (
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
)

// TaxBreakdownEntry is one VAT breakdown row, keyed by (category, rate).
type TaxBreakdownEntry struct {
	CategoryCode    model.TaxCategoryCode
	TaxPercent      float64
	BasisCents      int64
	TaxCents        int64
	ExemptionReason string
}

// MonetarySummation is the document-level amount block of either dialect.
type MonetarySummation struct {
	LineTotalCents      int64
	AllowanceTotalCents int64
	HasAllowances       bool
	TaxBasisCents       int64
	TaxCents            int64
	GrandCents          int64
	PaidCents           int64
	DueCents            int64
	// RoundingCents is reserved for cash-rounding rules; currently always 0.
	RoundingCents int64
}

// Totals holds the per-group tax amounts and the monetary summation.
type Totals struct {
	Breakdown []TaxBreakdownEntry
	Summation MonetarySummation
}

// ComputeTotals derives the VAT breakdown and monetary summation from an
// allocation. Per group: tax = round2(basis x rate / 100). The tax basis is
// line net minus allowance net; grand total is basis plus tax.
func ComputeTotals(a *Allocation, paidCents int64, vc VatClassification) *Totals {
	t := &Totals{}

	var taxTotal int64
	for _, key := range a.GroupKeys {
		group := a.TaxGroups[key]
		taxCents := money.TaxCents(group.NetCents, group.TaxPercent)
		entry := TaxBreakdownEntry{
			CategoryCode: group.CategoryCode,
			TaxPercent:   group.TaxPercent,
			BasisCents:   group.NetCents,
			TaxCents:     taxCents,
		}
		if vc.Disabled {
			entry.ExemptionReason = vc.ExemptionReason
		}
		t.Breakdown = append(t.Breakdown, entry)
		taxTotal += taxCents
	}

	taxBasis := a.LineNetCents - a.AllowanceNetCents
	grand := taxBasis + taxTotal

	t.Summation = MonetarySummation{
		LineTotalCents:      a.LineNetCents,
		AllowanceTotalCents: a.AllowanceNetCents,
		HasAllowances:       len(a.Allowances) > 0,
		TaxBasisCents:       taxBasis,
		TaxCents:            taxTotal,
		GrandCents:          grand,
		PaidCents:           paidCents,
		DueCents:            grand - paidCents,
	}
	return t
}
