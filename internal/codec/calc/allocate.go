package calc

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
)

// DefaultAllowanceReason is used when a negative item carries no name.
const DefaultAllowanceReason = "Discount"

// EncodedLine is an invoice position ready for XML rendering.
type EncodedLine struct {
	ID             string
	Name           string
	Description    string
	Quantity       decimal.Decimal
	UnitPriceCents int64
	NetCents       int64
	TaxCents       int64
	GrossCents     int64
	CategoryCode   model.TaxCategoryCode
	TaxPercent     float64
}

// Allowance is a document-level discount with a positive magnitude.
type Allowance struct {
	Reason       string
	ActualCents  int64
	CategoryCode model.TaxCategoryCode
	TaxPercent   float64
}

// TaxGroup accumulates net amounts per (category code, rate) pair.
type TaxGroup struct {
	CategoryCode model.TaxCategoryCode
	TaxPercent   float64
	NetCents     int64
}

// Allocation is the line allocator's output: positive positions, document
// allowances, and per-group running totals.
type Allocation struct {
	Lines             []EncodedLine
	Allowances        []Allowance
	TaxGroups         map[string]*TaxGroup
	GroupKeys         []string
	LineNetCents      int64
	AllowanceNetCents int64
}

// TaxKey builds the grouping key for a (category code, rate) pair.
func TaxKey(code model.TaxCategoryCode, ratePercent float64) string {
	return string(code) + "_" + strconv.FormatFloat(ratePercent, 'f', -1, 64)
}

// AllocateLines splits invoice items into positive lines and negative
// document-level allowances. Every element lands in exactly one tax group;
// allowances subtract from their group's running net.
func AllocateLines(items []model.InvoiceItem, status model.VatStatus) *Allocation {
	a := &Allocation{
		TaxGroups: make(map[string]*TaxGroup),
	}

	for i, item := range items {
		totalCents := money.LineTotalCents(item.UnitPriceCents, item.Quantity)
		code := CategoryCode(status, item.TaxPercent)
		group := a.group(code, item.TaxPercent)

		if totalCents < 0 {
			reason := item.Name
			if reason == "" {
				reason = DefaultAllowanceReason
			}
			magnitude := -totalCents
			a.Allowances = append(a.Allowances, Allowance{
				Reason:       reason,
				ActualCents:  magnitude,
				CategoryCode: code,
				TaxPercent:   item.TaxPercent,
			})
			group.NetCents -= magnitude
			a.AllowanceNetCents += magnitude
			continue
		}

		id := item.Position
		if id == 0 {
			id = i + 1
		}
		taxCents := money.TaxCents(totalCents, item.TaxPercent)
		a.Lines = append(a.Lines, EncodedLine{
			ID:             strconv.Itoa(id),
			Name:           item.Name,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			NetCents:       totalCents,
			TaxCents:       taxCents,
			GrossCents:     totalCents + taxCents,
			CategoryCode:   code,
			TaxPercent:     item.TaxPercent,
		})
		group.NetCents += totalCents
		a.LineNetCents += totalCents
	}

	return a
}

func (a *Allocation) group(code model.TaxCategoryCode, ratePercent float64) *TaxGroup {
	key := TaxKey(code, ratePercent)
	if g, ok := a.TaxGroups[key]; ok {
		return g
	}
	g := &TaxGroup{CategoryCode: code, TaxPercent: ratePercent}
	a.TaxGroups[key] = g
	a.GroupKeys = append(a.GroupKeys, key)
	return g
}

// needsMerge reports whether the merge-on-allowance policy applies:
// at least one line and at least one allowance.
func (a *Allocation) needsMerge() bool {
	return len(a.Lines) > 0 && len(a.Allowances) > 0
}

// Merged applies the merge-on-allowance policy: all lines and allowances
// collapse into a single combined line. Names are joined with ", ", amounts
// are summed, and the unit price and rate come from the first line. The
// downstream invoice consumer cannot attach a price per item, so documents
// carrying an allowance are flattened on both the encode and decode side.
func (a *Allocation) Merged() *Allocation {
	if !a.needsMerge() {
		return a
	}

	first := a.Lines[0]

	names := make([]string, 0, len(a.Lines)+len(a.Allowances))
	var netCents, taxCents int64
	for _, line := range a.Lines {
		names = append(names, line.Name)
		netCents += line.NetCents
		taxCents += line.TaxCents
	}
	for _, allowance := range a.Allowances {
		names = append(names, allowance.Reason)
		netCents -= allowance.ActualCents
		taxCents -= money.TaxCents(allowance.ActualCents, allowance.TaxPercent)
	}

	combined := EncodedLine{
		ID:             "1",
		Name:           strings.Join(names, ", "),
		Quantity:       decimal.NewFromInt(1),
		UnitPriceCents: netCents,
		NetCents:       netCents,
		TaxCents:       taxCents,
		GrossCents:     netCents + taxCents,
		CategoryCode:   first.CategoryCode,
		TaxPercent:     first.TaxPercent,
	}

	merged := &Allocation{
		Lines:        []EncodedLine{combined},
		TaxGroups:    make(map[string]*TaxGroup),
		LineNetCents: netCents,
	}
	key := TaxKey(combined.CategoryCode, combined.TaxPercent)
	merged.TaxGroups[key] = &TaxGroup{
		CategoryCode: combined.CategoryCode,
		TaxPercent:   combined.TaxPercent,
		NetCents:     netCents,
	}
	merged.GroupKeys = []string{key}
	return merged
}
