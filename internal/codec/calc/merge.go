package calc

import (
	"strings"

	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/money"
)

// DecodedAllowance is a header-level allowance found while decoding.
type DecodedAllowance struct {
	Reason      string
	ActualCents int64
	TaxPercent  float64
}

// MergeExtractedLines mirrors Allocation.Merged on the decode side: when a
// document carries both lines and allowances they collapse into a single
// combined item, keeping decode(encode(x)) symmetric. Names join with ", ",
// amounts sum, and the rate comes from the first line.
func MergeExtractedLines(lines []model.ExtractedLineItem, allowances []DecodedAllowance) []model.ExtractedLineItem {
	if len(lines) == 0 || len(allowances) == 0 {
		return lines
	}

	first := lines[0]
	names := make([]string, 0, len(lines)+len(allowances))
	var netCents, taxCents int64
	for _, line := range lines {
		names = append(names, line.Name)
		netCents += line.NetCents
		taxCents += line.TaxCents
	}
	for _, allowance := range allowances {
		names = append(names, allowance.Reason)
		netCents -= allowance.ActualCents
		taxCents -= money.TaxCents(allowance.ActualCents, allowance.TaxPercent)
	}

	return []model.ExtractedLineItem{{
		Name:           strings.Join(names, ", "),
		UnitPriceCents: netCents,
		Quantity:       1,
		TaxPercent:     first.TaxPercent,
		NetCents:       netCents,
		TaxCents:       taxCents,
		GrossCents:     netCents + taxCents,
	}}
}
