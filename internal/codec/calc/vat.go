package calc

import (
	"github.com/fakturio/einvoice/internal/model"
)

// Exemption texts for sellers not charging VAT. Kleinunternehmer refers to
// the German small-business rule of § 19 UStG.
const (
	exemptionKleinunternehmer = "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet."
	exemptionOther            = "Der Rechnungsbetrag ist von der Umsatzsteuer befreit."
)

// VatClassification describes how the seller's VAT status maps onto the
// invoice. ExemptionReason is set only when VAT is disabled; the JSON field
// is absent entirely for VAT-enabled sellers.
type VatClassification struct {
	Disabled        bool   `json:"isVatDisabled"`
	ExemptionReason string `json:"exemptionReason,omitempty"`
}

// ClassifyVat maps a VAT status to its classification. Pure and total:
// unknown statuses are treated as enabled.
func ClassifyVat(status model.VatStatus) VatClassification {
	switch status {
	case model.VatDisabledKleinunternehmer:
		return VatClassification{Disabled: true, ExemptionReason: exemptionKleinunternehmer}
	case model.VatDisabledOther:
		return VatClassification{Disabled: true, ExemptionReason: exemptionOther}
	default:
		return VatClassification{Disabled: false}
	}
}

// CategoryCode selects the EN16931 tax category for a line:
// E when the seller charges no VAT, Z for zero-rated lines, S otherwise.
func CategoryCode(status model.VatStatus, ratePercent float64) model.TaxCategoryCode {
	if ClassifyVat(status).Disabled {
		return model.TaxCategoryExempt
	}
	if ratePercent == 0 {
		return model.TaxCategoryZero
	}
	return model.TaxCategoryStandard
}
