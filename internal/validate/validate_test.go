package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/validate"
)

func cleanInvoice() *model.ExtractedInvoice {
	return &model.ExtractedInvoice{
		Format:        model.FormatZugferd,
		InvoiceNumber: "RE-2024-001",
		InvoiceDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		From:          "Acme GmbH",
		LineItems: []model.ExtractedLineItem{
			{Name: "Consulting", Quantity: 1, UnitPriceCents: 1000, TaxPercent: 19, NetCents: 1000, TaxCents: 190, GrossCents: 1190},
		},
		Totals: model.ExtractedTotals{NetCents: 1000, TaxCents: 190, GrossCents: 1190},
	}
}

func TestValidate_CleanInvoice(t *testing.T) {
	results := validate.NewValidator().Validate(cleanInvoice())
	assert.Empty(t, results)
	assert.True(t, validate.IsValid(results))
}

func TestValidate_NilInvoice(t *testing.T) {
	results := validate.NewValidator().Validate(nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.False(t, validate.IsValid(results))
}

func TestValidate_MissingFields(t *testing.T) {
	inv := cleanInvoice()
	inv.InvoiceNumber = ""
	inv.From = ""
	inv.InvoiceDate = time.Unix(0, 0).UTC()

	results := validate.NewValidator().Validate(inv)

	fields := make(map[string]bool)
	for _, r := range results {
		fields[r.Field] = r.IsError
	}
	isError, found := fields["invoiceNumber"]
	assert.True(t, found)
	assert.True(t, isError)
	isError, found = fields["invoiceDate"]
	assert.True(t, found)
	assert.False(t, isError)
	isError, found = fields["from"]
	assert.True(t, found)
	assert.False(t, isError)

	// number is a hard error, date and seller are warnings
	assert.Len(t, validate.Errors(results), 1)
	assert.False(t, validate.IsValid(results))
}

func TestValidate_UnknownFormat(t *testing.T) {
	inv := &model.ExtractedInvoice{Format: model.FormatUnknown}
	results := validate.NewValidator().Validate(inv)
	assert.False(t, validate.IsValid(results))
}

func TestValidate_TotalsMismatch(t *testing.T) {
	inv := cleanInvoice()
	inv.Totals.GrossCents = 1200

	results := validate.NewValidator().Validate(inv)
	assert.False(t, validate.IsValid(results))
}

func TestValidate_LineSumMismatch(t *testing.T) {
	inv := cleanInvoice()
	inv.LineItems = append(inv.LineItems, model.ExtractedLineItem{
		Name: "Extra", NetCents: 500, TaxCents: 95, GrossCents: 595,
	})

	results := validate.NewValidator().Validate(inv)
	assert.False(t, validate.IsValid(results))
}

func TestValidate_LineInternalMismatchIsWarning(t *testing.T) {
	inv := cleanInvoice()
	inv.LineItems[0].TaxCents = 189
	inv.LineItems[0].GrossCents = 1190
	inv.Totals.TaxCents = 189
	inv.Totals.GrossCents = 1189

	results := validate.NewValidator().Validate(inv)
	require.NotEmpty(t, results)
	for _, r := range results {
		if r.Field == "lineItems" {
			assert.False(t, r.IsError)
		}
	}
}

func TestValidate_EmptyInvoiceNoData(t *testing.T) {
	inv := &model.ExtractedInvoice{Format: model.FormatXRechnung, InvoiceNumber: "X"}
	results := validate.NewValidator().Validate(inv)
	assert.False(t, validate.IsValid(results))
}
