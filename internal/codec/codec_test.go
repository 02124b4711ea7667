package codec_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturio/einvoice/internal/codec"
	"github.com/fakturio/einvoice/internal/model"
)

const ciiSample = `<?xml version="1.0"?>
<rsm:CrossIndustryInvoice xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
    xmlns:ram="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100">
  <rsm:ExchangedDocument><ram:ID>RE-1</ram:ID></rsm:ExchangedDocument>
</rsm:CrossIndustryInvoice>`

const ublSample = `<?xml version="1.0"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
    xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>RE-2</cbc:ID>
</Invoice>`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want model.Format
	}{
		{"cii root", []byte(ciiSample), model.FormatZugferd},
		{"ubl root", []byte(ublSample), model.FormatXRechnung},
		{"unprefixed cii root", []byte(`<CrossIndustryInvoice></CrossIndustryInvoice>`), model.FormatZugferd},
		{"foreign root", []byte(`<Receipt><ID>1</ID></Receipt>`), model.FormatUnknown},
		{"malformed", []byte(`<Invoice><unclosed>`), model.FormatUnknown},
		{"empty", nil, model.FormatUnknown},
		{"not xml", []byte("just some text"), model.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codec.DetectFormat(tt.data))
		})
	}
}

func TestRegistry_Decode_DispatchesByRoot(t *testing.T) {
	registry := codec.NewRegistry()

	cii := registry.Decode([]byte(ciiSample))
	assert.Equal(t, model.FormatZugferd, cii.Format)
	assert.Equal(t, "RE-1", cii.InvoiceNumber)

	ubl := registry.Decode([]byte(ublSample))
	assert.Equal(t, model.FormatXRechnung, ubl.Format)
	assert.Equal(t, "RE-2", ubl.InvoiceNumber)
}

func TestRegistry_Decode_UnknownContent(t *testing.T) {
	registry := codec.NewRegistry()

	for _, data := range [][]byte{
		nil,
		[]byte("not xml at all"),
		[]byte(`<SomethingElse/>`),
	} {
		result := registry.Decode(data)
		require.NotNil(t, result)
		assert.Equal(t, model.FormatUnknown, result.Format)
		assert.Empty(t, result.LineItems)
	}
}

func TestRegistry_GetDecoder(t *testing.T) {
	registry := codec.NewRegistry()

	require.NotNil(t, registry.GetDecoder(model.FormatZugferd))
	assert.Equal(t, model.FormatZugferd, registry.GetDecoder(model.FormatZugferd).Format())
	require.NotNil(t, registry.GetDecoder(model.FormatXRechnung))
	assert.Nil(t, registry.GetDecoder(model.FormatUnknown))
}

type stubDecoder struct{}

func (stubDecoder) CanDecode(root *etree.Element) bool { return root.Tag == "Invoice" }
func (stubDecoder) Decode(root *etree.Element) *model.ExtractedInvoice {
	return &model.ExtractedInvoice{Format: model.FormatXRechnung, Subject: "stub"}
}
func (stubDecoder) Format() model.Format { return model.FormatXRechnung }

func TestRegistry_RegisterDecoder_TakesPriority(t *testing.T) {
	registry := codec.NewRegistry()
	registry.RegisterDecoder(stubDecoder{})

	result := registry.Decode([]byte(ublSample))
	assert.Equal(t, "stub", result.Subject)
}
