package xmltree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturio/einvoice/internal/codec/xmltree"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<rsm:CrossIndustryInvoice xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
    xmlns:ram="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100">
  <rsm:ExchangedDocument>
    <ram:ID>RE-100</ram:ID>
    <ram:IncludedNote>
      <ram:Content> Thank you </ram:Content>
    </ram:IncludedNote>
  </rsm:ExchangedDocument>
  <rsm:SupplyChainTradeTransaction>
    <ram:IncludedSupplyChainTradeLineItem>
      <ram:LineID>1</ram:LineID>
    </ram:IncludedSupplyChainTradeLineItem>
    <ram:IncludedSupplyChainTradeLineItem>
      <ram:LineID>2</ram:LineID>
    </ram:IncludedSupplyChainTradeLineItem>
    <ram:Amount currencyID="EUR">11.90</ram:Amount>
  </rsm:SupplyChainTradeTransaction>
</rsm:CrossIndustryInvoice>`

func TestParse(t *testing.T) {
	root := xmltree.Parse([]byte(sample))
	require.NotNil(t, root)
	assert.Equal(t, "CrossIndustryInvoice", root.Tag)
}

func TestParse_Defensive(t *testing.T) {
	assert.Nil(t, xmltree.Parse(nil))
	assert.Nil(t, xmltree.Parse([]byte{}))
	assert.Nil(t, xmltree.Parse([]byte("not xml at all <<<")))
}

func TestFirst_IgnoresNamespacePrefix(t *testing.T) {
	root := xmltree.Parse([]byte(sample))

	doc := xmltree.First(root, "ExchangedDocument")
	require.NotNil(t, doc)

	// First matching candidate wins
	el := xmltree.First(root, "NoSuchElement", "SupplyChainTradeTransaction")
	require.NotNil(t, el)
	assert.Equal(t, "SupplyChainTradeTransaction", el.Tag)

	assert.Nil(t, xmltree.First(nil, "ExchangedDocument"))
	assert.Nil(t, xmltree.First(root, "Missing"))
}

func TestAll(t *testing.T) {
	root := xmltree.Parse([]byte(sample))
	tx := xmltree.First(root, "SupplyChainTradeTransaction")

	lines := xmltree.All(tx, "IncludedSupplyChainTradeLineItem")
	assert.Len(t, lines, 2)

	assert.Nil(t, xmltree.All(nil, "IncludedSupplyChainTradeLineItem"))
	assert.Empty(t, xmltree.All(tx, "Missing"))
}

func TestText_DottedPath(t *testing.T) {
	root := xmltree.Parse([]byte(sample))

	assert.Equal(t, "RE-100", xmltree.Text(root, "ExchangedDocument.ID"))
	// Trims surrounding whitespace
	assert.Equal(t, "Thank you", xmltree.Text(root, "ExchangedDocument.IncludedNote.Content"))
	// Missing step yields empty string
	assert.Equal(t, "", xmltree.Text(root, "ExchangedDocument.Missing.Content"))
	assert.Equal(t, "", xmltree.Text(nil, "ExchangedDocument.ID"))
}

func TestFirstText(t *testing.T) {
	root := xmltree.Parse([]byte(sample))

	got := xmltree.FirstText(root, "ExchangedDocument.Missing", "ExchangedDocument.ID")
	assert.Equal(t, "RE-100", got)

	assert.Equal(t, "", xmltree.FirstText(root, "Missing", "AlsoMissing"))
}

func TestAttr(t *testing.T) {
	root := xmltree.Parse([]byte(sample))

	got := xmltree.Attr(root, "SupplyChainTradeTransaction.Amount", "currencyID")
	assert.Equal(t, "EUR", got)

	assert.Equal(t, "", xmltree.Attr(root, "SupplyChainTradeTransaction.Amount", "missing"))
	assert.Equal(t, "", xmltree.Attr(root, "Missing", "currencyID"))
}
