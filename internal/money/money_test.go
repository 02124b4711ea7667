package money_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturio/einvoice/internal/money"
)

func TestFromCents(t *testing.T) {
	d := money.FromCents(1190)
	assert.True(t, d.Equal(dec.RequireFromString("11.90")))
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(1190), money.ToCents(dec.RequireFromString("11.90")))
	// Rounds half away from zero
	assert.Equal(t, int64(1191), money.ToCents(dec.RequireFromString("11.905")))
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents    int64
		expected string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1000, "10.00"},
		{1190, "11.90"},
		{-2550, "-25.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, money.FormatCents(tt.cents))
	}
}

func TestParseToCents(t *testing.T) {
	cents, err := money.ParseToCents("11.90")
	require.NoError(t, err)
	assert.Equal(t, int64(1190), cents)

	_, err = money.ParseToCents("not-a-number")
	require.Error(t, err)
}

func TestParseToCentsOrZero(t *testing.T) {
	assert.Equal(t, int64(1190), money.ParseToCentsOrZero("11.90"))
	assert.Equal(t, int64(0), money.ParseToCentsOrZero(""))
	assert.Equal(t, int64(0), money.ParseToCentsOrZero("abc"))
}

func TestLineTotalCents(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice int64
		quantity  string
		expected  int64
	}{
		{"qty 1", 1000, "1", 1000},
		{"qty 2", 500, "2", 1000},
		{"fractional qty", 1000, "1.5", 1500},
		{"fractional cents round", 333, "0.5", 167},
		{"negative price", -500, "1", -500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty := dec.RequireFromString(tt.quantity)
			assert.Equal(t, tt.expected, money.LineTotalCents(tt.unitPrice, qty))
		})
	}
}

func TestTaxCents(t *testing.T) {
	tests := []struct {
		name     string
		basis    int64
		rate     float64
		expected int64
	}{
		{"19% of 10.00", 1000, 19, 190},
		{"7% of 20.00", 2000, 7, 140},
		{"0% of 10.00", 1000, 0, 0},
		{"19% of 0.01 rounds", 1, 19, 0},
		{"19% of 0.03 rounds up", 3, 19, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, money.TaxCents(tt.basis, tt.rate))
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "19.00", money.FormatRate(19))
	assert.Equal(t, "7.00", money.FormatRate(7))
	assert.Equal(t, "0.00", money.FormatRate(0))
}

func TestParseRate(t *testing.T) {
	assert.Equal(t, 19.0, money.ParseRate("19.00"))
	assert.Equal(t, 19.0, money.ParseRate("19"))
	assert.Equal(t, 0.0, money.ParseRate("19%x"))
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(330), money.Sum([]int64{190, 140}))
	assert.Equal(t, int64(0), money.Sum(nil))
}
