package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdeyaOduor/chart-js/internal/models"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,200", 1200},
		{"", 0},
		{"-5", 5},
		{"10", 10},
		{"  $2,500.50  ", 2500.50},
		{"abc", 0},
		{"$", 0},
		{"1,234,567.89", 1234567.89},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceNumber(tt.in), "CoerceNumber(%q)", tt.in)
	}
}

func TestNormalize(t *testing.T) {
	record, err := Normalize(models.RawRow{
		"Date":     "01/01/2026",
		"Product":  "Widget",
		"Quantity": "10",
		"Revenue":  "$1,200",
	})
	require.NoError(t, err)

	assert.True(t, record.Date.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Widget", record.Product)
	assert.Equal(t, 10.0, record.Quantity)
	assert.Equal(t, 1200.0, record.Revenue)
}

func TestNormalize_CaseInsensitiveColumns(t *testing.T) {
	record, err := Normalize(models.RawRow{
		" DATE ":  "2026-03-15",
		"qTy":     "4",
		"AMOUNT":  "80",
		"PRODUCT": "Gadget",
	})
	require.NoError(t, err)

	assert.Equal(t, "Gadget", record.Product)
	assert.Equal(t, 4.0, record.Quantity)
	assert.Equal(t, 80.0, record.Revenue)
}

func TestNormalize_AliasOrder(t *testing.T) {
	// revenue wins over amount and price when more than one is present
	record, err := Normalize(models.RawRow{
		"date":    "2026-01-01",
		"revenue": "100",
		"amount":  "200",
		"price":   "300",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, record.Revenue)

	record, err = Normalize(models.RawRow{
		"date":   "2026-01-01",
		"amount": "200",
		"price":  "300",
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, record.Revenue)
}

func TestNormalize_Defaults(t *testing.T) {
	record, err := Normalize(models.RawRow{
		"date":     "nonsense",
		"product":  "   ",
		"quantity": "oops",
		"revenue":  "",
	})
	require.NoError(t, err)

	assert.True(t, IsSentinel(record.Date))
	assert.Equal(t, "Unknown", record.Product)
	assert.Zero(t, record.Quantity)
	assert.Zero(t, record.Revenue)
}

func TestNormalize_NoRecognizedColumns(t *testing.T) {
	_, err := Normalize(models.RawRow{"color": "red", "weight": "3kg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recognized columns")
}
