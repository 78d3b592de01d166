package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AdeyaOduor/chart-js/internal/models"
)

const unknownProduct = "Unknown"

// Accepted column names per canonical field, in lookup order. Lookup is
// case-insensitive on trimmed header names.
var (
	dateAliases     = []string{"date"}
	productAliases  = []string{"product"}
	quantityAliases = []string{"quantity", "qty"}
	revenueAliases  = []string{"revenue", "amount", "price"}
)

var numberCleaner = strings.NewReplacer("$", "", ",", "")

// CoerceNumber converts free-form text to a non-negative number. Currency
// symbols, thousands separators, and surrounding whitespace are stripped;
// empty or unparseable input degrades to 0 and negative values are taken as
// their absolute value. It never fails.
func CoerceNumber(text string) float64 {
	s := strings.TrimSpace(numberCleaner.Replace(text))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return math.Abs(v)
}

// Normalize maps one raw row into a canonical sales record. It only errors
// when the row carries none of the recognized columns at all; individual
// unparseable values degrade to their field defaults instead.
func Normalize(row models.RawRow) (models.SalesRecord, error) {
	lookup := make(map[string]string, len(row))
	for name, value := range row {
		lookup[strings.ToLower(strings.TrimSpace(name))] = value
	}

	date, dateOK := firstPresent(lookup, dateAliases)
	product, productOK := firstPresent(lookup, productAliases)
	quantity, quantityOK := firstPresent(lookup, quantityAliases)
	revenue, revenueOK := firstPresent(lookup, revenueAliases)

	if !dateOK && !productOK && !quantityOK && !revenueOK {
		return models.SalesRecord{}, fmt.Errorf("no recognized columns (want date, product, quantity/qty, revenue/amount/price)")
	}

	if strings.TrimSpace(product) == "" {
		product = unknownProduct
	}

	return models.SalesRecord{
		Date:     ParseDate(date, FallbackEpoch),
		Product:  product,
		Quantity: CoerceNumber(quantity),
		Revenue:  CoerceNumber(revenue),
	}, nil
}

func firstPresent(lookup map[string]string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if value, ok := lookup[alias]; ok {
			return value, true
		}
	}
	return "", false
}
