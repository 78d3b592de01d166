package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AdeyaOduor/chart-js/internal/errors"
	"github.com/AdeyaOduor/chart-js/internal/models"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "test*.csv")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString(content)
	require.NoError(t, err)
	return f.Name()
}

func TestCompute_EmptyInput(t *testing.T) {
	result := Compute(nil)
	require.NotNil(t, result)

	assert.Zero(t, result.TotalQuantity)
	assert.Zero(t, result.AvgQuantity)
	assert.Zero(t, result.AvgPricePerUnit)
	assert.Zero(t, result.MinQuantity)
	assert.Zero(t, result.MaxQuantity)
	assert.Nil(t, result.DateRange.Start)
	assert.Nil(t, result.DateRange.End)
	assert.Empty(t, result.DailyStats)
	assert.Empty(t, result.TopProducts)
	assert.Empty(t, result.MovingAverage)
}

func TestCompute_Totals(t *testing.T) {
	records := []models.SalesRecord{
		{Date: day(2026, time.January, 2), Product: "B", Quantity: 20, Revenue: 400},
		{Date: day(2026, time.January, 1), Product: "A", Quantity: 10, Revenue: 100},
		{Date: day(2026, time.January, 3), Product: "A", Quantity: 30, Revenue: 900},
	}

	result := Compute(records)

	assert.Equal(t, 60.0, result.TotalQuantity)
	assert.Equal(t, 1400.0, result.TotalRevenue)
	assert.Equal(t, 20.0, result.AvgQuantity)
	assert.InDelta(t, 466.666, result.AvgRevenue, 0.001)
	assert.InDelta(t, 1400.0/60.0, result.AvgPricePerUnit, 1e-9)
	assert.Equal(t, 10.0, result.MinQuantity)
	assert.Equal(t, 30.0, result.MaxQuantity)

	// Input was unsorted; buckets come out date-ascending anyway.
	require.Len(t, result.DailyStats, 3)
	assert.Equal(t, "Jan 1, 2026", result.DailyStats[0].Date)
	assert.Equal(t, "Jan 3, 2026", result.DailyStats[2].Date)

	assert.Equal(t, models.Summary{Records: 3, Products: 2, Days: 3}, result.Summary)
}

func TestCompute_MovingAverageEdgeBias(t *testing.T) {
	// Quantities 10, 20, 30 over three days. Edge points always divide by 3
	// with missing neighbors contributing 0, so the first and last points
	// are biased downward.
	records := []models.SalesRecord{
		{Date: day(2026, time.January, 1), Product: "A", Quantity: 10},
		{Date: day(2026, time.January, 2), Product: "A", Quantity: 20},
		{Date: day(2026, time.January, 3), Product: "A", Quantity: 30},
	}

	result := Compute(records)
	require.Len(t, result.MovingAverage, 3)

	assert.InDelta(t, 10.0, result.MovingAverage[0].AverageQuantity, 1e-9)
	assert.InDelta(t, 20.0, result.MovingAverage[1].AverageQuantity, 1e-9)
	assert.InDelta(t, 50.0/3.0, result.MovingAverage[2].AverageQuantity, 1e-9)

	assert.Equal(t, len(result.DailyStats), len(result.MovingAverage))
}

func TestCompute_TopProducts(t *testing.T) {
	var records []models.SalesRecord
	for i := 1; i <= 12; i++ {
		records = append(records, models.SalesRecord{
			Date:     day(2026, time.January, i),
			Product:  fmt.Sprintf("P%02d", i),
			Quantity: 2,
			Revenue:  float64(i * 100),
		})
	}

	result := Compute(records)
	require.Len(t, result.TopProducts, 10)

	assert.Equal(t, "P12", result.TopProducts[0].Product)
	for i := 1; i < len(result.TopProducts); i++ {
		assert.GreaterOrEqual(t, result.TopProducts[i-1].RevenueSum, result.TopProducts[i].RevenueSum)
	}
	assert.Equal(t, 600.0, result.TopProducts[0].AvgRevenuePerUnit)
}

func TestCompute_TopProductsZeroQuantity(t *testing.T) {
	records := []models.SalesRecord{
		{Date: day(2026, time.January, 1), Product: "Freebie", Quantity: 0, Revenue: 50},
	}

	result := Compute(records)
	require.Len(t, result.TopProducts, 1)
	assert.Zero(t, result.TopProducts[0].AvgRevenuePerUnit)
	assert.Zero(t, result.AvgPricePerUnit)
}

func TestCompute_DateRangeExcludesSentinel(t *testing.T) {
	records := []models.SalesRecord{
		{Date: SentinelDate, Product: "A", Quantity: 1, Revenue: 10},
		{Date: day(2026, time.March, 5), Product: "A", Quantity: 2, Revenue: 20},
		{Date: day(2026, time.January, 9), Product: "A", Quantity: 3, Revenue: 30},
	}

	result := Compute(records)

	require.NotNil(t, result.DateRange.Start)
	require.NotNil(t, result.DateRange.End)
	assert.True(t, result.DateRange.Start.Equal(day(2026, time.January, 9)))
	assert.True(t, result.DateRange.End.Equal(day(2026, time.March, 5)))

	// The sentinel record still counts toward totals and buckets.
	assert.Equal(t, 6.0, result.TotalQuantity)
	assert.Equal(t, models.Summary{Records: 3, Products: 1, Days: 3}, result.Summary)
}

func TestCompute_DateRangePreEpochDates(t *testing.T) {
	// Pre-epoch dates are legal (rule 1 parses any 4-digit year) and sort
	// before the sentinel, so neither end of the range may be read
	// positionally from the sorted slice.
	records := []models.SalesRecord{
		{Date: SentinelDate, Product: "A", Quantity: 1, Revenue: 10},
		{Date: day(1969, time.May, 1), Product: "A", Quantity: 2, Revenue: 20},
		{Date: day(1969, time.June, 1), Product: "A", Quantity: 3, Revenue: 30},
	}

	result := Compute(records)

	require.NotNil(t, result.DateRange.Start)
	require.NotNil(t, result.DateRange.End)
	assert.True(t, result.DateRange.Start.Equal(day(1969, time.May, 1)))
	assert.True(t, result.DateRange.End.Equal(day(1969, time.June, 1)),
		"end = %v, want the June 1969 record, not the sentinel", result.DateRange.End)
}

func TestCompute_DateRangeAllSentinel(t *testing.T) {
	records := []models.SalesRecord{
		{Date: SentinelDate, Product: "A", Quantity: 1, Revenue: 10},
	}

	result := Compute(records)
	assert.Nil(t, result.DateRange.Start)
	assert.Nil(t, result.DateRange.End)
}

func TestComputeWithOptions(t *testing.T) {
	var records []models.SalesRecord
	for i := 1; i <= 5; i++ {
		records = append(records, models.SalesRecord{
			Date:     day(2026, time.January, i),
			Product:  fmt.Sprintf("P%d", i),
			Quantity: float64(i * 10),
			Revenue:  float64(i * 100),
		})
	}

	result := ComputeWithOptions(records, Options{TopProducts: 3, MovingAverageWindow: 5})

	require.Len(t, result.TopProducts, 3)
	assert.Equal(t, "P5", result.TopProducts[0].Product)

	// Window 5 over daily quantities 10..50: edges still divide by the
	// full window.
	require.Len(t, result.MovingAverage, 5)
	assert.InDelta(t, 60.0/5.0, result.MovingAverage[0].AverageQuantity, 1e-9)
	assert.InDelta(t, 150.0/5.0, result.MovingAverage[2].AverageQuantity, 1e-9)
	assert.InDelta(t, 120.0/5.0, result.MovingAverage[4].AverageQuantity, 1e-9)
}

func TestOptions_WithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, 10, opts.TopProducts)
	assert.Equal(t, 3, opts.MovingAverageWindow)

	// Centered windows must be odd.
	opts = Options{MovingAverageWindow: 4}.withDefaults()
	assert.Equal(t, 5, opts.MovingAverageWindow)
}

func TestProcessRows_EndToEnd(t *testing.T) {
	a := NewAnalytics()

	rows := []models.RawRow{
		{"Date": "01/01/2026", "Quantity": "10", "Revenue": "1200"},
		{"Date": "01/02/2026", "Quantity": "15", "Revenue": "1800"},
	}

	result, err := a.ProcessRows(context.Background(), "batch-1", rows)
	require.NoError(t, err)

	assert.Equal(t, 25.0, result.TotalQuantity)
	assert.Equal(t, 3000.0, result.TotalRevenue)
	assert.Equal(t, 2, result.Summary.Records)
	require.Len(t, result.DailyStats, 2)

	// Day-first parsing: 01/02/2026 is February 1st.
	require.NotNil(t, result.DateRange.Start)
	assert.True(t, result.DateRange.Start.Equal(day(2026, time.January, 1)))
	assert.True(t, result.DateRange.End.Equal(day(2026, time.February, 1)))

	// Products default to Unknown when the column is absent.
	require.Len(t, result.TopProducts, 1)
	assert.Equal(t, "Unknown", result.TopProducts[0].Product)

	assert.Equal(t, "batch-1", result.BatchID)
	assert.Same(t, result, a.Snapshot())
}

func TestProcessRows_SkipsBadRowsWithWarnings(t *testing.T) {
	a := NewAnalytics()

	rows := []models.RawRow{
		{"Date": "2026-01-01", "Quantity": "10", "Revenue": "100"},
		{"color": "red"},
		{"Date": "2026-01-02", "Quantity": "5", "Revenue": "50"},
	}

	result, err := a.ProcessRows(context.Background(), "batch-2", rows)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Records)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 2, result.Warnings[0].Row)
	assert.Contains(t, result.Warnings[0].Message, "no recognized columns")
}

func TestProcessRows_EmptyBatchRejected(t *testing.T) {
	a := NewAnalytics()

	_, err := a.ProcessRows(context.Background(), "batch-3", nil)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeEmptyInput, appErr.Code)

	_, err = a.ProcessRows(context.Background(), "batch-4", []models.RawRow{{"color": "red"}})
	require.Error(t, err)
	appErr, ok = err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeEmptyInput, appErr.Code)
}

func TestLoadFromFile(t *testing.T) {
	path := createTempCSV(t, "Date,Product,Quantity,Revenue\n2026-01-01,Widget,10,1200\n2026-01-02,Gadget,5,300\n")

	a := NewAnalytics()
	require.NoError(t, a.LoadFromFile(context.Background(), path))

	snapshot := a.Snapshot()
	assert.Equal(t, 15.0, snapshot.TotalQuantity)
	assert.Equal(t, 2, snapshot.Summary.Products)
	assert.Len(t, a.DailyStats(), 2)
	assert.Len(t, a.MovingAverage(), 2)
}

func TestLoadFromFile_HeaderOnly(t *testing.T) {
	path := createTempCSV(t, "Date,Quantity,Revenue\n")

	a := NewAnalytics()
	err := a.LoadFromFile(context.Background(), path)
	require.Error(t, err)
}

func TestSetRecords(t *testing.T) {
	a := NewAnalytics()
	a.SetRecords([]models.SalesRecord{
		{Date: day(2026, time.January, 1), Product: "A", Quantity: 3, Revenue: 60},
	})

	stats := a.Stats()
	assert.Equal(t, int64(1), stats["record_count"])
	assert.Equal(t, 1, stats["days"])
}
