package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/AdeyaOduor/chart-js/internal/errors"
	"github.com/AdeyaOduor/chart-js/internal/ingest"
	"github.com/AdeyaOduor/chart-js/internal/models"
	"github.com/AdeyaOduor/chart-js/internal/observability"
)

const (
	maxWorkers                 = 10
	defaultTopProducts         = 10
	defaultMovingAverageWindow = 3
)

// Options tunes the derived analytics. Zero values fall back to the
// defaults; the moving-average window is centered and therefore forced odd.
type Options struct {
	TopProducts         int
	MovingAverageWindow int
}

func DefaultOptions() Options {
	return Options{
		TopProducts:         defaultTopProducts,
		MovingAverageWindow: defaultMovingAverageWindow,
	}
}

func (o Options) withDefaults() Options {
	if o.TopProducts <= 0 {
		o.TopProducts = defaultTopProducts
	}
	if o.MovingAverageWindow <= 0 {
		o.MovingAverageWindow = defaultMovingAverageWindow
	}
	if o.MovingAverageWindow%2 == 0 {
		o.MovingAverageWindow++
	}
	return o
}

// Analytics runs the CSV-to-analytics pipeline and retains the most recent
// result so the dashboard endpoints have something to render. Each run owns
// its accumulators and its result; the snapshot is replaced, never mutated.
type Analytics struct {
	mu               sync.RWMutex
	snapshot         *models.AnalyticsResult
	opts             Options
	recordsProcessed atomic.Int64
	logger           *slog.Logger
}

func NewAnalytics() *Analytics {
	return NewAnalyticsWithOptions(DefaultOptions())
}

func NewAnalyticsWithOptions(opts Options) *Analytics {
	return &Analytics{
		snapshot: &models.AnalyticsResult{GeneratedAt: time.Now().UTC()},
		opts:     opts.withDefaults(),
		logger:   slog.Default(),
	}
}

// SetRecords computes analytics over already-canonical records and publishes
// the result. Used by callers that bypass row normalization.
func (a *Analytics) SetRecords(records []models.SalesRecord) {
	a.publish(ComputeWithOptions(records, a.opts), int64(len(records)))
}

// ProcessRows runs the full pipeline over one upload batch: parallel row
// normalization, skip-and-warn on bad rows, then Compute over the survivors.
// The batch is rejected with an EMPTY_INPUT error when no row survives.
func (a *Analytics) ProcessRows(ctx context.Context, batchID string, rows []models.RawRow) (*models.AnalyticsResult, error) {
	if len(rows) == 0 {
		return nil, apperrors.EmptyInput("no data rows in upload")
	}

	records := make([]models.SalesRecord, len(rows))
	rowErrs := make([]error, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i := range rows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			records[i], rowErrs[i] = Normalize(rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("normalize rows: %w", err)
	}

	valid := make([]models.SalesRecord, 0, len(rows))
	var warnings []models.Warning
	for i, rowErr := range rowErrs {
		if rowErr != nil {
			warnings = append(warnings, models.Warning{Row: i + 1, Message: rowErr.Error()})
			a.logger.Warn("row skipped", "batch_id", batchID, "row", i+1, "reason", rowErr)
			continue
		}
		valid = append(valid, records[i])
	}

	if len(valid) == 0 {
		return nil, apperrors.EmptyInput(fmt.Sprintf("no valid rows in upload (%d skipped)", len(warnings)))
	}

	result := ComputeWithOptions(valid, a.opts)
	result.Warnings = warnings
	result.BatchID = batchID

	a.publish(result, int64(len(valid)))

	a.logger.Info("batch processed",
		"batch_id", batchID,
		"records", len(valid),
		"skipped", len(warnings),
		"days", result.Summary.Days,
		"products", result.Summary.Products,
	)

	return result, nil
}

// LoadFromFile ingests a CSV or XLSX file from disk and processes it as one
// batch. Used for the optional startup dataset.
func (a *Analytics) LoadFromFile(ctx context.Context, filename string) error {
	ctx, span := observability.StartSpan(ctx, "analytics.load_file")
	defer span.Finish()
	span.SetTag("filename", filename)

	start := time.Now()

	rows, err := ingest.ReadPath(filename)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("read %s: %w", filename, err)
	}

	result, err := a.ProcessRows(ctx, "startup", rows)
	if err != nil {
		span.SetError(err)
		return err
	}

	a.logger.Info("file processed",
		"filename", filename,
		"records", result.Summary.Records,
		"duration", time.Since(start),
	)
	return nil
}

func (a *Analytics) publish(result *models.AnalyticsResult, count int64) {
	a.mu.Lock()
	a.snapshot = result
	a.mu.Unlock()
	a.recordsProcessed.Store(count)
}

// Compute derives the full analytics result from canonical records using
// the default options. It is a pure batch computation: sort a copy
// date-ascending, bucket, then walk the buckets. Empty input yields a
// zeroed result, never a division by zero.
func Compute(records []models.SalesRecord) *models.AnalyticsResult {
	return ComputeWithOptions(records, DefaultOptions())
}

func ComputeWithOptions(records []models.SalesRecord, opts Options) *models.AnalyticsResult {
	opts = opts.withDefaults()

	result := &models.AnalyticsResult{GeneratedAt: time.Now().UTC()}
	if len(records) == 0 {
		return result
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.SalesRecord) int {
		return a.Date.Compare(b.Date)
	})

	daily, products := Aggregate(sorted)

	result.MinQuantity = sorted[0].Quantity
	for _, record := range sorted {
		result.TotalQuantity += record.Quantity
		result.TotalRevenue += record.Revenue
		result.MinQuantity = min(result.MinQuantity, record.Quantity)
		result.MaxQuantity = max(result.MaxQuantity, record.Quantity)
	}

	count := float64(len(sorted))
	result.AvgQuantity = result.TotalQuantity / count
	result.AvgRevenue = result.TotalRevenue / count
	if result.TotalQuantity > 0 {
		result.AvgPricePerUnit = result.TotalRevenue / result.TotalQuantity
	}

	result.DateRange = dateRange(sorted)
	result.TopProducts = topProducts(products, opts.TopProducts)
	result.MovingAverage = movingAverage(daily, opts.MovingAverageWindow)
	result.DailyStats = daily
	result.Summary = models.Summary{
		Records:  len(sorted),
		Products: len(products),
		Days:     len(daily),
	}

	return result
}

// dateRange spans the earliest and latest non-sentinel dates. The sentinel
// is the epoch, and pre-epoch record dates are legal, so neither end can be
// taken positionally; both ends scan past sentinels.
func dateRange(sorted []models.SalesRecord) models.DateRange {
	var r models.DateRange
	for i := range sorted {
		if !IsSentinel(sorted[i].Date) {
			r.Start = &sorted[i].Date
			break
		}
	}
	if r.Start == nil {
		return r
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if !IsSentinel(sorted[i].Date) {
			r.End = &sorted[i].Date
			break
		}
	}
	return r
}

func topProducts(products []models.ProductBucket, limit int) []models.TopProduct {
	ranked := slices.Clone(products)
	slices.SortStableFunc(ranked, func(a, b models.ProductBucket) int {
		if a.RevenueSum > b.RevenueSum {
			return -1
		}
		if a.RevenueSum < b.RevenueSum {
			return 1
		}
		return 0
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make([]models.TopProduct, 0, len(ranked))
	for _, p := range ranked {
		t := models.TopProduct{
			Product:          p.Product,
			QuantitySum:      p.QuantitySum,
			RevenueSum:       p.RevenueSum,
			TransactionCount: p.TransactionCount,
		}
		if p.QuantitySum > 0 {
			t.AvgRevenuePerUnit = p.RevenueSum / p.QuantitySum
		}
		top = append(top, t)
	}
	return top
}

// movingAverage is the centered quantity trend over the given odd window.
// An out-of-range neighbor contributes 0 while the divisor stays the window
// size, so the first and last points are systematically under-estimated.
// That edge bias is the behavior the frontend expects; do not "fix" it by
// shrinking the divisor.
func movingAverage(daily []models.DateBucket, window int) []models.MovingAveragePoint {
	half := window / 2
	divisor := float64(window)

	points := make([]models.MovingAveragePoint, 0, len(daily))
	for i := range daily {
		var sum float64
		for j := max(i-half, 0); j <= min(i+half, len(daily)-1); j++ {
			sum += daily[j].QuantitySum
		}
		points = append(points, models.MovingAveragePoint{
			Date:            daily[i].Date,
			AverageQuantity: sum / divisor,
		})
	}
	return points
}

// Snapshot returns the most recently published result.
func (a *Analytics) Snapshot() *models.AnalyticsResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

func (a *Analytics) DailyStats() []models.DateBucket {
	return a.Snapshot().DailyStats
}

func (a *Analytics) TopProducts() []models.TopProduct {
	return a.Snapshot().TopProducts
}

func (a *Analytics) MovingAverage() []models.MovingAveragePoint {
	return a.Snapshot().MovingAverage
}

// Stats reports processing counters for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   a.recordsProcessed.Load(),
		"last_processed": a.snapshot.GeneratedAt,
		"batch_id":       a.snapshot.BatchID,
		"days":           len(a.snapshot.DailyStats),
		"products":       a.snapshot.Summary.Products,
		"warnings":       len(a.snapshot.Warnings),
	}
}
