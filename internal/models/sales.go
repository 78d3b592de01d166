package models

import "time"

// RawRow is one CSV/XLSX row keyed by column name as it appeared in the
// header. Column matching is the normalizer's job, not the reader's.
type RawRow map[string]string

// SalesRecord is the canonical form of one sales row. Quantity and Revenue
// are always >= 0; unparseable dates carry the sentinel date.
type SalesRecord struct {
	Date     time.Time `json:"date"`
	Product  string    `json:"product"`
	Quantity float64   `json:"quantity"`
	Revenue  float64   `json:"revenue"`
}

// DateBucket accumulates all records that fall on one calendar day. Date is
// the formatted day label, which doubles as the bucket key so two timestamps
// on the same day can never split a bucket.
type DateBucket struct {
	Date             string  `json:"date"`
	QuantitySum      float64 `json:"quantitySum"`
	RevenueSum       float64 `json:"revenueSum"`
	TransactionCount int     `json:"transactionCount"`
}

// ProductBucket accumulates all records for one product name (exact,
// case-sensitive match).
type ProductBucket struct {
	Product          string  `json:"product"`
	QuantitySum      float64 `json:"quantitySum"`
	RevenueSum       float64 `json:"revenueSum"`
	TransactionCount int     `json:"transactionCount"`
}

// TopProduct is a ProductBucket entry in the revenue-ranked list.
type TopProduct struct {
	Product           string  `json:"product"`
	QuantitySum       float64 `json:"quantitySum"`
	RevenueSum        float64 `json:"revenueSum"`
	TransactionCount  int     `json:"transactionCount"`
	AvgRevenuePerUnit float64 `json:"avgRevenuePerUnit"`
}

// MovingAveragePoint is one point of the 3-day quantity trend line.
type MovingAveragePoint struct {
	Date            string  `json:"date"`
	AverageQuantity float64 `json:"averageQuantity"`
}

// DateRange spans the earliest and latest valid record dates. Both ends are
// null when no record carried a parseable date.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type Summary struct {
	Records  int `json:"records"`
	Products int `json:"products"`
	Days     int `json:"days"`
}

// Warning describes a row that was skipped during normalization. Row is the
// 1-based data row number (header excluded).
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// AnalyticsResult is the full output of one pipeline run, shaped for direct
// consumption by the chart frontend.
type AnalyticsResult struct {
	TotalQuantity   float64              `json:"totalQuantity"`
	TotalRevenue    float64              `json:"totalRevenue"`
	AvgQuantity     float64              `json:"avgQuantity"`
	AvgRevenue      float64              `json:"avgRevenue"`
	AvgPricePerUnit float64              `json:"avgPricePerUnit"`
	MinQuantity     float64              `json:"minQuantity"`
	MaxQuantity     float64              `json:"maxQuantity"`
	DateRange       DateRange            `json:"dateRange"`
	TopProducts     []TopProduct         `json:"topProducts"`
	MovingAverage   []MovingAveragePoint `json:"movingAverage"`
	DailyStats      []DateBucket         `json:"dailyStats"`
	Summary         Summary              `json:"summary"`
	Warnings        []Warning            `json:"warnings,omitempty"`
	BatchID         string               `json:"batchId,omitempty"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}
