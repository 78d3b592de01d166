package services

import "github.com/AdeyaOduor/chart-js/internal/models"

// dateLabelFormat is both the DateBucket key and its chart label.
const dateLabelFormat = "Jan 2, 2006"

func dateLabel(record models.SalesRecord) string {
	return record.Date.Format(dateLabelFormat)
}

// Aggregate folds records into per-day and per-product buckets. Records must
// already be sorted date-ascending; the returned slices preserve first-seen
// order, so date buckets come out date-ascending too.
func Aggregate(records []models.SalesRecord) ([]models.DateBucket, []models.ProductBucket) {
	daily := make([]models.DateBucket, 0)
	dailyIndex := make(map[string]int)
	products := make([]models.ProductBucket, 0)
	productIndex := make(map[string]int)

	for _, record := range records {
		label := dateLabel(record)
		i, ok := dailyIndex[label]
		if !ok {
			i = len(daily)
			dailyIndex[label] = i
			daily = append(daily, models.DateBucket{Date: label})
		}
		daily[i].QuantitySum += record.Quantity
		daily[i].RevenueSum += record.Revenue
		daily[i].TransactionCount++

		j, ok := productIndex[record.Product]
		if !ok {
			j = len(products)
			productIndex[record.Product] = j
			products = append(products, models.ProductBucket{Product: record.Product})
		}
		products[j].QuantitySum += record.Quantity
		products[j].RevenueSum += record.Revenue
		products[j].TransactionCount++
	}

	return daily, products
}
