/**
 * @description
 * This file computes the per-status summary attached to every deposit listing
 * from the lightweight (status, amount) projection of the matched records.
 */

package app

import "github.com/paydesk/deposit-service/internal/domain"

// totalRecordsKey is the extra count-map entry holding the size of the whole
// projection, including records with unknown status codes.
const totalRecordsKey = "TOTAL_RECORDS"

// SummarizeStatuses folds a status/amount projection into the listing summary.
// Every known status appears in both maps even when zero. Records carrying an
// unknown status code are skipped in the per-status maps but still count
// toward TOTAL_RECORDS and the returned total amount.
func SummarizeStatuses(records []domain.StatusAmount) (domain.TransactionCounts, float64) {
	counts := domain.TransactionCounts{
		StatusCounts: make(map[string]int64),
		AmountCounts: make(map[string]float64),
	}
	for _, status := range domain.KnownStatuses() {
		key, _ := status.ReportKey()
		counts.StatusCounts[key] = 0
		counts.AmountCounts[key] = 0
	}

	var totalAmount float64
	for _, record := range records {
		totalAmount += record.Amount
		if key, ok := record.Status.ReportKey(); ok {
			counts.StatusCounts[key]++
			counts.AmountCounts[key] += record.Amount
		}
	}
	counts.StatusCounts[totalRecordsKey] = int64(len(records))

	return counts, totalAmount
}
