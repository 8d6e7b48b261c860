package dto

import "github.com/shopspring/decimal"

type DailySummaryResponse struct {
	Date         string          `json:"date"`
	TotalCount   int64           `json:"total_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Cash         decimal.Decimal `json:"cash"`
	Online       decimal.Decimal `json:"online"`
	Discount     decimal.Decimal `json:"discount"`
	Source       string          `json:"source,omitempty"`
}

type DailySummaryListResponse struct {
	From      string                 `json:"from"`
	To        string                 `json:"to"`
	Summaries []DailySummaryResponse `json:"summaries"`
	Total     DailySummaryResponse   `json:"total"`
}

// DailyReportResponse compares the ledger row with totals recomputed from the
// appointments themselves. Edits change appointments but not the ledger, so
// the two can drift apart.
type DailyReportResponse struct {
	Date       string               `json:"date"`
	Ledger     DailySummaryResponse `json:"ledger"`
	Recomputed DailySummaryResponse `json:"recomputed"`
	Drift      DailySummaryResponse `json:"drift"`
	InSync     bool                 `json:"in_sync"`
}
