package converter

import (
	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"
)

func DailySummaryToResponse(row *entity.DailySummary, source string) dto.DailySummaryResponse {
	return dto.DailySummaryResponse{
		Date:         row.SummaryDate.Format("2006-01-02"),
		TotalCount:   row.TotalCount,
		TotalRevenue: row.TotalRevenue,
		Cash:         row.Cash,
		Online:       row.Online,
		Discount:     row.Discount,
		Source:       source,
	}
}

func ScheduledTotalsToResponse(date string, totals *repository.ScheduledTotals) dto.DailySummaryResponse {
	return dto.DailySummaryResponse{
		Date:         date,
		TotalCount:   totals.Count,
		TotalRevenue: totals.Revenue,
		Cash:         totals.Cash,
		Online:       totals.Online,
		Discount:     totals.Discount,
		Source:       "appointments",
	}
}
