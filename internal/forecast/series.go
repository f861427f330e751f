package forecast

import (
	"time"

	"github.com/minimart-ai/backend/internal/domain"
)

// FillDaily expands sparse sales points into a contiguous daily series over
// [start, end], zero quantity on days without sales. Input points outside the
// window are dropped; duplicate dates are summed. Dates in the result are
// strictly increasing at midnight UTC.
func FillDaily(points []domain.SalesPoint, start, end time.Time) []domain.SalesPoint {
	start = midnight(start)
	end = midnight(end)
	if end.Before(start) {
		return nil
	}

	byDay := make(map[time.Time]domain.SalesPoint)
	for _, p := range points {
		day := midnight(p.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		agg := byDay[day]
		agg.Date = day
		agg.Quantity += p.Quantity
		agg.Revenue += p.Revenue
		byDay[day] = agg
	}

	days := int(end.Sub(start).Hours()/24) + 1
	series := make([]domain.SalesPoint, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if p, ok := byDay[d]; ok {
			series = append(series, p)
		} else {
			series = append(series, domain.SalesPoint{Date: d})
		}
	}

	return series
}

// Quantities extracts the quantity column from a series.
func Quantities(series []domain.SalesPoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Quantity
	}

	return out
}

func midnight(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
