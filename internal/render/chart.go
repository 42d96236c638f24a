package render

import (
	"fmt"
	"ghstats/internal/models"
	"time"

	"github.com/guptarohit/asciigraph"
)

// ActivitySeries returns one value per calendar day for the span days ending on today,
// oldest first. Days missing from the calendar count as zero.
func ActivitySeries(days []models.ActivityDay, today time.Time, span int) []float64 {
	if span <= 0 {
		return nil
	}
	end := models.CalendarDate(today, nil)
	start := end.AddDate(0, 0, -(span - 1))

	series := make([]float64, span)
	for _, d := range days {
		day, err := d.Day()
		if err != nil || day.Before(start) || day.After(end) {
			continue
		}
		idx := int(day.Sub(start).Hours() / 24)
		if float64(d.Count) > series[idx] {
			series[idx] = float64(d.Count)
		}
	}
	return series
}

// ActivityChart plots the last span days of activity as an ASCII line chart.
func ActivityChart(days []models.ActivityDay, today time.Time, span, height int) string {
	series := ActivitySeries(days, today, span)
	if len(series) == 0 {
		return "No data available"
	}
	if height < 3 {
		height = 3
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("contributions, last %d days", span)),
	)
}
