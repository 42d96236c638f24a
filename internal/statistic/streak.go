package statistic

import (
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"sort"
	"time"
)

type StreakEngine struct {
	logger providers.Logger
}

func NewStreakEngine(logger providers.Logger) *StreakEngine {
	return &StreakEngine{logger: logger}
}

type dayCount struct {
	day   time.Time
	count int
}

// Compute derives the current and longest streaks from a contribution calendar.
// today is a calendar date (see models.CalendarDate); a current streak must end on
// today or on the day before.
func (e *StreakEngine) Compute(days []models.ActivityDay, today time.Time) models.StreakResult {
	series := e.normalize(days)
	today = models.CalendarDate(today, nil)

	return models.StreakResult{
		Current: currentStreak(series, today),
		Longest: longestStreak(series),
	}
}

// normalize parses and sorts the input. Malformed records are dropped and duplicates
// collapse to their maximum count.
func (e *StreakEngine) normalize(days []models.ActivityDay) []dayCount {
	byDay := make(map[time.Time]int, len(days))
	for _, d := range days {
		day, err := d.Day()
		if err != nil {
			e.logger.Warnf(providers.TypeApp, "Skipping invalid contribution day %+v: %s", d, err)
			continue
		}
		if prev, seen := byDay[day]; !seen || d.Count > prev {
			byDay[day] = d.Count
		}
	}

	series := make([]dayCount, 0, len(byDay))
	for day, count := range byDay {
		series = append(series, dayCount{day: day, count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].day.Before(series[j].day)
	})
	return series
}

func longestStreak(series []dayCount) *models.Streak {
	var (
		bestStart, bestEnd time.Time
		bestLen            int
		runStart, prev     time.Time
		runLen             int
	)

	for _, d := range series {
		if d.count <= 0 {
			runLen = 0
			continue
		}
		if runLen > 0 && d.day.Equal(prev.AddDate(0, 0, 1)) {
			runLen++
		} else {
			runStart = d.day
			runLen = 1
		}
		prev = d.day

		// strict: an equal later run never replaces an earlier one
		if runLen > bestLen {
			bestStart, bestEnd, bestLen = runStart, d.day, runLen
		}
	}

	if bestLen == 0 {
		return nil
	}
	return models.NewStreak(bestStart, bestEnd)
}

func currentStreak(series []dayCount, today time.Time) *models.Streak {
	yesterday := today.AddDate(0, 0, -1)

	// walk backward from the newest day that is not in the future
	i := sort.Search(len(series), func(i int) bool {
		return series[i].day.After(today)
	}) - 1

	if i < 0 {
		return nil
	}
	if series[i].day.Equal(today) && series[i].count <= 0 {
		i--
		if i < 0 {
			return nil
		}
	}

	end := series[i].day
	if series[i].count <= 0 || (!end.Equal(today) && !end.Equal(yesterday)) {
		return nil
	}

	start := end
	for i--; i >= 0; i-- {
		if series[i].count <= 0 || !series[i].day.Equal(start.AddDate(0, 0, -1)) {
			break
		}
		start = series[i].day
	}
	return models.NewStreak(start, end)
}
