package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ActivityDay is one entry of the contribution calendar as returned upstream.
type ActivityDay struct {
	Date  string `json:"date"`
	Count int    `json:"contributionCount"`
}

// Day parses Date into a UTC calendar date.
func (a ActivityDay) Day() (time.Time, error) {
	d, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return time.Time{}, err
	}
	if a.Count < 0 {
		return time.Time{}, fmt.Errorf("negative count %d", a.Count)
	}
	return d, nil
}

// CalendarDate truncates t to its calendar date in loc and returns it as UTC midnight,
// so dates coming from different zones compare with ==.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type PeriodWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (w PeriodWindow) Year() int {
	return w.From.Year()
}

func (w PeriodWindow) String() string {
	return w.From.Format(time.RFC3339) + ".." + w.To.Format(time.RFC3339)
}
