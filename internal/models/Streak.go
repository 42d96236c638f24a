package models

import (
	"fmt"
	"time"
)

// Streak is a maximal run of consecutive calendar days with positive activity.
type Streak struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Length    int    `json:"length"`
}

type StreakResult struct {
	Current *Streak
	Longest *Streak
}

func NewStreak(start, end time.Time) *Streak {
	return &Streak{
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
		Length:    daysBetween(start, end) + 1,
	}
}

func (s *Streak) Start() (time.Time, error) {
	return time.Parse(DateLayout, s.StartDate)
}

func (s *Streak) End() (time.Time, error) {
	return time.Parse(DateLayout, s.EndDate)
}

// Validate checks that both dates parse and Length covers exactly [StartDate, EndDate].
func (s *Streak) Validate() error {
	start, err := s.Start()
	if err != nil {
		return fmt.Errorf("streak start: %w", err)
	}
	end, err := s.End()
	if err != nil {
		return fmt.Errorf("streak end: %w", err)
	}
	if s.Length < 1 || end.Before(start) {
		return fmt.Errorf("empty streak %s..%s", s.StartDate, s.EndDate)
	}
	if want := daysBetween(start, end) + 1; s.Length != want {
		return fmt.Errorf("streak length %d does not match %s..%s (%d days)", s.Length, s.StartDate, s.EndDate, want)
	}
	return nil
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
