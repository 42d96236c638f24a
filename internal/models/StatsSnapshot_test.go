package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse(DateLayout, s)
	return d
}

func validSnapshot() *StatsSnapshot {
	return &StatsSnapshot{
		Username:           "octocat",
		TotalStars:         12,
		TotalCommits:       340,
		TotalContributions: 900,
		ReposOwned:         8,
		ReposContributed:   3,
		ReposTotal:         11,
		InitialDate:        "Jan 25, 2011",
		CurrentStreak:      NewStreak(date("2024-03-01"), date("2024-03-04")),
		LongestStreak:      NewStreak(date("2023-01-01"), date("2023-01-10")),
		TotalPRs:           5,
		TotalIssues:        2,
		Languages: LanguageReport{
			"Go": {ApproxLinesOfCode: 100, Percentage: 100},
		},
	}
}

func TestNewStreak_Length(t *testing.T) {
	s := NewStreak(date("2024-02-27"), date("2024-03-02"))
	assert.Equal(t, 5, s.Length)
	assert.Equal(t, "2024-02-27", s.StartDate)
	assert.Equal(t, "2024-03-02", s.EndDate)
	assert.NoError(t, s.Validate())
}

func TestStreak_Validate_LengthMismatch(t *testing.T) {
	s := &Streak{StartDate: "2024-01-01", EndDate: "2024-01-03", Length: 2}
	assert.Error(t, s.Validate())
}

func TestStreak_Validate_ZeroLength(t *testing.T) {
	s := &Streak{StartDate: "2024-01-01", EndDate: "2024-01-01", Length: 0}
	assert.Error(t, s.Validate())
}

func TestStreak_Validate_BadDate(t *testing.T) {
	s := &Streak{StartDate: "yesterday", EndDate: "2024-01-01", Length: 1}
	assert.Error(t, s.Validate())
}

func TestActivityDay_Day(t *testing.T) {
	d, err := ActivityDay{Date: "2024-05-06", Count: 3}.Day()
	require.NoError(t, err)
	assert.Equal(t, date("2024-05-06"), d)

	_, err = ActivityDay{Date: "06/05/2024", Count: 3}.Day()
	assert.Error(t, err)

	_, err = ActivityDay{Date: "2024-05-06", Count: -1}.Day()
	assert.Error(t, err)
}

func TestCalendarDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2024, 5, 6, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, date("2024-05-07"), CalendarDate(ts, loc))
	assert.Equal(t, date("2024-05-06"), CalendarDate(ts, time.UTC))
}

func TestStatsSnapshot_Validate_Valid(t *testing.T) {
	assert.NoError(t, validSnapshot().Validate())
}

func TestStatsSnapshot_Validate_NilStreaks(t *testing.T) {
	s := validSnapshot()
	s.CurrentStreak = nil
	s.LongestStreak = nil
	assert.NoError(t, s.Validate())
}

func TestStatsSnapshot_Validate_MissingUsername(t *testing.T) {
	s := validSnapshot()
	s.Username = ""
	assert.Error(t, s.Validate())
}

func TestStatsSnapshot_Validate_NegativeCount(t *testing.T) {
	s := validSnapshot()
	s.TotalStars = -1
	assert.Error(t, s.Validate())
}

func TestStatsSnapshot_Validate_RepoTotalMismatch(t *testing.T) {
	s := validSnapshot()
	s.ReposTotal = 99
	assert.Error(t, s.Validate())
}

func TestStatsSnapshot_Validate_BrokenStreak(t *testing.T) {
	s := validSnapshot()
	s.LongestStreak = &Streak{StartDate: "2023-01-01", EndDate: "2023-01-10", Length: 3}
	assert.Error(t, s.Validate())
}

func TestStatsSnapshot_Validate_LanguageOverflow(t *testing.T) {
	s := validSnapshot()
	s.Languages = LanguageReport{
		"Go":     {ApproxLinesOfCode: 10, Percentage: 70},
		"Python": {ApproxLinesOfCode: 10, Percentage: 70},
	}
	assert.Error(t, s.Validate())
}
