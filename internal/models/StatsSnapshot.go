package models

import (
	"fmt"
	"time"

	"github.com/gookit/validate"
)

// SnapshotSchemaVersion is bumped whenever StatsSnapshot changes shape.
// Cached entries written under another version are discarded on load.
const SnapshotSchemaVersion = 2

// StatsSnapshot is the fully assembled statistics record for one user.
// It is never mutated after assembly.
type StatsSnapshot struct {
	Username           string         `json:"username" validate:"required"`
	TotalStars         int            `json:"total_stars" validate:"min:0"`
	TotalCommits       int            `json:"total_commits" validate:"min:0"`
	TotalContributions int            `json:"total_contributions" validate:"min:0"`
	ReposOwned         int            `json:"repos_owned" validate:"min:0"`
	ReposContributed   int            `json:"repos_contributed" validate:"min:0"`
	ReposTotal         int            `json:"repos_total" validate:"min:0"`
	InitialDate        string         `json:"initial_date"`
	CurrentStreak      *Streak        `json:"current_streak"`
	LongestStreak      *Streak        `json:"longest_streak"`
	TotalPRs           int            `json:"total_prs" validate:"min:0"`
	TotalIssues        int            `json:"total_issues" validate:"min:0"`
	Languages          LanguageReport `json:"languages"`
}

func (s *StatsSnapshot) Validate() error {
	v := validate.Struct(s)
	if !v.Validate() {
		return v.Errors
	}
	if s.ReposTotal != s.ReposOwned+s.ReposContributed {
		return fmt.Errorf("repos_total %d != owned %d + contributed %d", s.ReposTotal, s.ReposOwned, s.ReposContributed)
	}
	if s.CurrentStreak != nil {
		if err := s.CurrentStreak.Validate(); err != nil {
			return fmt.Errorf("current_streak: %w", err)
		}
	}
	if s.LongestStreak != nil {
		if err := s.LongestStreak.Validate(); err != nil {
			return fmt.Errorf("longest_streak: %w", err)
		}
	}
	return s.Languages.Validate()
}

// CacheEntry is the persisted envelope around a snapshot.
type CacheEntry struct {
	Version   int            `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
	Snapshot  *StatsSnapshot `json:"snapshot"`
}

type RepoCounts struct {
	Owned       int
	Contributed int
	Total       int
}

type Repository struct {
	Name  string
	Owner string
	Fork  bool
	Stars int
}

type UserProfile struct {
	Login     string
	Name      string
	CreatedAt time.Time
}
