package datasource

import (
	"context"
	"errors"
	"fmt"
	"ghstats/internal/models"
)

// ErrUserNotFound is returned when the upstream has no account with the requested login.
var ErrUserNotFound = errors.New("user not found")

type AuthoredKind string

const (
	KindPullRequest AuthoredKind = "pr"
	KindIssue       AuthoredKind = "issue"
)

// UpstreamError describes a failed upstream call: a non-2xx status or a GraphQL errors array.
type UpstreamError struct {
	Op      string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

type ActivityDataSource interface {
	FetchUser(ctx context.Context, username string) (*models.UserProfile, error)
	FetchDailyActivity(ctx context.Context, username string) ([]models.ActivityDay, error)
	FetchPeriodTotal(ctx context.Context, username string, window models.PeriodWindow) (int, error)
	FetchTotalCommits(ctx context.Context, username string) (int, error)
	FetchRepoCounts(ctx context.Context, username string) (models.RepoCounts, error)
	FetchRepositories(ctx context.Context, username string) ([]models.Repository, error)
	FetchRepoLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	FetchAuthoredCount(ctx context.Context, username string, kind AuthoredKind) (int, error)
}
