package services

import (
	"context"
	"errors"
	"fmt"
	"ghstats/internal/datasource"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/statistic"
	"ghstats/internal/statistic/interfaces"
	"ghstats/internal/structures"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// historyFloorYear is the first year GitHub accepted accounts.
const historyFloorYear = 2008

var (
	ErrStatsUnavailable = errors.New("stats unavailable")
	ErrInvalidUsername  = errors.New("invalid username")
)

type StatsServiceInterface interface {
	GetStats(ctx context.Context, username string) (*models.StatsSnapshot, error)
	Refresh(ctx context.Context, username string) (*models.StatsSnapshot, error)
}

type StatsService struct {
	config     *structures.Config
	source     datasource.ActivityDataSource
	cache      interfaces.SnapshotStoreInterface
	streaks    *statistic.StreakEngine
	aggregator *statistic.PeriodAggregator
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	flights    singleflight.Group
	now        func() time.Time
}

func NewStatsService(
	config *structures.Config,
	source datasource.ActivityDataSource,
	cache interfaces.SnapshotStoreInterface,
	streaks *statistic.StreakEngine,
	aggregator *statistic.PeriodAggregator,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) StatsServiceInterface {
	return &StatsService{
		config:     config,
		source:     source,
		cache:      cache,
		streaks:    streaks,
		aggregator: aggregator,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// GetStats returns the cached snapshot for username, or aggregates, saves and returns a
// fresh one. Concurrent calls for the same user share a single aggregation.
func (s *StatsService) GetStats(ctx context.Context, username string) (*models.StatsSnapshot, error) {
	key := statistic.NormalizeKey(username)
	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	if snap, ok := s.cache.Load(ctx, key); ok {
		return snap, nil
	}
	return s.flight(ctx, key, true)
}

// Refresh recomputes the snapshot regardless of the cache.
func (s *StatsService) Refresh(ctx context.Context, username string) (*models.StatsSnapshot, error) {
	key := statistic.NormalizeKey(username)
	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return s.flight(ctx, key, false)
}

func (s *StatsService) flight(ctx context.Context, key string, useCache bool) (*models.StatsSnapshot, error) {
	flightKey := key
	if !useCache {
		flightKey = "refresh:" + key
	}

	// the shared computation must not die with whichever caller started it
	flightCtx := context.WithoutCancel(ctx)

	ch := s.flights.DoChan(flightKey, func() (interface{}, error) {
		if useCache {
			if snap, ok := s.cache.Load(flightCtx, key); ok {
				return snap, nil
			}
		}
		snap, err := s.aggregate(flightCtx, key)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Save(flightCtx, key, snap); err != nil {
			s.logger.Errorf(providers.TypeCache, "Failed to save snapshot for %s: %s", key, err)
		}
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.StatsSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// aggregate builds a snapshot. Only the identity lookup can fail it; every other
// sub-aggregation falls back to zero or empty.
func (s *StatsService) aggregate(ctx context.Context, key string) (*models.StatsSnapshot, error) {
	cycle := uuid.NewString()
	start := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration(time.Since(start))
	}()

	s.logger.Infof(providers.TypeApp, "[%s] Aggregating stats for %s", cycle, key)

	user, err := s.source.FetchUser(ctx, key)
	if err != nil {
		s.logger.Errorf(providers.TypeUpstream, "[%s] Identity check for %s failed: %s", cycle, key, err)
		return nil, fmt.Errorf("%w: %w", ErrStatsUnavailable, err)
	}
	login := user.Login
	if login == "" {
		login = key
	}

	loc := s.config.Location()
	snap := &models.StatsSnapshot{Username: login}
	if !user.CreatedAt.IsZero() {
		snap.InitialDate = user.CreatedAt.In(loc).Format(models.DateLayout)
	}

	var (
		counts    models.RepoCounts
		streaks   models.StreakResult
		languages models.LanguageReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	g.Go(s.guard(cycle, "total commits", func() error {
		n, err := s.source.FetchTotalCommits(gctx, login)
		if err != nil {
			s.failOpen(cycle, "total commits", err)
			return nil
		}
		snap.TotalCommits = nonNegative(n)
		return nil
	}))
	g.Go(s.guard(cycle, "contributions", func() error {
		snap.TotalContributions = s.aggregator.AggregateTotal(gctx, s.historyStart(user, loc), func(ctx context.Context, w models.PeriodWindow) (int, error) {
			return s.source.FetchPeriodTotal(ctx, login, w)
		})
		return nil
	}))
	g.Go(s.guard(cycle, "daily activity", func() error {
		days, err := s.source.FetchDailyActivity(gctx, login)
		if err != nil {
			s.failOpen(cycle, "daily activity", err)
			return nil
		}
		streaks = s.streaks.Compute(days, s.now().In(loc))
		return nil
	}))
	g.Go(s.guard(cycle, "repository counts", func() error {
		c, err := s.source.FetchRepoCounts(gctx, login)
		if err != nil {
			s.failOpen(cycle, "repository counts", err)
			return nil
		}
		counts = c
		return nil
	}))
	g.Go(s.guard(cycle, "pull requests", func() error {
		n, err := s.source.FetchAuthoredCount(gctx, login, datasource.KindPullRequest)
		if err != nil {
			s.failOpen(cycle, "pull requests", err)
			return nil
		}
		snap.TotalPRs = nonNegative(n)
		return nil
	}))
	g.Go(s.guard(cycle, "issues", func() error {
		n, err := s.source.FetchAuthoredCount(gctx, login, datasource.KindIssue)
		if err != nil {
			s.failOpen(cycle, "issues", err)
			return nil
		}
		snap.TotalIssues = nonNegative(n)
		return nil
	}))
	g.Go(s.guard(cycle, "repositories", func() error {
		repos, err := s.source.FetchRepositories(gctx, login)
		if err != nil {
			s.failOpen(cycle, "repositories", err)
			return nil
		}
		for _, r := range repos {
			if strings.EqualFold(r.Owner, login) {
				snap.TotalStars += nonNegative(r.Stars)
			}
		}
		languages = s.languageReport(gctx, cycle, login, repos)
		return nil
	}))

	// subtasks never return an error; Wait is the barrier
	_ = g.Wait()

	snap.ReposOwned = nonNegative(counts.Owned)
	snap.ReposContributed = nonNegative(counts.Contributed)
	snap.ReposTotal = snap.ReposOwned + snap.ReposContributed
	snap.CurrentStreak = streaks.Current
	snap.LongestStreak = streaks.Longest
	snap.Languages = languages
	if snap.Languages == nil {
		snap.Languages = models.LanguageReport{}
	}

	s.logger.Infof(providers.TypeApp, "[%s] Aggregated stats for %s in %s", cycle, key, time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// languageReport estimates lines of code over owned, non-fork repositories. A repository
// whose languages cannot be fetched is left out.
func (s *StatsService) languageReport(ctx context.Context, cycle, login string, repos []models.Repository) models.LanguageReport {
	owned := make([]models.Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Fork && r.Name != "" && strings.EqualFold(r.Owner, login) {
			owned = append(owned, r)
		}
	}

	perRepo := make([]models.LanguageLOC, len(owned))
	g := new(errgroup.Group)
	g.SetLimit(s.workers())
	for i, r := range owned {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("panic: %v", rec)
				}
				if err != nil {
					s.logger.Warnf(providers.TypeUpstream, "[%s] Languages for %s/%s unavailable: %s", cycle, r.Owner, r.Name, err)
					s.metrics.IncFetchFailures(providers.FetchUnitRepo)
					err = nil
				}
			}()
			langs, err := s.source.FetchRepoLanguages(ctx, r.Owner, r.Name)
			if err != nil {
				return err
			}
			perRepo[i] = models.LanguageLOCFromBytes(langs)
			return nil
		})
	}
	_ = g.Wait()

	total := make(models.LanguageLOC)
	for _, loc := range perRepo {
		total.Merge(loc)
	}
	return total.Report()
}

func (s *StatsService) historyStart(user *models.UserProfile, loc *time.Location) int {
	if user.CreatedAt.IsZero() {
		return historyFloorYear
	}
	year := user.CreatedAt.In(loc).Year()
	if year < historyFloorYear {
		return historyFloorYear
	}
	return year
}

func (s *StatsService) workers() int {
	if s.config.Aggregation.Workers < 1 {
		return 1
	}
	return s.config.Aggregation.Workers
}

// guard runs a sub-aggregation so that a panic inside it counts as that subtask failing.
func (s *StatsService) guard(cycle, what string, fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				s.failOpen(cycle, what, fmt.Errorf("panic: %v", r))
			}
		}()
		return fn()
	}
}

func (s *StatsService) failOpen(cycle, what string, err error) {
	s.logger.Warnf(providers.TypeUpstream, "[%s] Fetching %s failed, using zero value: %s", cycle, what, err)
	s.metrics.IncFetchFailures(providers.FetchUnitSubtask)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
