package statistic

import (
	"context"
	"fmt"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/structures"
	"time"

	"golang.org/x/sync/errgroup"
)

// PeriodFetcher returns the activity total for one window.
type PeriodFetcher func(ctx context.Context, window models.PeriodWindow) (int, error)

type PeriodAggregator struct {
	workers int
	timeout time.Duration
	loc     *time.Location
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewPeriodAggregator(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *PeriodAggregator {
	workers := conf.Aggregation.Workers
	if workers < 1 {
		workers = 1
	}
	return &PeriodAggregator{
		workers: workers,
		timeout: conf.Aggregation.FetchTimeout,
		loc:     conf.Location(),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Windows partitions [Jan 1 historyStart, now] into one window per calendar year.
// The current year's window ends at now.
func (a *PeriodAggregator) Windows(historyStart int) []models.PeriodWindow {
	now := a.now().In(a.loc)
	if historyStart > now.Year() {
		return nil
	}

	windows := make([]models.PeriodWindow, 0, now.Year()-historyStart+1)
	for year := historyStart; year <= now.Year(); year++ {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, a.loc)
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, a.loc)
		if to.After(now) {
			to = now
		}
		windows = append(windows, models.PeriodWindow{From: from, To: to})
	}
	return windows
}

// AggregateTotal sums fetch over every window. A failed or timed out window contributes zero.
func (a *PeriodAggregator) AggregateTotal(ctx context.Context, historyStart int, fetch PeriodFetcher) int {
	windows := a.Windows(historyStart)
	results := make([]int, len(windows))

	g := new(errgroup.Group)
	g.SetLimit(a.workers)

	for i, w := range windows {
		g.Go(func() error {
			results[i] = a.fetchWindow(ctx, w, fetch)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += r
	}
	return total
}

func (a *PeriodAggregator) fetchWindow(ctx context.Context, w models.PeriodWindow, fetch PeriodFetcher) int {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	n, err := safeFetch(ctx, w, fetch)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		a.logger.Warnf(providers.TypeUpstream, "Window %d failed, counting as 0: %s", w.Year(), err)
		a.metrics.IncFetchFailures(providers.FetchUnitWindow)
		return 0
	}
	if n < 0 {
		a.logger.Warnf(providers.TypeUpstream, "Window %d returned negative total %d, counting as 0", w.Year(), n)
		return 0
	}
	return n
}

// safeFetch turns a panic inside fetch into an error so it fails only its own window.
func safeFetch(ctx context.Context, w models.PeriodWindow, fetch PeriodFetcher) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("panic: %v", r)
		}
	}()
	return fetch(ctx, w)
}
