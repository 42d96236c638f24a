package statistic

import (
	"context"
	"ghstats/internal/providers"
	"ghstats/internal/statistic/interfaces"
	"ghstats/internal/structures"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

const defaultSweepInterval = time.Hour

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	snapshots interfaces.SnapshotStoreInterface
	cron      *gron.Cron
	sweeping  *atomic.Bool
	lastSweep *atomic.Int64
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.SnapshotCache.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.Sweep(); err != nil {
			s.logger.Errorf(providers.TypeCache, "Error while sweeping snapshots: %s", err)
		}
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Snapshot sweep scheduled every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one cleanup pass. A pass that starts while another is running is skipped.
func (s *Scheduler) Sweep() error {
	if !s.sweeping.CompareAndSwap(false, true) {
		s.logger.Debugf(providers.TypeCache, "Sweep already running, skipping")
		return nil
	}
	defer s.sweeping.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	kept, err := s.snapshots.Sweep(ctx)
	if err != nil {
		return err
	}
	s.lastSweep.Store(int64(kept))
	s.logger.Infof(providers.TypeCache, "Sweep finished, %d snapshots kept", kept)
	return nil
}

// LastSweep returns the number of entries kept by the last completed sweep, or -1.
func (s *Scheduler) LastSweep() int {
	return int(s.lastSweep.Load())
}

func NewScheduler(config *structures.Config, logger providers.Logger, snapshots interfaces.SnapshotStoreInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		snapshots: snapshots,
		sweeping:  atomic.NewBool(false),
		lastSweep: atomic.NewInt64(-1),
	}
}
