package testutil

import (
	"context"
	"fmt"
	"ghstats/internal/datasource"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/statistic/interfaces"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu     sync.Mutex
	Logs   []LogEntry
	Closed int
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed++
}

// Count returns the number of recorded entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any rendered message at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if l.Level == level && strings.Contains(fmt.Sprintf(l.Format, l.Args...), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	CacheHits           map[string]int
	CacheMisses         map[string]int
	FetchFailures       map[string]int
	PersistenceCalls    int
	AggregationCalls    int
	SnapshotsTotal      int
	RequestsTotalCalls  int
	RequestDurationCall int
}

func (m *MockMetrics) inc(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = make(map[string]int)
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsTotalCalls++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestDurationCall++
}
func (m *MockMetrics) IncCacheHits(layer string)   { m.inc(&m.CacheHits, layer) }
func (m *MockMetrics) IncCacheMisses(layer string) { m.inc(&m.CacheMisses, layer) }
func (m *MockMetrics) IncFetchFailures(unit string) {
	m.inc(&m.FetchFailures, unit)
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}
func (m *MockMetrics) ObserveAggregationDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AggregationCalls++
}
func (m *MockMetrics) SetSnapshotsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotsTotal = count
}

func (m *MockMetrics) Failures(unit string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchFailures[unit]
}

func (m *MockMetrics) Misses(layer string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CacheMisses[layer]
}

func (m *MockMetrics) Hits(layer string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CacheHits[layer]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       int
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed++ }

// MockBlobStore is an in-memory interfaces.BlobStore.
type MockBlobStore struct {
	mu       sync.Mutex
	Data     map[string][]byte
	WriteErr error
	ReadErr  error
	Writes   int
	Closed   int
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Data: make(map[string][]byte)}
}

func (m *MockBlobStore) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	val, ok := m.Data[key]
	if !ok {
		return nil, interfaces.ErrBlobNotFound
	}
	return val, nil
}

func (m *MockBlobStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	m.Data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}

func (m *MockBlobStore) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockBlobStore) Name() string { return "memory" }

func (m *MockBlobStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed++
	return nil
}

// MockDataSource implements datasource.ActivityDataSource. Unset fields yield zero values;
// the *Err fields force a failure for that call.
type MockDataSource struct {
	mu sync.Mutex

	User        *models.UserProfile
	UserErr     error
	Days        []models.ActivityDay
	DaysErr     error
	PeriodFn    func(window models.PeriodWindow) (int, error)
	Commits     int
	CommitsErr  error
	Counts      models.RepoCounts
	CountsErr   error
	Repos       []models.Repository
	ReposErr    error
	Languages   map[string]map[string]int
	LangErr     map[string]error
	PRs         int
	Issues      int
	AuthoredErr error
	// Delay is applied to FetchUser to widen race windows in concurrency tests.
	Delay time.Duration
	// PanicOn makes the named operations panic instead of returning.
	PanicOn map[string]bool

	Calls map[string]int
}

func (m *MockDataSource) called(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[op]++
	if m.PanicOn[op] {
		panic(op + " blew up")
	}
}

// CallCount returns how often op was invoked.
func (m *MockDataSource) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

func (m *MockDataSource) FetchUser(ctx context.Context, username string) (*models.UserProfile, error) {
	m.called("FetchUser")
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	if m.User != nil {
		return m.User, nil
	}
	return &models.UserProfile{Login: username, CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (m *MockDataSource) FetchDailyActivity(_ context.Context, _ string) ([]models.ActivityDay, error) {
	m.called("FetchDailyActivity")
	return m.Days, m.DaysErr
}

func (m *MockDataSource) FetchPeriodTotal(_ context.Context, _ string, window models.PeriodWindow) (int, error) {
	m.called("FetchPeriodTotal")
	if m.PeriodFn != nil {
		return m.PeriodFn(window)
	}
	return 0, nil
}

func (m *MockDataSource) FetchTotalCommits(_ context.Context, _ string) (int, error) {
	m.called("FetchTotalCommits")
	return m.Commits, m.CommitsErr
}

func (m *MockDataSource) FetchRepoCounts(_ context.Context, _ string) (models.RepoCounts, error) {
	m.called("FetchRepoCounts")
	return m.Counts, m.CountsErr
}

func (m *MockDataSource) FetchRepositories(_ context.Context, _ string) ([]models.Repository, error) {
	m.called("FetchRepositories")
	return m.Repos, m.ReposErr
}

func (m *MockDataSource) FetchRepoLanguages(_ context.Context, owner, repo string) (map[string]int, error) {
	m.called("FetchRepoLanguages")
	key := owner + "/" + repo
	if err, ok := m.LangErr[key]; ok {
		return nil, err
	}
	return m.Languages[key], nil
}

func (m *MockDataSource) FetchAuthoredCount(_ context.Context, _ string, kind datasource.AuthoredKind) (int, error) {
	m.called("FetchAuthoredCount")
	if m.AuthoredErr != nil {
		return 0, m.AuthoredErr
	}
	if kind == datasource.KindIssue {
		return m.Issues, nil
	}
	return m.PRs, nil
}

// MockStatsService implements services.StatsServiceInterface.
type MockStatsService struct {
	mu        sync.Mutex
	Snapshots map[string]*models.StatsSnapshot
	Err       error
	GetCalls  []string
}

func (m *MockStatsService) GetStats(_ context.Context, username string) (*models.StatsSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, username)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshots[username], nil
}

func (m *MockStatsService) Refresh(ctx context.Context, username string) (*models.StatsSnapshot, error) {
	return m.GetStats(ctx, username)
}

// Snapshot returns a valid snapshot for username, for tests that only need a well-formed record.
func Snapshot(username string) *models.StatsSnapshot {
	return &models.StatsSnapshot{
		Username:           username,
		TotalStars:         12,
		TotalCommits:       340,
		TotalContributions: 512,
		ReposOwned:         4,
		ReposContributed:   2,
		ReposTotal:         6,
		InitialDate:        "2019-03-01",
		CurrentStreak:      &models.Streak{StartDate: "2024-05-01", EndDate: "2024-05-03", Length: 3},
		LongestStreak:      &models.Streak{StartDate: "2023-01-10", EndDate: "2023-01-19", Length: 10},
		TotalPRs:           21,
		TotalIssues:        8,
		Languages: models.LanguageReport{
			"Go":     {ApproxLinesOfCode: 750, Percentage: 75},
			"Python": {ApproxLinesOfCode: 250, Percentage: 25},
		},
	}
}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	mu         sync.Mutex
	Kept       int
	SweepErr   error
	InitCalls  int
	StopCalls  int
	SweepCalls int
}

func NewMockScheduler() *MockScheduler {
	return &MockScheduler{Kept: -1}
}

func (m *MockScheduler) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
}

func (m *MockScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
}

func (m *MockScheduler) Sweep() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SweepCalls++
	return m.SweepErr
}

func (m *MockScheduler) LastSweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Kept
}
