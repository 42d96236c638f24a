package statistic

import (
	"context"
	"errors"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/structures"
	"ghstats/internal/testutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheFixture struct {
	cache   *SnapshotCache
	store   *testutil.MockBlobStore
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
	clock   time.Time
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()
	conf := &structures.Config{SnapshotCache: structures.SnapshotCacheConfig{TTL: time.Hour}}
	f := &cacheFixture{
		store:   testutil.NewMockBlobStore(),
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		clock:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	f.cache = NewSnapshotCache(conf, f.store, &testutil.MockCompressor{}, f.logger, f.metrics)
	f.cache.now = func() time.Time { return f.clock }
	return f
}

func (f *cacheFixture) putRaw(t *testing.T, key string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f.store.Data[key] = data
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "octocat", NormalizeKey("OctoCat"))
	assert.Equal(t, "my-user", NormalizeKey("my-user"))
	assert.Equal(t, "a1-b2-c3", NormalizeKey("A1-b2-C3"))
	assert.Equal(t, strings.Repeat("x", 39), NormalizeKey(strings.Repeat("x", 39)))
}

func TestNormalizeKey_RejectsInvalidLogins(t *testing.T) {
	for _, name := range []string{
		"",
		"octo.cat_",
		"a.b",
		"../etc/passwd",
		"-octocat",
		"octocat-",
		"octo--cat",
		"octo cat",
		"octöcat",
		strings.Repeat("x", 40),
	} {
		assert.Equal(t, "", NormalizeKey(name), name)
	}
}

func TestSnapshotCache_InvalidKey(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	assert.Error(t, f.cache.Save(ctx, "octo.cat", testutil.Snapshot("octocat")))
	assert.Empty(t, f.store.Data)

	_, ok := f.cache.Load(ctx, "octo.cat")
	assert.False(t, ok)
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()
	snap := testutil.Snapshot("octocat")

	require.NoError(t, f.cache.Save(ctx, "octocat", snap))
	f.clock = f.clock.Add(59 * time.Minute)

	got, ok := f.cache.Load(ctx, "OctoCat")
	require.True(t, ok)
	assert.Equal(t, snap, got)
	assert.Equal(t, 1, f.metrics.Hits(providers.CacheLayerSnapshot))
	assert.Equal(t, 1, f.metrics.PersistenceCalls)
}

func TestSnapshotCache_ExpiredEntryIsAbsent(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Save(ctx, "octocat", testutil.Snapshot("octocat")))
	f.clock = f.clock.Add(time.Hour)

	_, ok := f.cache.Load(ctx, "octocat")
	assert.False(t, ok)
	assert.Contains(t, f.store.Data, "octocat", "expired entry is still stored")
	assert.Equal(t, 1, f.metrics.Misses(providers.CacheLayerSnapshot))
}

func TestSnapshotCache_MissingEntry(t *testing.T) {
	f := newCacheFixture(t)

	_, ok := f.cache.Load(context.Background(), "nobody")
	assert.False(t, ok)
	assert.Equal(t, 1, f.metrics.Misses(providers.CacheLayerSnapshot))
}

func TestSnapshotCache_InvalidSnapshotIsAbsent(t *testing.T) {
	f := newCacheFixture(t)

	bad := testutil.Snapshot("octocat")
	bad.ReposTotal = 99
	f.putRaw(t, "octocat", models.CacheEntry{Version: models.SnapshotSchemaVersion, Timestamp: f.clock, Snapshot: bad})

	got, ok := f.cache.Load(context.Background(), "octocat")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.True(t, f.logger.Contains("info", "invalid snapshot"))
}

func TestSnapshotCache_RejectsBadEntries(t *testing.T) {
	brokenStreak := testutil.Snapshot("octocat")
	brokenStreak.CurrentStreak = &models.Streak{StartDate: "2024-05-01", EndDate: "2024-05-03", Length: 7}

	negative := testutil.Snapshot("octocat")
	negative.TotalStars = -1

	overfull := testutil.Snapshot("octocat")
	overfull.Languages = models.LanguageReport{"Go": {ApproxLinesOfCode: 1, Percentage: 80}, "Java": {ApproxLinesOfCode: 1, Percentage: 30}}

	noName := testutil.Snapshot("")

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value interface{}
	}{
		{"wrong version", models.CacheEntry{Version: 1, Timestamp: now, Snapshot: testutil.Snapshot("octocat")}},
		{"no snapshot", models.CacheEntry{Version: models.SnapshotSchemaVersion, Timestamp: now}},
		{"broken streak", models.CacheEntry{Version: models.SnapshotSchemaVersion, Timestamp: now, Snapshot: brokenStreak}},
		{"negative count", models.CacheEntry{Version: models.SnapshotSchemaVersion, Timestamp: now, Snapshot: negative}},
		{"languages over 100", models.CacheEntry{Version: models.SnapshotSchemaVersion, Timestamp: now, Snapshot: overfull}},
		{"no username", models.CacheEntry{Version: models.SnapshotSchemaVersion, Timestamp: now, Snapshot: noName}},
		{"no timestamp", models.CacheEntry{Version: models.SnapshotSchemaVersion, Snapshot: testutil.Snapshot("octocat")}},
		{"unknown field", map[string]interface{}{"version": models.SnapshotSchemaVersion, "timestamp": now, "snapshot": testutil.Snapshot("octocat"), "extra": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCacheFixture(t)
			f.putRaw(t, "octocat", tt.value)

			_, ok := f.cache.Load(context.Background(), "octocat")
			assert.False(t, ok)
		})
	}
}

func TestSnapshotCache_CorruptedBytes(t *testing.T) {
	f := newCacheFixture(t)
	f.store.Data["octocat"] = []byte("not json")

	_, ok := f.cache.Load(context.Background(), "octocat")
	assert.False(t, ok)
}

func TestSnapshotCache_DecompressError(t *testing.T) {
	f := newCacheFixture(t)
	f.cache.compressor = &testutil.MockCompressor{
		DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("bad frame") },
	}
	f.store.Data["octocat"] = []byte("x")

	_, ok := f.cache.Load(context.Background(), "octocat")
	assert.False(t, ok)
	assert.True(t, f.logger.Contains("info", "bad frame"))
}

func TestSnapshotCache_SaveErrors(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	assert.Error(t, f.cache.Save(ctx, "../", testutil.Snapshot("x")))
	assert.Error(t, f.cache.Save(ctx, "octocat", nil))

	f.store.WriteErr = errors.New("disk full")
	err := f.cache.Save(ctx, "octocat", testutil.Snapshot("octocat"))
	assert.ErrorContains(t, err, "disk full")
}

func TestSnapshotCache_FailedSaveKeepsPreviousEntry(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	first := testutil.Snapshot("octocat")
	require.NoError(t, f.cache.Save(ctx, "octocat", first))

	f.store.WriteErr = errors.New("disk full")
	second := testutil.Snapshot("octocat")
	second.TotalStars = 1000
	assert.Error(t, f.cache.Save(ctx, "octocat", second))

	got, ok := f.cache.Load(ctx, "octocat")
	require.True(t, ok)
	assert.Equal(t, 12, got.TotalStars)
}

func TestSnapshotCache_Sweep(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Save(ctx, "old", testutil.Snapshot("old")))
	f.clock = f.clock.Add(2 * time.Hour)
	require.NoError(t, f.cache.Save(ctx, "fresh", testutil.Snapshot("fresh")))
	f.store.Data["junk"] = []byte("{")

	kept, err := f.cache.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, kept)
	assert.Equal(t, 1, f.metrics.SnapshotsTotal)

	keys, _ := f.store.Keys(ctx)
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestSnapshotCache_FileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	conf := &structures.Config{SnapshotCache: structures.SnapshotCacheConfig{TTL: time.Hour, Compress: true}}

	comp, err := NewCompressor(conf)
	require.NoError(t, err)
	defer comp.Close()

	cache := NewSnapshotCache(conf, NewFileStore(dir, true), comp, &testutil.MockLogger{}, &testutil.MockMetrics{})
	ctx := context.Background()
	snap := testutil.Snapshot("octocat")

	require.NoError(t, cache.Save(ctx, "octocat", snap))
	_, err = os.Stat(filepath.Join(dir, "octocat.json.zst"))
	require.NoError(t, err)

	got, ok := cache.Load(ctx, "octocat")
	require.True(t, ok)
	assert.Equal(t, snap, got)
}
