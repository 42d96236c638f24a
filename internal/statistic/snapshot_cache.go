package statistic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/statistic/interfaces"
	"ghstats/internal/structures"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var errExpired = errors.New("entry expired")

// SnapshotCache is the only reader and writer of persisted snapshots.
type SnapshotCache struct {
	store      interfaces.BlobStore
	compressor interfaces.CompressorInterface
	ttl        time.Duration
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	now        func() time.Time
}

func NewSnapshotCache(conf *structures.Config, store interfaces.BlobStore, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *SnapshotCache {
	return &SnapshotCache{
		store:      store,
		compressor: compressor,
		ttl:        conf.SnapshotCache.TTL,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// maxUsernameLength is GitHub's login length limit.
const maxUsernameLength = 39

// usernamePattern is GitHub's login grammar: alphanumeric runs joined by single hyphens.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

// NormalizeKey maps a valid GitHub login onto the storage key space (lower case) and
// returns "" for anything that is not one.
func NormalizeKey(username string) string {
	if len(username) > maxUsernameLength || !usernamePattern.MatchString(username) {
		return ""
	}
	return strings.ToLower(username)
}

// Load returns the cached snapshot for key when a fresh, well-formed entry exists.
func (c *SnapshotCache) Load(ctx context.Context, key string) (*models.StatsSnapshot, bool) {
	key = NormalizeKey(key)
	if key == "" {
		return nil, false
	}

	entry, err := c.read(ctx, key)
	if err != nil {
		c.metrics.IncCacheMisses(providers.CacheLayerSnapshot)
		if errors.Is(err, interfaces.ErrBlobNotFound) {
			c.logger.Debugf(providers.TypeCache, "Snapshot miss for %s: no entry", key)
		} else {
			c.logger.Infof(providers.TypeCache, "Snapshot miss for %s: %s", key, err)
		}
		return nil, false
	}

	c.metrics.IncCacheHits(providers.CacheLayerSnapshot)
	c.logger.Debugf(providers.TypeCache, "Snapshot hit for %s (age %s)", key, c.now().Sub(entry.Timestamp).Round(time.Second))
	return entry.Snapshot, true
}

// Save replaces the entry for key with snapshot stamped at the current time.
func (c *SnapshotCache) Save(ctx context.Context, key string, snapshot *models.StatsSnapshot) error {
	key = NormalizeKey(key)
	if key == "" {
		return errors.New("empty snapshot key")
	}
	if snapshot == nil {
		return errors.New("nil snapshot")
	}

	start := time.Now()
	defer func() {
		c.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	jsonData, err := json.Marshal(models.CacheEntry{
		Version:   models.SnapshotSchemaVersion,
		Timestamp: c.now().UTC(),
		Snapshot:  snapshot,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data, err := c.compressor.Compress(jsonData)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err = c.store.Write(ctx, key, data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}

	c.logger.Debugf(providers.TypeCache, "Saved snapshot for %s to %s store", key, c.store.Name())
	return nil
}

// Sweep deletes expired and unreadable entries and returns how many remain.
func (c *SnapshotCache) Sweep(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list snapshots: %w", err)
	}

	kept := 0
	for _, key := range keys {
		if ctx.Err() != nil {
			return kept, ctx.Err()
		}
		_, err := c.read(ctx, key)
		if err == nil {
			kept++
			continue
		}
		if errors.Is(err, interfaces.ErrBlobNotFound) {
			continue
		}
		if delErr := c.store.Delete(ctx, key); delErr != nil {
			c.logger.Warnf(providers.TypeCache, "Failed to remove snapshot %s: %s", key, delErr)
			kept++
			continue
		}
		c.logger.Debugf(providers.TypeCache, "Removed snapshot %s: %s", key, err)
	}

	c.metrics.SetSnapshotsTotal(kept)
	return kept, nil
}

func (c *SnapshotCache) read(ctx context.Context, key string) (*models.CacheEntry, error) {
	data, err := c.store.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	raw, err := c.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	var entry models.CacheEntry
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&entry); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if entry.Version != models.SnapshotSchemaVersion {
		return nil, fmt.Errorf("schema version %d, want %d", entry.Version, models.SnapshotSchemaVersion)
	}
	if entry.Snapshot == nil {
		return nil, errors.New("entry has no snapshot")
	}
	if err = entry.Snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	if entry.Timestamp.IsZero() {
		return nil, errors.New("entry has no timestamp")
	}
	if c.now().Sub(entry.Timestamp) >= c.ttl {
		return nil, errExpired
	}
	return &entry, nil
}
