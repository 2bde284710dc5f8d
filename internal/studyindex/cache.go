// Package studyindex owns the list of studies available in the dataset.
package studyindex

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/pkg/logger"
)

// Reader fetches the raw index document
type Reader interface {
	ReadIndex(ctx context.Context) ([]byte, error)
}

// Cache loads the study index once and serves it until invalidated.
// A failed load is logged, reported as an empty list and not cached.
// Concurrent first reads share one fetch.
type Cache struct {
	reader Reader
	logger *logger.Logger
	fill   singleflight.Group

	mu      sync.Mutex
	studies []contracts.Study
	loaded  bool
	version uint64
	// epoch counts invalidations; a fetch started in an older epoch is not installed
	epoch uint64

	// notify receives the new version after each successful load
	notify []func(version uint64)
}

// New creates an index cache over reader
func New(reader Reader, log *logger.Logger) *Cache {
	return &Cache{
		reader: reader,
		logger: log.Module("studyindex"),
	}
}

// OnReload registers fn to run after every successful (re)load
func (c *Cache) OnReload(fn func(version uint64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = append(c.notify, fn)
}

// Studies returns the cached index, loading it on first use
func (c *Cache) Studies(ctx context.Context) []contracts.Study {
	if studies, ok := c.cached(); ok {
		return studies
	}

	// the shared fetch outlives any single caller's cancellation
	fillCtx := context.WithoutCancel(ctx)
	v, _, _ := c.fill.Do("index", func() (interface{}, error) {
		if studies, ok := c.cached(); ok {
			return studies, nil
		}
		return c.Reload(fillCtx), nil
	})
	return v.([]contracts.Study)
}

func (c *Cache) cached() ([]contracts.Study, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.studies, c.loaded
}

// Reload fetches the index regardless of the cached state
func (c *Cache) Reload(ctx context.Context) []contracts.Study {
	studies, err := c.Refresh(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Failed to load study index")
		return []contracts.Study{}
	}
	return studies
}

// Refresh is Reload with the failure returned instead of logged.
// The cached index is left untouched on error. A result fetched before an
// Invalidate is returned but not installed.
func (c *Cache) Refresh(ctx context.Context) ([]contracts.Study, error) {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	studies, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Debug("Study index changed during fetch, result not cached")
		return studies, nil
	}
	c.studies = studies
	c.loaded = true
	c.version++
	version := c.version
	hooks := append([]func(uint64){}, c.notify...)
	c.mu.Unlock()

	c.logger.WithFields(map[string]interface{}{
		"studies": len(studies),
		"version": version,
	}).Info("Study index loaded")

	for _, fn := range hooks {
		fn(version)
	}
	return studies, nil
}

// Invalidate drops the cached index; the next Studies call refetches
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.studies = nil
	c.loaded = false
	c.epoch++
	c.logger.Debug("Study index invalidated")
}

// Version is incremented on every successful load, 0 before the first
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Lookup finds a study by id
func (c *Cache) Lookup(ctx context.Context, id string) (contracts.Study, error) {
	for _, s := range c.Studies(ctx) {
		if s.ID == id {
			return s, nil
		}
	}
	return contracts.Study{}, fmt.Errorf("%q: %w", id, contracts.ErrStudyNotFound)
}

func (c *Cache) fetch(ctx context.Context) ([]contracts.Study, error) {
	raw, err := c.reader.ReadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("read study index: %w", err)
	}

	var studies []contracts.Study
	if err := json.Unmarshal(raw, &studies); err != nil {
		return nil, fmt.Errorf("decode study index: %w", err)
	}
	if studies == nil {
		studies = []contracts.Study{}
	}
	return studies, nil
}
