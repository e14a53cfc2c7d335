/*
Copyright 2026 Shane Utt.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/manager"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

// SnapshotGCInterval is how often to check for and remove stale snapshots
const SnapshotGCInterval = 5 * time.Minute

// SnapshotMaxAge is the maximum age of a snapshot before it's considered stale
const SnapshotMaxAge = 24 * time.Hour

// SnapshotMaxEntries is the maximum number of snapshots retained across all
// installs
const SnapshotMaxEntries = 10000

// -----------------------------------------------------------------------------
// Collector
// -----------------------------------------------------------------------------

var (
	_ manager.Runnable               = (*Collector)(nil)
	_ manager.LeaderElectionRunnable = (*Collector)(nil)
)

// GarbageCollectionConfig is the GC config for the Collector.
type GarbageCollectionConfig struct {
	// GCInterval is how often to check for and remove stale snapshots.
	GCInterval time.Duration

	// MaxAge is the maximum age of a snapshot before it's considered stale.
	MaxAge time.Duration

	// MaxEntries is the maximum number of snapshots retained across all
	// installs.
	MaxEntries int
}

// DefaultGC returns the default garbage collection configuration.
func DefaultGC() GarbageCollectionConfig {
	return GarbageCollectionConfig{
		GCInterval: SnapshotGCInterval,
		MaxAge:     SnapshotMaxAge,
		MaxEntries: SnapshotMaxEntries,
	}
}

// Collector periodically prunes a Store and refreshes the status metrics.
type Collector struct {
	store  *Store
	logger logr.Logger
	gc     GarbageCollectionConfig
}

// NewCollector creates a Collector for store. A nil gc selects DefaultGC.
func NewCollector(store *Store, logger logr.Logger, gc *GarbageCollectionConfig) *Collector {
	gcConfig := DefaultGC()
	if gc != nil {
		gcConfig = *gc
	}
	return &Collector{store: store, logger: logger, gc: gcConfig}
}

// Start runs the collector until ctx is cancelled.
func (c *Collector) Start(ctx context.Context) error {
	if c.gc.GCInterval <= 0 {
		return fmt.Errorf("invalid GC interval %s", c.gc.GCInterval)
	}

	c.logger.Info("Starting status snapshot collector", "interval", c.gc.GCInterval, "maxAge", c.gc.MaxAge, "maxEntries", c.gc.MaxEntries)
	ticker := time.NewTicker(c.gc.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Status snapshot collector stopped")
			return nil
		case <-ticker.C:
			c.Collect()
		}
	}
}

// NeedLeaderElection implements the LeaderElectionRunnable interface.
func (c *Collector) NeedLeaderElection() bool {
	return false
}

// Collect runs one collection pass using two strategies:
// 1. Age-based: snapshots older than MaxAge (except latest)
// 2. Count-based: oldest snapshots when the store exceeds MaxEntries (except latest)
func (c *Collector) Collect() {
	prunedByAge := c.store.Prune(c.gc.MaxAge)
	if prunedByAge > 0 {
		RecordPruned(PruneReasonAge, prunedByAge)
		c.logger.Info("Pruned stale status snapshots by age", "count", prunedByAge, "maxAge", c.gc.MaxAge)
	}

	if total := c.store.TotalEntries(); total > c.gc.MaxEntries {
		prunedByCount := c.store.PruneByCount(c.gc.MaxEntries)
		if prunedByCount > 0 {
			RecordPruned(PruneReasonCount, prunedByCount)
			c.logger.Info("Pruned status snapshots by count", "count", prunedByCount, "maxEntries", c.gc.MaxEntries, "remaining", c.store.TotalEntries())
		}

		if remaining := c.store.TotalEntries(); remaining > c.gc.MaxEntries {
			c.logger.Error(errors.New("snapshot count exceeds maximum"), "Snapshot count exceeds maximum even after pruning - only latest snapshots remain", "remaining", remaining, "maxEntries", c.gc.MaxEntries)
		}
	}

	UpdateGauges(c.store)
}

// -----------------------------------------------------------------------------
// Manager Setup
// -----------------------------------------------------------------------------

// RunnableAdder is the part of a controller-runtime manager.Manager needed to
// register the collector.
type RunnableAdder interface {
	Add(manager.Runnable) error
}

// AddToManager registers a collector for store with mgr.
func AddToManager(mgr RunnableAdder, store *Store, logger logr.Logger, gc *GarbageCollectionConfig) (*Collector, error) {
	c := NewCollector(store, logger.WithName("status-collector"), gc)
	if err := mgr.Add(c); err != nil {
		return nil, fmt.Errorf("failed to add status collector: %w", err)
	}
	return c, nil
}
