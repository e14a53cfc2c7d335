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

// Package status keeps the history of observed install states and derives
// summaries, conditions and metrics from it.
package status

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/types"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// -----------------------------------------------------------------------------
// Snapshot
// -----------------------------------------------------------------------------

// Snapshot is one published InstallStatus with metadata. Snapshots are never
// modified after they are stored.
type Snapshot struct {
	UUID      string                        `json:"uuid"`
	Timestamp time.Time                     `json:"timestamp"`
	Sequence  int64                         `json:"sequence"`
	Status    installv1alpha1.InstallStatus `json:"status"`
}

// DeepCopy returns a copy of the snapshot.
func (s *Snapshot) DeepCopy() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	s.Status.DeepCopyInto(&out.Status)
	return &out
}

// snapshots wraps the history of one install key. Entries are ordered oldest
// to newest and the latest entry is marked.
type snapshots struct {
	Latest   string
	Sequence int64
	Entries  []*Snapshot // Ordered oldest to newest
}

func (s *snapshots) latest() *Snapshot {
	for i := len(s.Entries) - 1; i >= 0; i-- {
		if s.Entries[i].UUID == s.Latest {
			return s.Entries[i]
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Store
// -----------------------------------------------------------------------------

// Store provides thread-safe storage for install status snapshots with
// versioning. Values going in and out are copied.
type Store struct {
	mu      sync.RWMutex
	entries map[types.NamespacedName]*snapshots
	now     func() time.Time
}

// NewStore creates a new Store instance
func NewStore() *Store {
	return &Store{
		entries: make(map[types.NamespacedName]*snapshots),
		now:     time.Now,
	}
}

// Get retrieves the latest snapshot for the given key
func (s *Store) Get(key types.NamespacedName) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.entries[key]
	if !ok || len(entries.Entries) == 0 {
		return nil, false
	}
	latest := entries.latest()
	if latest == nil {
		return nil, false
	}
	return latest.DeepCopy(), true
}

// Put stores a copy of status for the given key with a new UUID, timestamp
// and sequence number, and marks it latest. The stored snapshot is returned.
func (s *Store) Put(key types.NamespacedName, status installv1alpha1.InstallStatus) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[key]
	if entries == nil {
		entries = &snapshots{}
		s.entries[key] = entries
	}
	entries.Sequence++

	snap := &Snapshot{
		UUID:      uuid.New().String(),
		Timestamp: s.now(),
		Sequence:  entries.Sequence,
	}
	status.DeepCopyInto(&snap.Status)

	entries.Entries = append(entries.Entries, snap)
	entries.Latest = snap.UUID
	return snap.DeepCopy()
}

// History returns copies of every retained snapshot for key, oldest first.
func (s *Store) History(key types.NamespacedName) []*Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.entries[key]
	if !ok {
		return nil
	}
	out := make([]*Snapshot, 0, len(entries.Entries))
	for _, e := range entries.Entries {
		out = append(out, e.DeepCopy())
	}
	return out
}

// ListKeys returns all keys stored, sorted by namespace then name.
func (s *Store) ListKeys() []types.NamespacedName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]types.NamespacedName, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Namespace != keys[j].Namespace {
			return keys[i].Namespace < keys[j].Namespace
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// Delete forgets every snapshot of key and returns how many were removed.
func (s *Store) Delete(key types.NamespacedName) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.entries[key]
	if !ok {
		return 0
	}
	delete(s.entries, key)
	return len(entries.Entries)
}

// CountEntries returns the number of snapshots retained for key.
func (s *Store) CountEntries(key types.NamespacedName) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entries, ok := s.entries[key]; ok {
		return len(entries.Entries)
	}
	return 0
}

// TotalEntries returns the number of snapshots retained across all keys.
func (s *Store) TotalEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, entries := range s.entries {
		total += len(entries.Entries)
	}
	return total
}

// SetEntryTimestamp updates the timestamp of an entry.
func (s *Store) SetEntryTimestamp(key types.NamespacedName, index int, timestamp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries, ok := s.entries[key]; ok {
		if index >= 0 && index < len(entries.Entries) {
			entries.Entries[index].Timestamp = timestamp
		}
	}
}

// Summary counts keys by the overall status of their latest snapshot. Unset
// codes count as NONE.
func (s *Store) Summary() map[installv1alpha1.StatusCode]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[installv1alpha1.StatusCode]int, len(installv1alpha1.StatusCodes))
	for _, entries := range s.entries {
		if latest := entries.latest(); latest != nil {
			out[latest.Status.Status.OrNone()]++
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Store - Cleanup
// -----------------------------------------------------------------------------

// Prune removes snapshots older than the specified age, but never removes
// the latest snapshot for any key
func (s *Store) Prune(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return 0
	}

	pruned := 0
	now := s.now()
	for _, entries := range s.entries {
		kept := make([]*Snapshot, 0, len(entries.Entries))
		for _, entry := range entries.Entries {
			if entry.UUID == entries.Latest {
				kept = append(kept, entry)
				continue // never prune latest
			}

			if now.Sub(entry.Timestamp) <= maxAge {
				kept = append(kept, entry)
			} else {
				pruned++
			}
		}
		entries.Entries = kept
	}

	return pruned
}

// PruneByCount removes the oldest snapshots across all keys until at most
// maxEntries remain, but never removes the latest snapshot for any key. The
// result may stay above maxEntries when there are more keys than that.
func (s *Store) PruneByCount(maxEntries int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	var candidates []*Snapshot
	for _, entries := range s.entries {
		total += len(entries.Entries)
		for _, entry := range entries.Entries {
			if entry.UUID != entries.Latest {
				candidates = append(candidates, entry)
			}
		}
	}
	if total <= maxEntries {
		return 0
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Timestamp.Before(candidates[j].Timestamp)
	})

	drop := make(map[string]struct{})
	for _, c := range candidates {
		if total-len(drop) <= maxEntries {
			break
		}
		drop[c.UUID] = struct{}{}
	}
	if len(drop) == 0 {
		return 0
	}

	for _, entries := range s.entries {
		kept := make([]*Snapshot, 0, len(entries.Entries))
		for _, entry := range entries.Entries {
			if _, ok := drop[entry.UUID]; !ok {
				kept = append(kept, entry)
			}
		}
		entries.Entries = kept
	}
	return len(drop)
}
