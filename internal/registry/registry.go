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

// Package registry holds the desired state submitted for each install and the
// status reported back for it. It is the in-process home of the submit and
// get-status operations; no reconciliation happens here.
package registry

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/types"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/manifest"
	"github.com/networking-incubator/istio-install-api/internal/status"
)

const kind = "IstioOperator"

var (
	// ErrNotFound is returned for a key with no accepted submission.
	ErrNotFound = errors.New("install not found")

	// ErrRejected is returned for a submission or report that cannot be
	// accepted.
	ErrRejected = errors.New("rejected")
)

// -----------------------------------------------------------------------------
// Submission
// -----------------------------------------------------------------------------

// Submission is an accepted desired state.
type Submission struct {
	UUID       string                            `json:"uuid"`
	Key        types.NamespacedName              `json:"key"`
	Generation int64                             `json:"generation"`
	Timestamp  time.Time                         `json:"timestamp"`
	Spec       installv1alpha1.IstioOperatorSpec `json:"spec"`
}

// DeepCopy returns a copy of the submission.
func (s *Submission) DeepCopy() *Submission {
	if s == nil {
		return nil
	}
	out := *s
	s.Spec.DeepCopyInto(&out.Spec)
	return &out
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry is safe for concurrent use: any number of readers may race with
// writers, and every value crossing its boundary is a copy.
type Registry struct {
	mu          sync.RWMutex
	submissions map[types.NamespacedName]*Submission
	generations map[types.NamespacedName]int64
	statuses    *status.Store
	now         func() time.Time
}

// New creates a Registry that records reported statuses in store. A nil
// store gets a private one.
func New(store *status.Store) *Registry {
	if store == nil {
		store = status.NewStore()
	}
	return &Registry{
		submissions: make(map[types.NamespacedName]*Submission),
		generations: make(map[types.NamespacedName]int64),
		statuses:    store,
		now:         time.Now,
	}
}

// Store returns the status store backing the registry.
func (r *Registry) Store() *status.Store {
	return r.statuses
}

func validateKey(key types.NamespacedName) error {
	if key.Name == "" {
		return fmt.Errorf("%w: install name must not be empty", ErrRejected)
	}
	return nil
}

// Submit records spec as the desired state of key and returns the accepted
// submission. The spec is copied. No semantic checks are made, so
// contradictory settings are accepted as given.
func (r *Registry) Submit(ctx context.Context, key types.NamespacedName, spec *installv1alpha1.IstioOperatorSpec) (*Submission, error) {
	log := logf.FromContext(ctx)
	if err := validateKey(key); err != nil {
		logError(log, key, err, "submission rejected")
		return nil, err
	}
	if spec == nil {
		spec = &installv1alpha1.IstioOperatorSpec{}
	}

	r.mu.Lock()
	r.generations[key]++
	sub := &Submission{
		UUID:       uuid.New().String(),
		Key:        key,
		Generation: r.generations[key],
		Timestamp:  r.now(),
	}
	spec.DeepCopyInto(&sub.Spec)
	r.submissions[key] = sub
	out := sub.DeepCopy()
	r.mu.Unlock()

	logInfo(log, key, "accepted desired state", "generation", out.Generation, "uuid", out.UUID, "profile", out.Spec.Profile)
	return out, nil
}

// SubmitRaw decodes data as a YAML or JSON IstioOperatorSpec, or a complete
// IstioOperator document, and submits it. Malformed data fails with
// ErrRejected. Unknown fields are ignored.
func (r *Registry) SubmitRaw(ctx context.Context, key types.NamespacedName, data []byte) (*Submission, error) {
	spec, err := manifest.DecodeSpec(data)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRejected, err)
		logError(logf.FromContext(ctx), key, err, "submission rejected")
		return nil, err
	}
	return r.Submit(ctx, key, spec)
}

// Desired returns the latest accepted submission for key.
func (r *Registry) Desired(ctx context.Context, key types.NamespacedName) (*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.submissions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return sub.DeepCopy(), nil
}

// ReportStatus publishes a new status snapshot for key. Status codes outside
// the closed set are rejected, including within componentStatus.
func (r *Registry) ReportStatus(ctx context.Context, key types.NamespacedName, st installv1alpha1.InstallStatus) (*status.Snapshot, error) {
	log := logf.FromContext(ctx)
	if err := validateStatus(st); err != nil {
		err = fmt.Errorf("%w: %w", ErrRejected, err)
		logError(log, key, err, "status report rejected")
		return nil, err
	}

	// The read lock keeps Withdraw from interleaving between the existence
	// check and the write.
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.submissions[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	snap := r.statuses.Put(key, st)
	status.RecordReport(st.Status)
	logDebug(log, key, "status reported", "status", st.Status.OrNone(), "sequence", snap.Sequence)
	return snap, nil
}

func validateStatus(st installv1alpha1.InstallStatus) error {
	if st.Status != "" && !st.Status.IsValid() {
		return fmt.Errorf("%w: %q", installv1alpha1.ErrUnknownStatusCode, st.Status)
	}
	for name, c := range st.ComponentStatus {
		if c.Status != "" && !c.Status.IsValid() {
			return fmt.Errorf("component %s: %w: %q", name, installv1alpha1.ErrUnknownStatusCode, c.Status)
		}
	}
	return nil
}

// GetStatus returns the latest status of key. An install that was submitted
// but never reported on is in state NONE.
func (r *Registry) GetStatus(ctx context.Context, key types.NamespacedName) (installv1alpha1.InstallStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.submissions[key]; !ok {
		return installv1alpha1.InstallStatus{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	snap, ok := r.statuses.Get(key)
	if !ok {
		return installv1alpha1.InstallStatus{Status: installv1alpha1.StatusNone}, nil
	}
	return snap.Status, nil
}

// Withdraw forgets the desired state of key together with its status
// history.
func (r *Registry) Withdraw(ctx context.Context, key types.NamespacedName) error {
	r.mu.Lock()
	if _, ok := r.submissions[key]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(r.submissions, key)
	removed := r.statuses.Delete(key)
	r.mu.Unlock()

	status.RecordPruned(status.PruneReasonWithdraw, removed)
	logInfo(logf.FromContext(ctx), key, "withdrawn", "snapshots", removed)
	return nil
}

// Keys returns the keys with an accepted submission, sorted by namespace
// then name.
func (r *Registry) Keys() []types.NamespacedName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]types.NamespacedName, 0, len(r.submissions))
	for k := range r.submissions {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b types.NamespacedName) int {
		return cmp.Or(strings.Compare(a.Namespace, b.Namespace), strings.Compare(a.Name, b.Name))
	})
	return keys
}

// -----------------------------------------------------------------------------
// Logging Utilities
// -----------------------------------------------------------------------------

// debugLevel is the go-logr level for debug/verbose logging
const debugLevel = 1

// logInfo logs an info-level message with consistent structured context.
func logInfo(log logr.Logger, key types.NamespacedName, msg string, keysAndValues ...any) {
	args := append([]any{"namespace", key.Namespace, "name", key.Name}, keysAndValues...)
	log.Info(fmt.Sprintf("%s: %s", kind, msg), args...)
}

// logDebug logs a debug-level message with consistent structured context.
func logDebug(log logr.Logger, key types.NamespacedName, msg string, keysAndValues ...any) {
	args := append([]any{"namespace", key.Namespace, "name", key.Name}, keysAndValues...)
	log.V(debugLevel).Info(fmt.Sprintf("%s: %s", kind, msg), args...)
}

// logError logs an error-level message with consistent structured context.
func logError(log logr.Logger, key types.NamespacedName, err error, msg string, keysAndValues ...any) {
	args := append([]any{"namespace", key.Namespace, "name", key.Name}, keysAndValues...)
	log.Error(err, fmt.Sprintf("%s: %s", kind, msg), args...)
}
