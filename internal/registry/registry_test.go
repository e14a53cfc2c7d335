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

package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/types"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/status"
	"github.com/networking-incubator/istio-install-api/test/utils"
)

var testKey = types.NamespacedName{Namespace: "istio-system", Name: "installed-state"}

func testContext(t *testing.T) context.Context {
	return logf.IntoContext(context.Background(), utils.NewTestLogger(t))
}

func TestSubmit(t *testing.T) {
	ctx := testContext(t)
	r := New(nil)

	iop := utils.NewTestIstioOperator(utils.IstioOperatorOptions{Profile: "demo", Tag: "1.22.8"})
	first, err := r.Submit(ctx, testKey, &iop.Spec)
	require.NoError(t, err)
	assert.NotEmpty(t, first.UUID)
	assert.Equal(t, int64(1), first.Generation)
	assert.Equal(t, "demo", first.Spec.Profile)

	t.Log("Mutating the caller's spec does not change the accepted state")
	iop.Spec.Profile = "minimal"
	desired, err := r.Desired(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "demo", desired.Spec.Profile)
	assert.Equal(t, "1.22.8", desired.Spec.TagString())

	t.Log("A resubmission replaces the desired state and bumps the generation")
	second, err := r.Submit(ctx, testKey, &iop.Spec)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Generation)
	assert.NotEqual(t, first.UUID, second.UUID)
	desired, err = r.Desired(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "minimal", desired.Spec.Profile)
}

func TestSubmit_AcceptsEmptyAndContradictorySpecs(t *testing.T) {
	ctx := testContext(t)
	r := New(nil)

	sub, err := r.Submit(ctx, testKey, nil)
	require.NoError(t, err)
	assert.True(t, sub.Spec.IsEmpty())

	iop := utils.NewTestIstioOperator(utils.IstioOperatorOptions{
		Components: map[string]any{"pilot": map[string]any{"enabled": true}},
		Values:     map[string]any{"pilot": map[string]any{"enabled": false}},
	})
	_, err = r.Submit(ctx, testKey, &iop.Spec)
	assert.NoError(t, err)
}

func TestSubmit_RejectsEmptyName(t *testing.T) {
	r := New(nil)
	_, err := r.Submit(testContext(t), types.NamespacedName{Namespace: "istio-system"}, nil)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Empty(t, r.Keys())
}

func TestSubmitRaw(t *testing.T) {
	ctx := testContext(t)
	r := New(nil)

	sub, err := r.SubmitRaw(ctx, testKey, []byte(`
profile: demo
components:
  pilot:
    enabled: true
someFutureField: ignored
`))
	require.NoError(t, err)
	assert.Equal(t, "demo", sub.Spec.Profile)
	require.NotNil(t, sub.Spec.Components)
	assert.Contains(t, sub.Spec.Components.AsMap(), "pilot")

	_, err = r.SubmitRaw(ctx, testKey, []byte(`{"profile": ["not", "a", "string"]}`))
	assert.ErrorIs(t, err, ErrRejected)

	t.Log("A rejected submission leaves the previous desired state in place")
	desired, err := r.Desired(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "demo", desired.Spec.Profile)
}

func TestDesired_NotFound(t *testing.T) {
	_, err := New(nil).Desired(testContext(t), testKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportAndGetStatus(t *testing.T) {
	ctx := testContext(t)
	r := New(nil)

	_, err := r.GetStatus(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.ReportStatus(ctx, testKey, installv1alpha1.InstallStatus{Status: installv1alpha1.StatusHealthy})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Submit(ctx, testKey, nil)
	require.NoError(t, err)

	t.Log("An install that was never reported on is in state NONE")
	got, err := r.GetStatus(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, installv1alpha1.StatusNone, got.Status)

	reported := utils.NewTestInstallStatus(utils.InstallStatusOptions{
		Status:  installv1alpha1.StatusError,
		Message: "pilot failed to become ready",
		Components: map[string]installv1alpha1.StatusCode{
			"Base":  installv1alpha1.StatusHealthy,
			"Pilot": installv1alpha1.StatusError,
		},
	})
	snap, err := r.ReportStatus(ctx, testKey, reported)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Sequence)

	got, err = r.GetStatus(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, reported, got)
	assert.Equal(t, "Pilot failed", got.ComponentStatus["Pilot"].Error)
	assert.Len(t, r.Store().History(testKey), 1)
}

func TestReportStatus_RejectsUnknownCodes(t *testing.T) {
	ctx := testContext(t)
	r := New(nil)
	_, err := r.Submit(ctx, testKey, nil)
	require.NoError(t, err)

	_, err = r.ReportStatus(ctx, testKey, installv1alpha1.InstallStatus{Status: "DEGRADED"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, installv1alpha1.ErrUnknownStatusCode)

	_, err = r.ReportStatus(ctx, testKey, installv1alpha1.InstallStatus{
		Status: installv1alpha1.StatusHealthy,
		ComponentStatus: map[string]installv1alpha1.ComponentVersionStatus{
			"Pilot": {Status: "healthy"},
		},
	})
	assert.ErrorIs(t, err, installv1alpha1.ErrUnknownStatusCode)

	got, err := r.GetStatus(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, installv1alpha1.StatusNone, got.Status, "rejected reports are not recorded")
}

func TestWithdraw(t *testing.T) {
	ctx := testContext(t)
	store := status.NewStore()
	r := New(store)

	_, err := r.Submit(ctx, testKey, nil)
	require.NoError(t, err)
	for _, code := range []installv1alpha1.StatusCode{installv1alpha1.StatusUpdating, installv1alpha1.StatusHealthy} {
		_, err = r.ReportStatus(ctx, testKey, installv1alpha1.InstallStatus{Status: code})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, store.CountEntries(testKey))

	require.NoError(t, r.Withdraw(ctx, testKey))
	assert.Zero(t, store.CountEntries(testKey))
	_, err = r.GetStatus(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Withdraw(ctx, testKey), ErrNotFound)

	t.Log("A new submission after a withdrawal keeps counting generations")
	sub, err := r.Submit(ctx, testKey, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sub.Generation)
}

func TestKeys(t *testing.T) {
	ctx := testContext(t)
	r := New(nil)
	for _, k := range []types.NamespacedName{
		{Namespace: "b", Name: "one"},
		{Namespace: "a", Name: "two"},
		{Namespace: "a", Name: "one"},
	} {
		_, err := r.Submit(ctx, k, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []types.NamespacedName{
		{Namespace: "a", Name: "one"},
		{Namespace: "a", Name: "two"},
		{Namespace: "b", Name: "one"},
	}, r.Keys())
}

func TestRegistry_Logging(t *testing.T) {
	recorder, logger := utils.NewLogRecorder()
	ctx := logf.IntoContext(context.Background(), logger)
	r := New(nil)

	_, err := r.Submit(ctx, testKey, nil)
	require.NoError(t, err)
	_, err = r.Submit(ctx, types.NamespacedName{}, nil)
	require.Error(t, err)

	assert.True(t, recorder.HasMessage("IstioOperator: accepted desired state"))
	require.Len(t, recorder.Errors(), 1)
	assert.Contains(t, recorder.Errors()[0].Message, "submission rejected")
}

func TestRegistry_Concurrency(t *testing.T) {
	ctx := context.Background()
	r := New(nil)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			key := types.NamespacedName{Namespace: "istio-system", Name: fmt.Sprintf("iop-%d", w)}
			for i := 0; i < 50; i++ {
				_, err := r.Submit(ctx, key, nil)
				assert.NoError(t, err)
				_, err = r.ReportStatus(ctx, key, installv1alpha1.InstallStatus{Status: installv1alpha1.StatusReconciling})
				assert.NoError(t, err)
			}
		}(w)
	}
	for rd := 0; rd < 4; rd++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, key := range r.Keys() {
					st, err := r.GetStatus(ctx, key)
					if assert.NoError(t, err) {
						assert.True(t, st.Status.IsValid())
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, r.Keys(), 4)
	for _, key := range r.Keys() {
		sub, err := r.Desired(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(50), sub.Generation)
	}
}
