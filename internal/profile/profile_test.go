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

package profile

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/values"
	"github.com/networking-incubator/istio-install-api/test/utils"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"default", "demo", "empty", "minimal"}, Names())
}

func TestGet(t *testing.T) {
	_, err := Get("ambient-preview")
	assert.ErrorIs(t, err, ErrUnknownProfile)

	def, err := Get("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, def.Profile)
	assert.Equal(t, "docker.io/istio", def.Hub)
	assert.Equal(t, DefaultTag, def.TagString())
	assert.Equal(t, "istio-system", def.Namespace)

	t.Log("Callers get a copy they may modify")
	def.Hub = "example.com/mirror"
	again, err := Get(DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "docker.io/istio", again.Hub)
}

func TestGet_DemoBuildsOnDefault(t *testing.T) {
	demo, err := Get("demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", demo.Profile)
	assert.Equal(t, "docker.io/istio", demo.Hub, "hub is inherited from default")
	assert.Equal(t, DefaultTag, demo.TagString())

	components := values.FromValues(demo.Components)
	enabled, ok := components.GetPathBool("pilot.enabled")
	require.True(t, ok, "pilot.enabled is inherited from default")
	assert.True(t, enabled)
	cpu, ok := components.GetPathString("pilot.k8s.resources.requests.cpu")
	require.True(t, ok)
	assert.Equal(t, "10m", cpu)

	egress, ok := components.GetPathBool("egressGateways.0.enabled")
	require.True(t, ok)
	assert.True(t, egress, "demo enables the egress gateway")

	mesh := values.FromValues(demo.MeshConfig)
	merge, ok := mesh.GetPathBool("enablePrometheusMerge")
	require.True(t, ok)
	assert.True(t, merge)
	accessLog, _ := mesh.GetPathString("accessLogFile")
	assert.Equal(t, "/dev/stdout", accessLog)
}

func TestGet_Minimal(t *testing.T) {
	minimal, err := Get("minimal")
	require.NoError(t, err)

	components := values.FromValues(minimal.Components)
	ingress, ok := components.GetPathBool("ingressGateways.0.enabled")
	require.True(t, ok)
	assert.False(t, ingress)
	pilot, _ := components.GetPathBool("pilot.enabled")
	assert.True(t, pilot)
}

func TestGet_Empty(t *testing.T) {
	empty, err := Get(EmptyProfile)
	require.NoError(t, err)
	assert.Equal(t, EmptyProfile, empty.Profile)
	assert.Nil(t, empty.Tag)
	assert.Empty(t, empty.Hub)
	assert.Nil(t, empty.Components)
}

func TestResolve(t *testing.T) {
	ctx := logf.IntoContext(context.Background(), utils.NewTestLogger(t))

	iop := utils.NewTestIstioOperator(utils.IstioOperatorOptions{
		Profile:  "demo",
		Revision: "canary",
		Tag:      "1.23.0",
		Components: map[string]any{
			"pilot": map[string]any{"k8s": map[string]any{"resources": map[string]any{"requests": map[string]any{"cpu": "500m"}}}},
			"cni":   map[string]any{"enabled": true},
		},
		Values: map[string]any{
			"pilot": map[string]any{"autoscaleEnabled": nil},
		},
	})
	iop.Spec.Hub = "example.com/mirror"
	input := iop.Spec.DeepCopy()

	resolved, err := Resolve(ctx, &iop.Spec)
	require.NoError(t, err)

	assert.Equal(t, "demo", resolved.Profile)
	assert.Equal(t, "example.com/mirror", resolved.Hub)
	assert.Equal(t, "1.23.0", resolved.TagString())
	assert.Equal(t, "canary", resolved.Revision)
	assert.Equal(t, "istio-system", resolved.Namespace, "unset fields come from the profile")

	components := values.FromValues(resolved.Components)
	cpu, _ := components.GetPathString("pilot.k8s.resources.requests.cpu")
	assert.Equal(t, "500m", cpu)
	memory, _ := components.GetPathString("pilot.k8s.resources.requests.memory")
	assert.Equal(t, "100Mi", memory, "siblings of overridden keys are kept")
	cni, _ := components.GetPathBool("cni.enabled")
	assert.True(t, cni)

	vals := values.FromValues(resolved.Values)
	_, found := vals.GetPath("pilot.autoscaleEnabled")
	assert.False(t, found, "a null deletes the profile's value")

	assert.Empty(t, cmp.Diff(input, &iop.Spec), "the input is not modified")
}

func TestResolve_NullTagKeepsProfileTag(t *testing.T) {
	tag, err := installv1alpha1.NewValue(nil)
	require.NoError(t, err)
	resolved, err := Resolve(context.Background(), &installv1alpha1.IstioOperatorSpec{Tag: tag})
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, resolved.Profile)
	assert.Equal(t, DefaultTag, resolved.TagString())
}

func TestResolve_UnknownProfile(t *testing.T) {
	_, err := Resolve(context.Background(), &installv1alpha1.IstioOperatorSpec{Profile: "nope"})
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, DefaultTag, Version(&installv1alpha1.IstioOperatorSpec{}))
	assert.Equal(t, DefaultTag, Version(nil))
	assert.Equal(t, "1.24.1", Version(&installv1alpha1.IstioOperatorSpec{Tag: installv1alpha1.NewStringValue("1.24.1")}))
	assert.Equal(t, "25", Version(&installv1alpha1.IstioOperatorSpec{Tag: installv1alpha1.NewNumberValue(25)}))
}
