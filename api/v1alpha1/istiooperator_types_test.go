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

package v1alpha1

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

func mustValues(t *testing.T, m map[string]any) *Values {
	t.Helper()
	v, err := NewValues(m)
	require.NoError(t, err)
	return v
}

func TestIstioOperatorSpec_EmptyRoundTrip(t *testing.T) {
	t.Log("An empty spec encodes to an empty object")
	b, err := json.Marshal(IstioOperatorSpec{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	t.Log("An empty object decodes to an empty spec")
	var spec IstioOperatorSpec
	require.NoError(t, json.Unmarshal([]byte(`{}`), &spec))
	assert.True(t, spec.IsEmpty())
}

func TestIstioOperatorSpec_DemoExample(t *testing.T) {
	var spec IstioOperatorSpec
	require.NoError(t, json.Unmarshal([]byte(`{"profile":"demo","components":{"pilot":{"enabled":true}}}`), &spec))

	assert.Equal(t, "demo", spec.Profile)
	require.NotNil(t, spec.Components)
	pilot, ok := spec.Components.AsMap()["pilot"].(map[string]any)
	require.True(t, ok, "pilot should decode as a mapping")
	assert.Equal(t, true, pilot["enabled"])
	assert.False(t, spec.IsEmpty())
}

func TestIstioOperatorSpec_RoundTrip(t *testing.T) {
	spec := IstioOperatorSpec{
		Profile:              "minimal",
		InstallPackagePath:   "oci://registry.example.com/istio",
		Hub:                  "docker.io/istio",
		Tag:                  NewStringValue("1.22.8"),
		ResourceSuffix:       "blue",
		Namespace:            "istio-system",
		Revision:             "canary",
		CompatibilityVersion: "1.21",
		MeshConfig: mustValues(t, map[string]any{
			"accessLogFile": "/dev/stdout",
			"defaultConfig": map[string]any{"holdApplicationUntilProxyStarts": true},
		}),
		Components: mustValues(t, map[string]any{
			"pilot": map[string]any{"enabled": true},
			"ingressGateways": []any{
				map[string]any{"name": "istio-ingressgateway", "enabled": true},
			},
		}),
		Values: mustValues(t, map[string]any{
			"global": map[string]any{"proxy": map[string]any{"resources": map[string]any{"limits": map[string]any{"cpu": "2"}}}},
		}),
		UnvalidatedValues: mustValues(t, map[string]any{
			"experimental": []any{1, "two", false, nil, map[string]any{"deep": []any{[]any{3.5}}}},
		}),
	}

	b, err := json.Marshal(spec)
	require.NoError(t, err)
	t.Logf("encoded: %s", b)

	var got IstioOperatorSpec
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Empty(t, cmp.Diff(spec, got), "round trip should preserve every field")
}

func TestIstioOperatorSpec_UnknownFieldsIgnored(t *testing.T) {
	var spec IstioOperatorSpec
	err := json.Unmarshal([]byte(`{"profile":"default","futureField":{"x":1},"hub":"gcr.io/istio"}`), &spec)
	require.NoError(t, err)
	assert.Equal(t, "default", spec.Profile)
	assert.Equal(t, "gcr.io/istio", spec.Hub)
}

func TestIstioOperatorSpec_TagForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{name: "string tag", json: `{"tag":"1.22.8"}`, want: "1.22.8"},
		{name: "integer tag", json: `{"tag":1}`, want: "1"},
		{name: "float tag", json: `{"tag":1.22}`, want: "1.22"},
		{name: "bool tag", json: `{"tag":true}`, want: "true"},
		{name: "structured tag", json: `{"tag":{"major":1,"minor":22}}`, want: ""},
		{name: "null tag is absent", json: `{"tag":null}`, want: ""},
		{name: "no tag", json: `{}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec IstioOperatorSpec
			require.NoError(t, json.Unmarshal([]byte(tt.json), &spec))
			assert.Equal(t, tt.want, spec.TagString())
		})
	}

	t.Log("A null tag decodes as an absent tag")
	var spec IstioOperatorSpec
	require.NoError(t, json.Unmarshal([]byte(`{"tag":null}`), &spec))
	assert.Nil(t, spec.Tag)
}

func TestIstioOperatorSpec_OpenValueTypeMismatch(t *testing.T) {
	for _, doc := range []string{
		`{"values":[1,2,3]}`,
		`{"meshConfig":"not-an-object"}`,
		`{"components":true}`,
	} {
		var spec IstioOperatorSpec
		assert.Error(t, json.Unmarshal([]byte(doc), &spec), "document %s should be rejected", doc)
	}
}

func TestIstioOperatorSpec_DeepCopy(t *testing.T) {
	spec := &IstioOperatorSpec{
		Profile: "demo",
		Tag:     NewStringValue("1.22.8"),
		Values:  mustValues(t, map[string]any{"global": map[string]any{"hub": "a"}}),
	}
	cp := spec.DeepCopy()
	require.Empty(t, cmp.Diff(spec, cp))

	t.Log("Mutating the copy must not affect the original")
	cp.Values.Fields["global"].GetStructValue().Fields["hub"] = NewStringValue("b").Value
	cp.Tag.Value = NewStringValue("other").Value
	cp.Profile = "minimal"

	assert.Equal(t, "demo", spec.Profile)
	assert.Equal(t, "1.22.8", spec.TagString())
	assert.Equal(t, "a", spec.Values.AsMap()["global"].(map[string]any)["hub"])

	var nilSpec *IstioOperatorSpec
	assert.Nil(t, nilSpec.DeepCopy())
	assert.True(t, nilSpec.IsEmpty())
}

func TestIstioOperator_Scheme(t *testing.T) {
	scheme := runtime.NewScheme()
	require.NoError(t, AddToScheme(scheme))

	assert.True(t, scheme.Recognizes(GroupVersion.WithKind(IstioOperatorKind)))
	assert.True(t, scheme.Recognizes(GroupVersion.WithKind("IstioOperatorList")))

	obj, err := scheme.New(GroupVersion.WithKind(IstioOperatorKind))
	require.NoError(t, err)
	_, ok := obj.(*IstioOperator)
	assert.True(t, ok)
}

func TestIstioOperator_DocumentRoundTrip(t *testing.T) {
	iop := &IstioOperator{
		TypeMeta:   metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: IstioOperatorKind},
		ObjectMeta: metav1.ObjectMeta{Name: "installed-state", Namespace: "istio-system"},
		Spec:       IstioOperatorSpec{Profile: "demo"},
		Status: InstallStatus{
			Status: StatusReconciling,
			ComponentStatus: map[string]ComponentVersionStatus{
				"Pilot": {Version: "1.22.8", Status: StatusHealthy},
				"Base":  {Status: StatusReconciling},
			},
		},
	}

	b, err := json.Marshal(iop)
	require.NoError(t, err)

	var got IstioOperator
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, iop.Name, got.Name)
	assert.Equal(t, iop.Kind, got.Kind)
	assert.Empty(t, cmp.Diff(iop.Spec, got.Spec))
	assert.Empty(t, cmp.Diff(iop.Status, got.Status))

	t.Log("DeepCopyObject yields an independent object")
	cp := iop.DeepCopyObject().(*IstioOperator)
	cp.Status.ComponentStatus["Pilot"] = ComponentVersionStatus{Status: StatusError}
	assert.Equal(t, StatusHealthy, iop.Status.ComponentStatus["Pilot"].Status)
}

func TestIstioOperatorList_DeepCopy(t *testing.T) {
	list := &IstioOperatorList{Items: []IstioOperator{
		{ObjectMeta: metav1.ObjectMeta{Name: "a"}, Spec: IstioOperatorSpec{Hub: "x"}},
		{ObjectMeta: metav1.ObjectMeta{Name: "b"}},
	}}
	cp := list.DeepCopyObject().(*IstioOperatorList)
	require.Len(t, cp.Items, 2)
	cp.Items[0].Spec.Hub = "y"
	assert.Equal(t, "x", list.Items[0].Spec.Hub)
}
