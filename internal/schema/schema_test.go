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

package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chart"

	"github.com/networking-incubator/istio-install-api/test/utils"
)

const gatewaySchema = `{
  "$schema": "http://json-schema.org/schema#",
  "$ref": "#/$defs/values",
  "$defs": {
    "values": {
      "type": "object",
      "properties": {
        "replicaCount": {"type": ["integer", "null"]},
        "autoscaling": {
          "type": "object",
          "properties": {
            "enabled": {"type": "boolean"},
            "minReplicas": {"type": "integer"}
          }
        },
        "labels": {"type": "object", "additionalProperties": {"type": "string"}},
        "env": {"type": "object", "additionalProperties": true},
        "ports": {"type": "array", "items": {"$ref": "#/$defs/port"}}
      },
      "additionalProperties": false
    },
    "port": {
      "type": "object",
      "properties": {"name": {"type": "string"}, "port": {"type": "integer"}}
    }
  }
}`

func TestFilter_FilterValues(t *testing.T) {
	s, err := Parse([]byte(gatewaySchema))
	require.NoError(t, err)
	s, err = ResolveReferences(s)
	require.NoError(t, err)
	assert.Equal(t, "object", s.Type.Primary())

	input := map[string]any{
		"replicaCount": 2.0,
		"autoscaling":  map[string]any{"enabled": true, "minReplicas": 1.0, "bogus": "x"},
		"labels":       map[string]any{"app": "istio-ingressgateway"},
		"env":          map[string]any{"ISTIO_META_ROUTER_MODE": "standard"},
		"ports":        []any{map[string]any{"name": "http2", "port": 80.0, "nodePort": 30080.0}},
		"meshConfig":   map[string]any{"accessLogFile": "/dev/stdout"},
		"pilot":        map[string]any{"autoscaleEnabled": true},
	}
	want := map[string]any{
		"replicaCount": 2.0,
		"autoscaling":  map[string]any{"enabled": true, "minReplicas": 1.0},
		"labels":       map[string]any{"app": "istio-ingressgateway"},
		"env":          map[string]any{"ISTIO_META_ROUTER_MODE": "standard"},
		"ports":        []any{map[string]any{"name": "http2", "port": 80.0}},
	}

	f := NewFilter(s).WithLogger(utils.NewTestLogger(t))
	assert.Equal(t, want, f.FilterValues(input))

	t.Log("A nil schema keeps everything")
	assert.Equal(t, input, NewFilter(nil).FilterValues(input))

	t.Log("Nulls of declared fields are kept, undeclared ones are dropped")
	got := f.FilterValues(map[string]any{"replicaCount": nil, "meshConfig": nil})
	assert.Equal(t, map[string]any{"replicaCount": nil}, got)
}

func TestFilter_NoProperties(t *testing.T) {
	f := NewFilter(&JSONSchema{Type: SchemaType{"object"}})
	in := map[string]any{"anything": "goes"}
	assert.Equal(t, in, f.FilterValues(in))
}

func TestSchemaType(t *testing.T) {
	tests := []struct {
		json string
		want string
	}{
		{json: `"string"`, want: "string"},
		{json: `["null", "object"]`, want: "object"},
		{json: `["null"]`, want: "null"},
		{json: `[]`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			var st SchemaType
			require.NoError(t, json.Unmarshal([]byte(tt.json), &st))
			assert.Equal(t, tt.want, st.Primary())
		})
	}

	var st SchemaType
	assert.Error(t, json.Unmarshal([]byte(`42`), &st))

	b, err := json.Marshal(SchemaType{"string"})
	require.NoError(t, err)
	assert.Equal(t, `"string"`, string(b))
}

func TestAdditionalProperties(t *testing.T) {
	var s JSONSchema
	require.NoError(t, json.Unmarshal([]byte(`{"additionalProperties": false}`), &s))
	require.NotNil(t, s.AdditionalProperties)
	assert.False(t, s.AdditionalProperties.Allowed)

	require.NoError(t, json.Unmarshal([]byte(`{"additionalProperties": {"type": "string"}}`), &s))
	assert.True(t, s.AdditionalProperties.Allowed)
	require.NotNil(t, s.AdditionalProperties.Schema)
	assert.Equal(t, "string", s.AdditionalProperties.Schema.Type.Primary())

	b, err := json.Marshal(AdditionalProperties{Allowed: true})
	require.NoError(t, err)
	assert.Equal(t, `true`, string(b))
}

func TestResolveReferences_Errors(t *testing.T) {
	_, err := ResolveReferences(&JSONSchema{Ref: "#/$defs/missing"})
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	cyclic := &JSONSchema{
		Ref:  "#/$defs/a",
		Defs: map[string]*JSONSchema{"a": {Ref: "#/$defs/a"}},
	}
	_, err = ResolveReferences(cyclic)
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	t.Log("References outside $defs are left untouched")
	external := &JSONSchema{Ref: "https://example.com/schema.json"}
	got, err := ResolveReferences(external)
	require.NoError(t, err)
	assert.Same(t, external, got)

	got, err = ResolveReferences(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadFromChart(t *testing.T) {
	t.Log("Schema bytes are read from the chart's Schema field")
	ch := &chart.Chart{Metadata: &chart.Metadata{Name: "gateway"}, Schema: []byte(gatewaySchema)}
	s, err := LoadFromChart(ch)
	require.NoError(t, err)
	assert.Contains(t, s.Properties, "autoscaling")

	t.Log("Hand-assembled charts fall back to the raw file list")
	ch = &chart.Chart{
		Metadata: &chart.Metadata{Name: "gateway"},
		Raw:      []*chart.File{{Name: ValuesSchemaFile, Data: []byte(gatewaySchema)}},
	}
	s, err = LoadFromChart(ch)
	require.NoError(t, err)
	assert.Contains(t, s.Properties, "ports")

	_, err = LoadFromChart(&chart.Chart{Metadata: &chart.Metadata{Name: "base"}})
	assert.ErrorIs(t, err, ErrNoSchema)

	_, err = LoadFromChart(&chart.Chart{Schema: []byte(`{not json`)})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	ch := &chart.Chart{
		Metadata: &chart.Metadata{Name: "istiod"},
		Schema:   []byte(`{"type":"object","properties":{"replicaCount":{"type":"integer"}}}`),
	}

	assert.NoError(t, Validate(map[string]any{"replicaCount": 2.0}, ch))
	assert.Error(t, Validate(map[string]any{"replicaCount": "three"}, ch))

	t.Log("Charts without a schema accept anything")
	assert.NoError(t, Validate(map[string]any{"x": "y"}, &chart.Chart{Metadata: &chart.Metadata{Name: "base"}}))
}

func TestValidate_ChartDefaults(t *testing.T) {
	ch := &chart.Chart{
		Metadata: &chart.Metadata{Name: "gateway"},
		Values:   map[string]any{"service": map[string]any{"type": "LoadBalancer"}},
		Schema:   []byte(`{"type":"object","required":["service"]}`),
	}

	t.Log("A requirement met by the chart's own values holds for any overlay")
	overlay := map[string]any{"labels": map[string]any{"app": "x"}}
	require.NoError(t, Validate(overlay, ch))
	assert.NotContains(t, overlay, "service", "the caller's values are not modified")

	t.Log("A null overlay deletes the default and breaks the requirement")
	assert.Error(t, Validate(map[string]any{"service": nil}, ch))

	t.Log("Without the default the requirement fails")
	ch.Values = nil
	assert.Error(t, Validate(overlay, ch))
}

func TestValidate_Subcharts(t *testing.T) {
	sub := &chart.Chart{
		Metadata: &chart.Metadata{Name: "ztunnel"},
		Schema:   []byte(`{"type":"object","properties":{"replicaCount":{"type":"integer"}}}`),
	}
	parent := &chart.Chart{Metadata: &chart.Metadata{Name: "ambient"}}
	parent.AddDependency(sub)

	assert.NoError(t, Validate(map[string]any{"ztunnel": map[string]any{"replicaCount": 2}}, parent))
	assert.Error(t, Validate(map[string]any{"ztunnel": map[string]any{"replicaCount": "two"}}, parent))
}

func TestValidate_RawSchemaFile(t *testing.T) {
	ch := &chart.Chart{
		Metadata: &chart.Metadata{Name: "istiod"},
		Raw:      []*chart.File{{Name: ValuesSchemaFile, Data: []byte(`{"type":"object","properties":{"replicaCount":{"type":"integer"}}}`)}},
	}
	assert.Error(t, Validate(map[string]any{"replicaCount": "three"}, ch))
	assert.Empty(t, ch.Schema)
}

func TestLoadChart(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Chart.yaml":         "apiVersion: v2\nname: gateway\nversion: 1.22.8\n",
		"values.yaml":        "replicaCount: 1\n",
		"values.schema.json": `{"type":"object","properties":{"replicaCount":{"type":"integer"}}}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	ch, err := LoadChart(dir)
	require.NoError(t, err)
	assert.Equal(t, "gateway", ch.Name())

	s, err := LoadFromChart(ch)
	require.NoError(t, err)
	assert.Contains(t, s.Properties, "replicaCount")

	_, err = LoadChart(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
