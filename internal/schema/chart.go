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
	"errors"
	"fmt"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
)

// ValuesSchemaFile is the name of the schema file inside a chart.
const ValuesSchemaFile = "values.schema.json"

// ErrNoSchema is returned when a chart ships no values schema.
var ErrNoSchema = errors.New("chart has no " + ValuesSchemaFile)

// LoadChart loads a chart from a directory or packaged archive.
func LoadChart(path string) (*chart.Chart, error) {
	ch, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", path, err)
	}
	return ch, nil
}

// rawSchema returns the schema bytes of a chart. Charts built by the loader
// carry them in Schema; hand-assembled charts may only have the raw file.
func rawSchema(ch *chart.Chart) []byte {
	if ch == nil {
		return nil
	}
	if len(ch.Schema) > 0 {
		return ch.Schema
	}
	for _, f := range ch.Raw {
		if f != nil && f.Name == ValuesSchemaFile {
			return f.Data
		}
	}
	return nil
}

// LoadFromChart reads and resolves the values schema of a chart.
func LoadFromChart(ch *chart.Chart) (*JSONSchema, error) {
	data := rawSchema(ch)
	if data == nil {
		return nil, ErrNoSchema
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	resolved, err := ResolveReferences(s)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema references: %w", err)
	}
	return resolved, nil
}

// Validate checks values against the schema of a chart and its subcharts the
// way Helm does on install: the chart's own defaults are coalesced in first,
// so requirements met by values.yaml hold. Charts without a schema accept any
// values.
func Validate(values map[string]any, ch *chart.Chart) error {
	if ch == nil {
		return nil
	}
	if len(ch.Schema) == 0 {
		if data := rawSchema(ch); data != nil {
			withSchema := *ch
			withSchema.Schema = data
			ch = &withSchema
		}
	}

	coalesced, err := chartutil.CoalesceValues(ch, values)
	if err != nil {
		return fmt.Errorf("failed to coalesce values with the %s defaults: %w", ch.Name(), err)
	}
	if err := chartutil.ValidateAgainstSchema(ch, coalesced); err != nil {
		return fmt.Errorf("values do not match the %s schema: %w", ch.Name(), err)
	}
	return nil
}
