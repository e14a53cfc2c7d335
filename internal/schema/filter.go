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
	"github.com/go-logr/logr"
)

// debugLevel is the go-logr level for debug/verbose logging
const debugLevel = 1

// -----------------------------------------------------------------------------
// Filter
// -----------------------------------------------------------------------------

// Filter drops the fields of a values tree that a schema does not declare.
type Filter struct {
	schema *JSONSchema
	log    logr.Logger
}

// NewFilter creates a Filter for the given schema. A nil schema keeps every
// field.
func NewFilter(schema *JSONSchema) *Filter {
	return &Filter{schema: schema, log: logr.Discard()}
}

// WithLogger returns a copy of the filter that reports dropped fields at debug
// level.
func (f *Filter) WithLogger(log logr.Logger) *Filter {
	return &Filter{schema: f.schema, log: log}
}

// FilterValues returns a copy of values holding only the fields the schema
// declares. An object schema without properties accepts anything. Unlisted
// properties are kept when additionalProperties is true, filtered through it
// when it is a schema, and dropped otherwise.
func (f *Filter) FilterValues(values map[string]any) map[string]any {
	if f.schema == nil {
		return values
	}
	return f.filterObject("", values, f.schema)
}

func (f *Filter) filterObject(path string, obj map[string]any, schema *JSONSchema) map[string]any {
	if schema == nil || schema.Properties == nil {
		return obj
	}

	filtered := make(map[string]any, len(obj))
	for key, value := range obj {
		fieldPath := joinPath(path, key)

		// Nulls of kept fields pass through; Helm reads them as deletes.
		if prop, ok := schema.Properties[key]; ok {
			filtered[key] = f.filterValue(fieldPath, value, prop)
			continue
		}

		additional := schema.AdditionalProperties
		switch {
		case additional == nil || !additional.Allowed:
			f.log.V(debugLevel).Info("dropping field not declared by the chart schema", "field", fieldPath)
		case additional.Schema != nil:
			filtered[key] = f.filterValue(fieldPath, value, additional.Schema)
		default:
			filtered[key] = value
		}
	}
	return filtered
}

func (f *Filter) filterValue(path string, value any, schema *JSONSchema) any {
	if schema == nil {
		return value
	}

	switch schema.Type.Primary() {
	case "object":
		if obj, ok := value.(map[string]any); ok {
			return f.filterObject(path, obj, schema)
		}
	case "array":
		if arr, ok := value.([]any); ok {
			return f.filterArray(path, arr, schema)
		}
	}
	return value
}

func (f *Filter) filterArray(path string, arr []any, schema *JSONSchema) []any {
	if schema.Items == nil {
		return arr
	}

	filtered := make([]any, 0, len(arr))
	for _, item := range arr {
		if v := f.filterValue(path+"[]", item, schema.Items); v != nil {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
