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

// Package schema filters and validates component values against the JSON
// schema shipped with a Helm chart.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// JSONSchema
// -----------------------------------------------------------------------------

// JSONSchema is the subset of JSON Schema needed to decide which fields a
// chart accepts. Validation keywords are ignored here; see Validate.
type JSONSchema struct {
	Type                 SchemaType             `json:"type,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	AdditionalProperties *AdditionalProperties  `json:"additionalProperties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Ref                  string                 `json:"$ref,omitempty"`
	Defs                 map[string]*JSONSchema `json:"$defs,omitempty"`
}

// Parse decodes a JSON schema document.
func Parse(data []byte) (*JSONSchema, error) {
	var s JSONSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse values schema: %w", err)
	}
	return &s, nil
}

// SchemaType is the "type" keyword, which may be a single name or a list.
type SchemaType []string

// Primary returns the first non-null type, or "null" when that is the only
// type, or "" when no type is declared.
func (t SchemaType) Primary() string {
	for _, name := range t {
		if name != "null" {
			return name
		}
	}
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// MarshalJSON implements json.Marshaler.
func (t SchemaType) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *SchemaType) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = SchemaType{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("type must be a string or a list of strings: %w", err)
	}
	*t = many
	return nil
}

// AdditionalProperties is the "additionalProperties" keyword: either a
// boolean or a schema that unlisted properties must follow.
type AdditionalProperties struct {
	Allowed bool
	Schema  *JSONSchema
}

// MarshalJSON implements json.Marshaler.
func (a AdditionalProperties) MarshalJSON() ([]byte, error) {
	if a.Schema != nil {
		return json.Marshal(a.Schema)
	}
	return json.Marshal(a.Allowed)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AdditionalProperties) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")) {
		a.Allowed = bytes.Equal(b, []byte("true"))
		a.Schema = nil
		return nil
	}
	var s JSONSchema
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
	}
	a.Allowed = true
	a.Schema = &s
	return nil
}

// -----------------------------------------------------------------------------
// JSONSchema - References
// -----------------------------------------------------------------------------

const defsPrefix = "#/$defs/"

// ErrUnresolvedReference is returned for a $ref that names a missing
// definition or forms a cycle.
var ErrUnresolvedReference = errors.New("unresolved schema reference")

// ResolveReferences replaces every local "#/$defs/<name>" reference in root
// with the definition it names. The schema is modified in place and the
// resolved root is returned. References of any other form are left alone.
func ResolveReferences(root *JSONSchema) (*JSONSchema, error) {
	if root == nil {
		return nil, nil
	}
	return resolve(root, root.Defs, map[string]bool{})
}

func resolve(s *JSONSchema, defs map[string]*JSONSchema, visiting map[string]bool) (*JSONSchema, error) {
	if s == nil {
		return nil, nil
	}

	if name, ok := strings.CutPrefix(s.Ref, defsPrefix); ok {
		if visiting[name] {
			return nil, fmt.Errorf("%w: cycle through %q", ErrUnresolvedReference, s.Ref)
		}
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedReference, s.Ref)
		}
		visiting[name] = true
		defer delete(visiting, name)
		return resolve(def, defs, visiting)
	}

	for key, prop := range s.Properties {
		resolved, err := resolve(prop, defs, visiting)
		if err != nil {
			return nil, fmt.Errorf("properties.%s: %w", key, err)
		}
		s.Properties[key] = resolved
	}

	if s.Items != nil {
		resolved, err := resolve(s.Items, defs, visiting)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		s.Items = resolved
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
		resolved, err := resolve(s.AdditionalProperties.Schema, defs, visiting)
		if err != nil {
			return nil, fmt.Errorf("additionalProperties: %w", err)
		}
		s.AdditionalProperties.Schema = resolved
	}

	return s, nil
}
