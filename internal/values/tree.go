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

// Package values provides path access and merging for the open-ended value
// trees carried by an IstioOperatorSpec.
package values

import (
	"fmt"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// -----------------------------------------------------------------------------
// Tree
// -----------------------------------------------------------------------------

// Tree is a JSON-compatible view of a Values mapping. Nested mappings are
// plain map[string]any and lists are []any.
type Tree map[string]any

// FromValues converts Values into a Tree. The result shares nothing with v.
// Nil or empty Values yield an empty Tree.
func FromValues(v *installv1alpha1.Values) Tree {
	m := v.AsMap()
	if m == nil {
		return Tree{}
	}
	return Tree(m)
}

// ToValues converts the tree back into Values.
func (t Tree) ToValues() (*installv1alpha1.Values, error) {
	return installv1alpha1.NewValues(normalize(t).(map[string]any))
}

// Parse decodes a YAML or JSON mapping into a Tree.
func Parse(data []byte) (Tree, error) {
	t := Tree{}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse values: %w", err)
	}
	return t, nil
}

// YAML renders the tree as YAML with sorted keys.
func (t Tree) YAML() ([]byte, error) {
	return yaml.Marshal(map[string]any(t))
}

// DeepCopy returns a copy of the tree that shares no mappings or lists with
// the receiver. Nested Trees are flattened to map[string]any.
func (t Tree) DeepCopy() Tree {
	if t == nil {
		return nil
	}
	return Tree(normalize(t).(map[string]any))
}

func normalize(v any) any {
	switch x := v.(type) {
	case Tree:
		return normalize(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// -----------------------------------------------------------------------------
// Tree - Path Access
// -----------------------------------------------------------------------------

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// GetPath returns the value at a dotted path such as "global.proxy.image".
// Numeric segments index into lists, so "ingressGateways.0.name" reads the
// name of the first gateway.
func (t Tree) GetPath(path string) (any, bool) {
	var cur any = map[string]any(t)
	for _, seg := range splitPath(path) {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case Tree:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetPathString returns the scalar at path rendered as a string. Numbers are
// rendered without a trailing fractional zero.
func (t Tree) GetPathString(path string) (string, bool) {
	v, ok := t.GetPath(path)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprint(x), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// GetPathBool returns the boolean at path. The strings "true" and "false" are
// accepted as well.
func (t Tree) GetPathBool(path string) (bool, bool) {
	v, ok := t.GetPath(path)
	if !ok {
		return false, false
	}
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// GetPathTree returns the mapping at path.
func (t Tree) GetPathTree(path string) (Tree, bool) {
	v, ok := t.GetPath(path)
	if !ok {
		return nil, false
	}
	switch x := v.(type) {
	case map[string]any:
		return Tree(x), true
	case Tree:
		return x, true
	default:
		return nil, false
	}
}

// SetPath stores v at a dotted path, creating intermediate mappings as needed.
// A numeric segment addresses an existing list element; lists are never grown.
func (t Tree) SetPath(path string, v any) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return fmt.Errorf("empty path")
	}

	var cur any = map[string]any(t)
	for i, seg := range segs {
		last := i == len(segs)-1
		switch node := cur.(type) {
		case map[string]any:
			if last {
				node[seg] = v
				return nil
			}
			next, ok := node[seg]
			if !ok || next == nil {
				next = map[string]any{}
				node[seg] = next
			}
			cur = next
		case Tree:
			if last {
				node[seg] = v
				return nil
			}
			next, ok := node[seg]
			if !ok || next == nil {
				next = map[string]any{}
				node[seg] = next
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return fmt.Errorf("path %q: index %q out of range", path, seg)
			}
			if last {
				node[idx] = v
				return nil
			}
			cur = node[idx]
		default:
			return fmt.Errorf("path %q: segment %q is not a mapping or list", path, strings.Join(segs[:i], "."))
		}
	}
	return nil
}
