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

package values

import (
	"helm.sh/helm/v3/pkg/chartutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// debugLevel is the go-logr level for debug/verbose logging
const debugLevel = 1

var log = logf.Log.WithName("values")

// -----------------------------------------------------------------------------
// Merge
// -----------------------------------------------------------------------------

// Merge overlays each tree onto base in order, so later overlays win.
// Mappings merge key by key, lists and scalars are replaced, and a null in an
// overlay removes the key. None of the inputs are modified.
//
// Null entries left over in the result are dropped, so an explicit null is
// indistinguishable from an absent key afterwards.
func Merge(base Tree, overlays ...Tree) Tree {
	out := merge(base, overlays, false)
	dropNulls(out)
	return out
}

// Overlay merges like Merge but keeps the explicit nulls of the overlays in
// the result. Trees built this way are meant for Helm, where a null deletes
// the chart default of that key.
func Overlay(base Tree, overlays ...Tree) Tree {
	return merge(base, overlays, true)
}

func merge(base Tree, overlays []Tree, keepNulls bool) Tree {
	out := base.DeepCopy()
	if out == nil {
		out = Tree{}
	}

	for _, overlay := range overlays {
		if len(overlay) == 0 {
			continue
		}
		// CoalesceTables mutates both arguments and gives dst precedence.
		dst := overlay.DeepCopy()
		replaceMismatched(out, dst, "")
		out = Tree(chartutil.CoalesceTables(map[string]any(dst), map[string]any(out)))
		if keepNulls {
			restoreNulls(out, overlay.DeepCopy())
		}
	}
	return out
}

// replaceMismatched drops the keys of base that the overlay sets to a value of
// the other kind, table against non-table, so the overlay replaces them
// outright. Helm would otherwise report each of them on the standard logger.
func replaceMismatched(base, overlay map[string]any, prefix string) {
	for k, ov := range overlay {
		bv, ok := base[k]
		if !ok || bv == nil || ov == nil {
			continue
		}
		key := joinKey(prefix, k)
		bt, baseTable := bv.(map[string]any)
		ot, overlayTable := ov.(map[string]any)
		switch {
		case baseTable && overlayTable:
			replaceMismatched(bt, ot, key)
		case baseTable != overlayTable:
			log.V(debugLevel).Info("overlay replaces value of a different kind", "key", key)
			delete(base, k)
		}
	}
}

// restoreNulls puts the explicit nulls of overlay back into out wherever
// their parent table survived the merge.
func restoreNulls(out, overlay map[string]any) {
	for k, ov := range overlay {
		switch x := ov.(type) {
		case nil:
			out[k] = nil
		case map[string]any:
			if sub, ok := out[k].(map[string]any); ok {
				restoreNulls(sub, x)
			}
		}
	}
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}

func dropNulls(m map[string]any) {
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			dropNulls(x)
		}
	}
}

// Effective returns the chart values an install would use: the spec's
// unvalidated values overlaid on its validated values. Explicit nulls are
// kept so they still delete chart defaults.
func Effective(spec *installv1alpha1.IstioOperatorSpec) Tree {
	if spec == nil {
		return Tree{}
	}
	return Overlay(FromValues(spec.Values), FromValues(spec.UnvalidatedValues))
}
