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

// Package component describes the installable components of a control plane
// and works out which of them a spec enables.
package component

import (
	"fmt"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/values"
)

// -----------------------------------------------------------------------------
// Catalogue
// -----------------------------------------------------------------------------

// Spec names of the known components, as used under spec.components.
const (
	Base            = "base"
	Pilot           = "pilot"
	IngressGateways = "ingressGateways"
	EgressGateways  = "egressGateways"
	CNI             = "cni"
	IstiodRemote    = "istiodRemote"
	Ztunnel         = "ztunnel"
)

// Component is one entry of the catalogue.
type Component struct {
	// SpecName is the key under spec.components.
	SpecName string

	// ReleaseName is the Helm release name.
	ReleaseName string

	// ChartName is the Helm chart that installs the component.
	ChartName string

	// ValuesRoot is the dotted path of the component's settings within the
	// Helm values, empty when it has none.
	ValuesRoot string

	// BaseRootKey, when set, nests the component's Kubernetes settings under
	// this key of its chart values instead of at the top level.
	BaseRootKey string

	// Gateway marks components configured as a list of named gateways.
	Gateway bool
}

var catalogue = []Component{
	{SpecName: Base, ReleaseName: "base", ChartName: "base"},
	{SpecName: Pilot, ReleaseName: "istiod", ChartName: "istiod", ValuesRoot: "pilot", BaseRootKey: "pilot"},
	{SpecName: IngressGateways, ReleaseName: "gateway", ChartName: "gateway", ValuesRoot: "gateways.istio-ingressgateway", Gateway: true},
	{SpecName: EgressGateways, ReleaseName: "gateway", ChartName: "gateway", ValuesRoot: "gateways.istio-egressgateway", Gateway: true},
	{SpecName: CNI, ReleaseName: "cni", ChartName: "cni", ValuesRoot: "cni", BaseRootKey: "cni"},
	{SpecName: IstiodRemote, ReleaseName: "istiod-remote", ChartName: "istiod-remote"},
	{SpecName: Ztunnel, ReleaseName: "ztunnel", ChartName: "ztunnel"},
}

// All returns the catalogue in install order.
func All() []Component {
	out := make([]Component, len(catalogue))
	copy(out, catalogue)
	return out
}

// Get returns the component with the given spec name.
func Get(specName string) (Component, bool) {
	for _, c := range catalogue {
		if c.SpecName == specName {
			return c, true
		}
	}
	return Component{}, false
}

// defaultLabels returns the labels the gateway chart templates select on.
func (c Component) defaultLabels() map[string]any {
	if c.SpecName == EgressGateways {
		return map[string]any{"app": "istio-egressgateway", "istio": "egressgateway"}
	}
	return map[string]any{"app": "istio-ingressgateway", "istio": "ingressgateway"}
}

// -----------------------------------------------------------------------------
// Units
// -----------------------------------------------------------------------------

// Unit is one enabled install unit: a component, or a single gateway of a
// gateway component.
type Unit struct {
	Component Component

	// Name is the release name, or the gateway name for gateways. ForSpec
	// prefixes release names with the install they belong to.
	Name string

	// Version is the chart version, set by ForSpec.
	Version string

	// Values are the chart values derived from the component settings.
	Values values.Tree

	// SchemaValidation is set for units whose values should be checked
	// against the chart schema before install.
	SchemaValidation bool
}

// Enabled lists the enabled install units of a spec.components tree, in
// catalogue order. A component is enabled by "<name>.enabled"; a gateway by
// the "enabled" field of its list entry. Unknown keys are ignored.
func Enabled(components values.Tree) ([]Unit, error) {
	var units []Unit
	for _, c := range catalogue {
		raw, ok := components[c.SpecName]
		if !ok || raw == nil {
			continue
		}

		if c.Gateway {
			gws, err := gatewayUnits(c, raw)
			if err != nil {
				return nil, err
			}
			units = append(units, gws...)
			continue
		}

		settings, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("components.%s must be a mapping, got %T", c.SpecName, raw)
		}
		if enabled, _ := values.Tree(settings).GetPathBool("enabled"); !enabled {
			continue
		}

		unit := Unit{Component: c, Name: c.ReleaseName, Values: values.Tree{}}
		if k8s, ok := values.Tree(settings).GetPathTree("k8s"); ok && len(k8s) > 0 {
			if c.BaseRootKey != "" {
				unit.Values[c.BaseRootKey] = map[string]any(k8s.DeepCopy())
			} else {
				unit.Values = k8s.DeepCopy()
			}
		}
		units = append(units, unit)
	}
	return units, nil
}

func gatewayUnits(c Component, raw any) ([]Unit, error) {
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("components.%s must be a list, got %T", c.SpecName, raw)
	}

	var units []Unit
	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("components.%s.%d must be a mapping, got %T", c.SpecName, i, e)
		}
		gw := values.Tree(entry)
		if enabled, _ := gw.GetPathBool("enabled"); !enabled {
			continue
		}
		name, _ := gw.GetPathString("name")
		if name == "" {
			return nil, fmt.Errorf("components.%s.%d has no name", c.SpecName, i)
		}

		unitValues := values.Tree{}
		if k8s, ok := gw.GetPathTree("k8s"); ok {
			for k, v := range k8s.DeepCopy() {
				if k == "env" {
					continue
				}
				unitValues[k] = v
			}
			if env, ok := k8s.GetPath("env"); ok {
				unitValues["env"] = envMap(env)
			}
		}

		labels := c.defaultLabels()
		if custom, ok := gw.GetPathTree("label"); ok {
			for k, v := range custom {
				labels[k] = v
			}
		}
		unitValues["labels"] = labels

		units = append(units, Unit{
			Component:        c,
			Name:             name,
			Values:           unitValues,
			SchemaValidation: true,
		})
	}
	return units, nil
}

// envMap flattens a Kubernetes env list into the name to value mapping the
// gateway chart expects. Entries without a plain value are dropped.
func envMap(env any) map[string]any {
	out := map[string]any{}
	list, _ := env.([]any)
	for _, e := range list {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		value, ok := entry["value"].(string)
		if name == "" || !ok {
			continue
		}
		out[name] = value
	}
	return out
}

// ReleaseName returns the release name of a non-gateway unit owned by the
// named install, so that units of different installs never collide.
func ReleaseName(install, release string) string {
	if install == "" {
		return release
	}
	return fmt.Sprintf("iop-%s-%s", install, release)
}

// ForSpec lists the enabled units of the resolved spec of the named install,
// stamps them with version and applies the gateway autoscaling settings from
// the spec's effective Helm values.
func ForSpec(install string, spec *installv1alpha1.IstioOperatorSpec, version string) ([]Unit, error) {
	if spec == nil {
		return nil, nil
	}
	units, err := Enabled(values.FromValues(spec.Components))
	if err != nil {
		return nil, err
	}

	helmValues := values.Effective(spec)
	for i := range units {
		units[i].Version = version
		c := units[i].Component
		if !c.Gateway {
			units[i].Name = ReleaseName(install, c.ReleaseName)
			continue
		}
		if enabled, _ := helmValues.GetPathBool(c.ValuesRoot + ".autoscaleEnabled"); enabled {
			autoscaling := map[string]any{"enabled": true}
			if minReplicas, ok := helmValues.GetPathString(c.ValuesRoot + ".autoscaleMin"); ok && minReplicas != "" {
				autoscaling["minReplicas"] = minReplicas
			}
			units[i].Values["autoscaling"] = autoscaling
		}
	}
	return units, nil
}
