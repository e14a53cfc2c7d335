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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// -----------------------------------------------------------------------------
// Setup
// -----------------------------------------------------------------------------

func init() {
	SchemeBuilder.Register(&IstioOperator{}, &IstioOperatorList{})
}

// IstioOperatorKind is the kind of the IstioOperator resource.
const IstioOperatorKind = "IstioOperator"

// -----------------------------------------------------------------------------
// IstioOperator
// -----------------------------------------------------------------------------

// IstioOperator describes the desired installation of an Istio control plane
// and the most recently observed state of that installation.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=iop;io
// +kubebuilder:printcolumn:name="Revision",type=string,JSONPath=`.spec.revision`
// +kubebuilder:printcolumn:name="Status",type=string,JSONPath=`.status.status`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type IstioOperator struct {
	metav1.TypeMeta `json:",inline"`

	// ObjectMeta is a standard object metadata.
	//
	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// Spec defines the desired state of the installation.
	//
	// +optional
	Spec IstioOperatorSpec `json:"spec,omitzero"`

	// Status defines the observed state of the installation.
	//
	// +optional
	Status InstallStatus `json:"status,omitzero"`
}

// IstioOperatorList contains a list of IstioOperator resources.
//
// +kubebuilder:object:root=true
type IstioOperatorList struct {
	metav1.TypeMeta `json:",inline"`

	// ListMeta is standard list metadata.
	//
	// +optional
	metav1.ListMeta `json:"metadata,omitzero"`

	// Items is the list of IstioOperators.
	//
	// +required
	Items []IstioOperator `json:"items"`
}

// -----------------------------------------------------------------------------
// IstioOperatorSpec
// -----------------------------------------------------------------------------

// IstioOperatorSpec is the desired state of an installation. Every field is
// optional; an empty spec selects all defaults.
//
// Combinations are not checked here. Precedence between the profile, the
// component settings and raw values is decided by whoever consumes the spec.
type IstioOperatorSpec struct {
	// Profile selects a predefined bundle of defaults.
	//
	// +optional
	Profile string `json:"profile,omitempty"`

	// InstallPackagePath locates the install artifacts, as a path or URL.
	//
	// +optional
	InstallPackagePath string `json:"installPackagePath,omitempty"`

	// Hub overrides the container image registry.
	//
	// +optional
	Hub string `json:"hub,omitempty"`

	// Tag overrides the container image tag. It is usually a string but may
	// be a number or a nested structure.
	//
	// +optional
	Tag *Value `json:"tag,omitempty"`

	// ResourceSuffix is appended to generated resource names so that several
	// installs can coexist.
	//
	// +optional
	ResourceSuffix string `json:"resourceSuffix,omitempty"`

	// Namespace is the namespace the control plane is installed into.
	//
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// Revision is the revision label of the install.
	//
	// +optional
	Revision string `json:"revision,omitempty"`

	// CompatibilityVersion selects a compatibility mode.
	//
	// +optional
	CompatibilityVersion string `json:"compatibilityVersion,omitempty"`

	// MeshConfig is an overlay for the mesh-wide configuration.
	//
	// +optional
	MeshConfig *Values `json:"meshConfig,omitempty"`

	// Components is an overlay of per-component settings.
	//
	// +optional
	Components *Values `json:"components,omitempty"`

	// Values is an overlay of chart values that are checked against the
	// chart schema.
	//
	// +optional
	Values *Values `json:"values,omitempty"`

	// UnvalidatedValues is an overlay of chart values that are passed through
	// unchecked.
	//
	// +optional
	UnvalidatedValues *Values `json:"unvalidatedValues,omitempty"`
}

// TagString returns the scalar form of the tag, or "" when the tag is unset
// or structured.
func (in *IstioOperatorSpec) TagString() string {
	if in == nil {
		return ""
	}
	return in.Tag.ScalarString()
}

// IsEmpty reports whether no field of the spec is set.
func (in *IstioOperatorSpec) IsEmpty() bool {
	if in == nil {
		return true
	}
	return in.Profile == "" &&
		in.InstallPackagePath == "" &&
		in.Hub == "" &&
		in.Tag == nil &&
		in.ResourceSuffix == "" &&
		in.Namespace == "" &&
		in.Revision == "" &&
		in.CompatibilityVersion == "" &&
		in.MeshConfig == nil &&
		in.Components == nil &&
		in.Values == nil &&
		in.UnvalidatedValues == nil
}
