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

package utils

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// -----------------------------------------------------------------------------
// Test Resource Builders - IstioOperator
// -----------------------------------------------------------------------------

// IstioOperatorOptions provides options for creating test IstioOperator
// resources
type IstioOperatorOptions struct {
	Name       string
	Namespace  string
	Profile    string
	Revision   string
	Tag        string
	Components map[string]any
	Values     map[string]any
}

// NewTestIstioOperator creates a test IstioOperator resource with sensible
// defaults. It panics on values that cannot be represented, which only
// happens with typed slices such as []string.
func NewTestIstioOperator(opts IstioOperatorOptions) *installv1alpha1.IstioOperator {
	if opts.Name == "" {
		opts.Name = "test-iop"
	}
	if opts.Namespace == "" {
		opts.Namespace = "istio-system"
	}

	iop := &installv1alpha1.IstioOperator{
		TypeMeta: metav1.TypeMeta{
			APIVersion: installv1alpha1.GroupVersion.String(),
			Kind:       installv1alpha1.IstioOperatorKind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
		},
		Spec: installv1alpha1.IstioOperatorSpec{
			Profile:  opts.Profile,
			Revision: opts.Revision,
		},
	}
	if opts.Tag != "" {
		iop.Spec.Tag = installv1alpha1.NewStringValue(opts.Tag)
	}
	if opts.Components != nil {
		iop.Spec.Components = mustValues(opts.Components)
	}
	if opts.Values != nil {
		iop.Spec.Values = mustValues(opts.Values)
	}
	return iop
}

// Key returns the registry key of a test IstioOperator.
func Key(iop *installv1alpha1.IstioOperator) types.NamespacedName {
	return types.NamespacedName{Namespace: iop.Namespace, Name: iop.Name}
}

func mustValues(m map[string]any) *installv1alpha1.Values {
	v, err := installv1alpha1.NewValues(m)
	if err != nil {
		panic(err)
	}
	return v
}

// -----------------------------------------------------------------------------
// Test Resource Builders - InstallStatus
// -----------------------------------------------------------------------------

// InstallStatusOptions provides options for creating test InstallStatus
// values
type InstallStatusOptions struct {
	Status     installv1alpha1.StatusCode
	Message    string
	Version    string
	Components map[string]installv1alpha1.StatusCode
}

// NewTestInstallStatus creates an InstallStatus where every component runs
// the same version.
func NewTestInstallStatus(opts InstallStatusOptions) installv1alpha1.InstallStatus {
	if opts.Status == "" {
		opts.Status = installv1alpha1.StatusNone
	}
	if opts.Version == "" {
		opts.Version = "1.22.8"
	}

	st := installv1alpha1.InstallStatus{
		Status:  opts.Status,
		Message: opts.Message,
	}
	if len(opts.Components) > 0 {
		st.ComponentStatus = make(map[string]installv1alpha1.ComponentVersionStatus, len(opts.Components))
		for name, code := range opts.Components {
			cvs := installv1alpha1.ComponentVersionStatus{Version: opts.Version, Status: code}
			if code.IsFailure() {
				cvs.Error = name + " failed"
			}
			st.ComponentStatus[name] = cvs
		}
	}
	return st
}
