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

package handlers

import (
	"fmt"
	"io"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/manifest"
	"github.com/networking-incubator/istio-install-api/internal/profile"
)

// ProfileList prints the built-in profile names with their tag and hub.
func ProfileList(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PROFILE\tHUB\tTAG")
	for _, name := range profile.Names() {
		spec, err := profile.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, orDash(spec.Hub), orDash(spec.TagString()))
	}
	return tw.Flush()
}

// ProfileDump prints a built-in profile as an IstioOperator document.
func ProfileDump(w io.Writer, name string, format manifest.Format) error {
	spec, err := profile.Get(name)
	if err != nil {
		return err
	}
	iop := &installv1alpha1.IstioOperator{
		ObjectMeta: metav1.ObjectMeta{Name: spec.Profile},
		Spec:       *spec,
	}
	return manifest.Encode(w, format, iop)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
