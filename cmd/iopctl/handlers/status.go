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
	"context"
	"fmt"
	"io"
	"sort"

	"k8s.io/apimachinery/pkg/types"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/registry"
	"github.com/networking-incubator/istio-install-api/internal/status"
)

// StatusOptions selects what Status prints.
type StatusOptions struct {
	// Path is the InstallStatus file.
	Path string

	// Install optionally names the IstioOperator file the status reports on.
	// The status is then recorded against that install the way a reporting
	// controller would, which rejects reports the registry would not accept.
	Install string
}

// Status prints the install status in opts.Path: the overall code, one row
// per component and the conditions derived from it. An overall code missing
// from the file is computed from the components.
func Status(ctx context.Context, w io.Writer, opts StatusOptions) error {
	st, err := loadStatus(ctx, opts.Path)
	if err != nil {
		return err
	}
	st = status.Complete(st)

	if opts.Install != "" {
		iop, err := loadInstall(ctx, opts.Install)
		if err != nil {
			return err
		}
		key := types.NamespacedName{Namespace: iop.Namespace, Name: iop.Name}

		reg := registry.New(nil)
		sub, err := reg.Submit(ctx, key, &iop.Spec)
		if err != nil {
			return err
		}
		if _, err := reg.ReportStatus(ctx, key, st); err != nil {
			return err
		}
		if st, err = reg.GetStatus(ctx, key); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s (generation %d)\n", headerStyle.Render("Install:"), key, sub.Generation)
	}

	writeStatus(w, st)
	return nil
}

func writeStatus(w io.Writer, st installv1alpha1.InstallStatus) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Status:"), renderCode(st.Status))
	if st.Message != "" {
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Message:"), st.Message)
	}
	if aggregate := status.Aggregate(st.ComponentStatus); aggregate != st.Status.OrNone() {
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render("Components aggregate to"), renderCode(aggregate))
	}

	if len(st.ComponentStatus) > 0 {
		names := make([]string, 0, len(st.ComponentStatus))
		for name := range st.ComponentStatus {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintln(tw, "COMPONENT\tVERSION\tSTATUS\tERROR")
		for _, name := range names {
			c := st.ComponentStatus[name]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, orDash(c.Version), c.Status.OrNone(), orDash(c.Error))
		}
		_ = tw.Flush()
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "CONDITION\tSTATUS\tREASON")
	for _, c := range status.Conditions(st, 0) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Type, c.Status, c.Reason)
	}
	_ = tw.Flush()
}
