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
	"errors"
	"fmt"
	"io"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/component"
	"github.com/networking-incubator/istio-install-api/internal/manifest"
	"github.com/networking-incubator/istio-install-api/internal/profile"
	"github.com/networking-incubator/istio-install-api/internal/schema"
	"github.com/networking-incubator/istio-install-api/internal/values"
)

// ErrUnknownComponent is returned when no enabled unit matches a component
// name.
var ErrUnknownComponent = errors.New("component is not enabled")

func resolveFile(ctx context.Context, path string) (*installv1alpha1.IstioOperator, error) {
	iop, err := loadInstall(ctx, path)
	if err != nil {
		return nil, err
	}
	resolved, err := profile.Resolve(ctx, &iop.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	iop.Spec = *resolved
	return iop, nil
}

// Resolve prints the IstioOperator in path with its profile applied.
func Resolve(ctx context.Context, w io.Writer, path string, format manifest.Format) error {
	iop, err := resolveFile(ctx, path)
	if err != nil {
		return err
	}
	return manifest.Encode(w, format, iop)
}

// -----------------------------------------------------------------------------
// Values
// -----------------------------------------------------------------------------

// ValuesOptions selects what Values prints.
type ValuesOptions struct {
	// Path is the IstioOperator file.
	Path string

	// Component restricts the output to the chart values of one enabled unit,
	// named by its spec name or unit name.
	Component string

	// Chart is a chart directory or archive. When set the values are reduced
	// to what the chart's schema declares and then validated against it.
	Chart string

	Format manifest.Format
}

// Values prints the effective Helm values of the IstioOperator in
// opts.Path.
func Values(ctx context.Context, w io.Writer, opts ValuesOptions) error {
	log := logf.FromContext(ctx)

	iop, err := resolveFile(ctx, opts.Path)
	if err != nil {
		return err
	}

	out := values.Effective(&iop.Spec)
	if opts.Component != "" {
		unit, err := findUnit(iop, opts.Component)
		if err != nil {
			return err
		}
		out = values.Overlay(out, unit.Values)
	}

	if opts.Chart != "" {
		ch, err := schema.LoadChart(opts.Chart)
		if err != nil {
			return err
		}
		s, err := schema.LoadFromChart(ch)
		switch {
		case errors.Is(err, schema.ErrNoSchema):
			log.V(debugLevel).Info("chart has no values schema, skipping filter", "chart", ch.Name())
		case err != nil:
			return err
		default:
			out = schema.NewFilter(s).WithLogger(log).FilterValues(out)
		}
		if err := schema.Validate(out, ch); err != nil {
			return err
		}
	}

	if out == nil {
		out = values.Tree{}
	}
	return manifest.Write(w, opts.Format, out)
}

func findUnit(iop *installv1alpha1.IstioOperator, name string) (component.Unit, error) {
	units, err := component.ForSpec(iop.Name, &iop.Spec, profile.Version(&iop.Spec))
	if err != nil {
		return component.Unit{}, err
	}
	for _, u := range units {
		if u.Component.SpecName == name || u.Name == name || (!u.Component.Gateway && u.Component.ReleaseName == name) {
			return u, nil
		}
	}
	return component.Unit{}, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
}

// -----------------------------------------------------------------------------
// Components
// -----------------------------------------------------------------------------

// Components prints the enabled install units of the IstioOperator in path.
func Components(ctx context.Context, w io.Writer, path string) error {
	iop, err := resolveFile(ctx, path)
	if err != nil {
		return err
	}
	units, err := component.ForSpec(iop.Name, &iop.Spec, profile.Version(&iop.Spec))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s/%s (profile %s, revision %s)\n",
		headerStyle.Render("IstioOperator"), iop.Namespace, iop.Name, iop.Spec.Profile, orDash(iop.Spec.Revision))

	tw := newTable(w)
	fmt.Fprintln(tw, "COMPONENT\tNAME\tCHART\tVERSION\tSCHEMA")
	for _, u := range units {
		schemaCheck := "no"
		if u.SchemaValidation {
			schemaCheck = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.Component.SpecName, u.Name, u.Component.ChartName, u.Version, schemaCheck)
	}
	return tw.Flush()
}
