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

// Package profile provides the built-in installation profiles and applies a
// user spec on top of them.
package profile

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/manifest"
	"github.com/networking-incubator/istio-install-api/internal/values"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	// DefaultProfile is used when a spec names no profile.
	DefaultProfile = "default"

	// EmptyProfile sets nothing and does not build on DefaultProfile.
	EmptyProfile = "empty"

	// DefaultTag is the image tag used when neither the spec nor its profile
	// sets one.
	DefaultTag = "1.22.8"
)

// debugLevel is the go-logr level for debug/verbose logging
const debugLevel = 1

// ErrUnknownProfile is returned for a profile name that is not built in.
var ErrUnknownProfile = errors.New("unknown profile")

//go:embed profiles/*.yaml
var profileFS embed.FS

// -----------------------------------------------------------------------------
// Profile Loading
// -----------------------------------------------------------------------------

var (
	loadOnce sync.Once
	loaded   map[string]*installv1alpha1.IstioOperatorSpec
	loadErr  error
)

func load() (map[string]*installv1alpha1.IstioOperatorSpec, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parseProfiles()
	})
	return loaded, loadErr
}

func parseProfiles() (map[string]*installv1alpha1.IstioOperatorSpec, error) {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	raw := make(map[string]*installv1alpha1.IstioOperatorSpec, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		data, err := profileFS.ReadFile(path.Join("profiles", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", name, err)
		}
		objs, err := manifest.DecodeBytes(context.Background(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode profile %s: %w", name, err)
		}
		if len(objs) != 1 {
			return nil, fmt.Errorf("profile %s must hold exactly one IstioOperator, found %d", name, len(objs))
		}
		raw[name] = &objs[0].Spec
	}

	base, ok := raw[DefaultProfile]
	if !ok {
		return nil, fmt.Errorf("built-in profile %q is missing", DefaultProfile)
	}

	// Every profile other than the empty one is an overlay on the default.
	out := make(map[string]*installv1alpha1.IstioOperatorSpec, len(raw))
	for name, spec := range raw {
		switch name {
		case DefaultProfile, EmptyProfile:
			out[name] = spec
		default:
			merged, err := overlay(base, spec)
			if err != nil {
				return nil, fmt.Errorf("failed to build profile %s: %w", name, err)
			}
			out[name] = merged
		}
	}
	return out, nil
}

// Names returns the built-in profile names in sorted order.
func Names() []string {
	profiles, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named profile. The empty name selects
// DefaultProfile.
func Get(name string) (*installv1alpha1.IstioOperatorSpec, error) {
	if name == "" {
		name = DefaultProfile
	}
	profiles, err := load()
	if err != nil {
		return nil, err
	}
	spec, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, expected one of %s", ErrUnknownProfile, name, strings.Join(Names(), ", "))
	}
	out := spec.DeepCopy()
	out.Profile = name
	return out, nil
}

// -----------------------------------------------------------------------------
// Resolve
// -----------------------------------------------------------------------------

// Resolve overlays spec on the profile it names and returns the result. Set
// scalar fields of spec replace the profile's; open values are merged with
// spec taking precedence. spec is not modified.
func Resolve(ctx context.Context, spec *installv1alpha1.IstioOperatorSpec) (*installv1alpha1.IstioOperatorSpec, error) {
	if spec == nil {
		spec = &installv1alpha1.IstioOperatorSpec{}
	}

	base, err := Get(spec.Profile)
	if err != nil {
		return nil, err
	}

	resolved, err := overlay(base, spec)
	if err != nil {
		return nil, err
	}
	resolved.Profile = base.Profile

	logf.FromContext(ctx).V(debugLevel).Info("resolved profile",
		"profile", resolved.Profile, "tag", resolved.TagString(), "revision", resolved.Revision)
	return resolved, nil
}

// Version returns the image tag a resolved spec installs, falling back to
// DefaultTag.
func Version(spec *installv1alpha1.IstioOperatorSpec) string {
	if tag := spec.TagString(); tag != "" {
		return tag
	}
	return DefaultTag
}

func overlay(base, top *installv1alpha1.IstioOperatorSpec) (*installv1alpha1.IstioOperatorSpec, error) {
	out := base.DeepCopy()

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&out.Profile, top.Profile},
		{&out.InstallPackagePath, top.InstallPackagePath},
		{&out.Hub, top.Hub},
		{&out.ResourceSuffix, top.ResourceSuffix},
		{&out.Namespace, top.Namespace},
		{&out.Revision, top.Revision},
		{&out.CompatibilityVersion, top.CompatibilityVersion},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	if top.Tag != nil && !top.Tag.IsNull() {
		out.Tag = top.Tag.DeepCopy()
	}

	var err error
	if out.MeshConfig, err = mergeValues(base.MeshConfig, top.MeshConfig); err != nil {
		return nil, fmt.Errorf("meshConfig: %w", err)
	}
	if out.Components, err = mergeValues(base.Components, top.Components); err != nil {
		return nil, fmt.Errorf("components: %w", err)
	}
	if out.Values, err = mergeValues(base.Values, top.Values); err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	if out.UnvalidatedValues, err = mergeValues(base.UnvalidatedValues, top.UnvalidatedValues); err != nil {
		return nil, fmt.Errorf("unvalidatedValues: %w", err)
	}
	return out, nil
}

func mergeValues(base, top *installv1alpha1.Values) (*installv1alpha1.Values, error) {
	if base == nil && top == nil {
		return nil, nil
	}
	return values.Merge(values.FromValues(base), values.FromValues(top)).ToValues()
}
