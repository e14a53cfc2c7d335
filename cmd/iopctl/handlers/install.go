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

// Package handlers implements the iopctl commands. Handlers take their
// inputs as plain arguments and write their results to an io.Writer so they
// can be tested without a terminal.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
	"github.com/networking-incubator/istio-install-api/internal/manifest"
)

// debugLevel is the go-logr level for debug/verbose logging
const debugLevel = 1

// DefaultInstallName names installs read from a bare spec.
const DefaultInstallName = "installed-state"

// DefaultNamespace is the namespace of installs that do not set one.
const DefaultNamespace = "istio-system"

// loadInstall reads a single IstioOperator from path. The file may hold a
// complete IstioOperator document or a bare spec.
func loadInstall(ctx context.Context, path string) (*installv1alpha1.IstioOperator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	objs, decodeErr := manifest.DecodeBytes(ctx, data)
	switch {
	case decodeErr == nil && len(objs) == 1:
		iop := objs[0]
		if iop.Namespace == "" {
			iop.Namespace = DefaultNamespace
		}
		return iop, nil
	case decodeErr == nil && len(objs) > 1:
		return nil, fmt.Errorf("%s holds %d IstioOperators, expected one", path, len(objs))
	case decodeErr == nil:
		return nil, fmt.Errorf("no IstioOperator found in %s", path)
	}

	spec, err := manifest.DecodeSpec(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &installv1alpha1.IstioOperator{
		ObjectMeta: metav1.ObjectMeta{Name: DefaultInstallName, Namespace: DefaultNamespace},
		Spec:       *spec,
	}, nil
}

// loadStatus reads an InstallStatus from path. An IstioOperator document is
// accepted too, in which case its status is used.
func loadStatus(ctx context.Context, path string) (installv1alpha1.InstallStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return installv1alpha1.InstallStatus{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if objs, err := manifest.DecodeBytes(ctx, data); err == nil && len(objs) == 1 {
		return objs[0].Status, nil
	}

	var st installv1alpha1.InstallStatus
	if err := yaml.Unmarshal(data, &st); err != nil {
		return installv1alpha1.InstallStatus{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return st, nil
}

// newTable returns a tabwriter for aligned columns. Callers must Flush it.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

// -----------------------------------------------------------------------------
// Styles
// -----------------------------------------------------------------------------

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	healthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// renderCode colours a status code by its meaning. Codes are not coloured
// inside tables since escape sequences break column alignment.
func renderCode(code installv1alpha1.StatusCode) string {
	code = code.OrNone()
	switch {
	case code.IsHealthy():
		return healthyStyle.Render(string(code))
	case code.IsTransient():
		return pendingStyle.Render(string(code))
	case code.IsFailure():
		return failedStyle.Render(string(code))
	default:
		return dimStyle.Render(string(code))
	}
}
