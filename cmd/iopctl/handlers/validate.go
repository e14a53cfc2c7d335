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
	"os"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/networking-incubator/istio-install-api/internal/manifest"
	"github.com/networking-incubator/istio-install-api/internal/profile"
)

// ErrInvalid is returned by Validate when any input failed.
var ErrInvalid = errors.New("validation failed")

// Validate decodes every IstioOperator in paths and checks that the profile
// each one names exists. It reports one line per IstioOperator or rejected
// document and returns
// ErrInvalid with all failures attached when anything was wrong.
func Validate(ctx context.Context, w io.Writer, paths []string) error {
	log := logf.FromContext(ctx)

	var errs []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			fmt.Fprintf(w, "%s %s: %v\n", failedStyle.Render("FAIL"), path, err)
			continue
		}

		// Decode still returns the well-formed documents next to the
		// per-document failures.
		objs, err := manifest.DecodeBytes(ctx, data)
		if err != nil {
			docErrs := []error{err}
			var agg utilerrors.Aggregate
			if errors.As(err, &agg) {
				docErrs = agg.Errors()
			}
			for _, docErr := range docErrs {
				errs = append(errs, fmt.Errorf("%s: %w", path, docErr))
				fmt.Fprintf(w, "%s %s: %v\n", failedStyle.Render("FAIL"), path, docErr)
			}
		}
		if len(objs) == 0 && err == nil {
			log.V(debugLevel).Info("no IstioOperator documents", "path", path)
			fmt.Fprintf(w, "%s %s: no IstioOperator documents\n", dimStyle.Render("SKIP"), path)
			continue
		}

		for _, iop := range objs {
			if _, err := profile.Resolve(ctx, &iop.Spec); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", path, iop.Name, err))
				fmt.Fprintf(w, "%s %s: %s: %v\n", failedStyle.Render("FAIL"), path, iop.Name, err)
				continue
			}
			fmt.Fprintf(w, "%s %s: %s\n", healthyStyle.Render("OK"), path, iop.Name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, utilerrors.NewAggregate(errs))
	}
	return nil
}
