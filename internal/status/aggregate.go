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

package status

import (
	"fmt"
	"sort"
	"strings"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// -----------------------------------------------------------------------------
// Aggregation
// -----------------------------------------------------------------------------

// Aggregate derives the overall status of an install from its components.
// The first matching rule wins:
//
//	any ERROR                          ERROR
//	any ACTION_REQUIRED                ACTION_REQUIRED
//	any UPDATING                       UPDATING
//	any RECONCILING, or NONE mixed
//	with HEALTHY                       RECONCILING
//	all HEALTHY                        HEALTHY
//	no components, or all NONE         NONE
//
// An unset component status counts as NONE.
func Aggregate(components map[string]installv1alpha1.ComponentVersionStatus) installv1alpha1.StatusCode {
	counts := make(map[installv1alpha1.StatusCode]int, len(installv1alpha1.StatusCodes))
	for _, c := range components {
		counts[c.Status.OrNone()]++
	}

	switch {
	case counts[installv1alpha1.StatusError] > 0:
		return installv1alpha1.StatusError
	case counts[installv1alpha1.StatusActionRequired] > 0:
		return installv1alpha1.StatusActionRequired
	case counts[installv1alpha1.StatusUpdating] > 0:
		return installv1alpha1.StatusUpdating
	case counts[installv1alpha1.StatusReconciling] > 0:
		return installv1alpha1.StatusReconciling
	case counts[installv1alpha1.StatusHealthy] > 0 && counts[installv1alpha1.StatusNone] > 0:
		return installv1alpha1.StatusReconciling
	case counts[installv1alpha1.StatusHealthy] > 0:
		return installv1alpha1.StatusHealthy
	default:
		return installv1alpha1.StatusNone
	}
}

// Summarize builds a short human-readable message for an install, for
// example "2/3 components healthy; Pilot: ERROR (deployment timed out)".
// Failing components are listed in name order.
func Summarize(status installv1alpha1.InstallStatus) string {
	if len(status.ComponentStatus) == 0 {
		return "no components reported"
	}

	names := make([]string, 0, len(status.ComponentStatus))
	healthy := 0
	for name, c := range status.ComponentStatus {
		names = append(names, name)
		if c.Status.IsHealthy() {
			healthy++
		}
	}
	sort.Strings(names)

	parts := []string{fmt.Sprintf("%d/%d components healthy", healthy, len(names))}
	for _, name := range names {
		c := status.ComponentStatus[name]
		if !c.Status.IsFailure() {
			continue
		}
		if c.Error != "" {
			parts = append(parts, fmt.Sprintf("%s: %s (%s)", name, c.Status, c.Error))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", name, c.Status))
		}
	}
	return strings.Join(parts, "; ")
}

// Complete returns a copy of status with the overall code filled in from the
// components when it is unset, and the message filled in when it is empty.
func Complete(status installv1alpha1.InstallStatus) installv1alpha1.InstallStatus {
	out := *status.DeepCopy()
	if out.Status == "" {
		out.Status = Aggregate(out.ComponentStatus)
	}
	if out.Message == "" && len(out.ComponentStatus) > 0 {
		out.Message = Summarize(out)
	}
	return out
}
