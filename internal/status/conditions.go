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
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// -----------------------------------------------------------------------------
// Condition Types
// -----------------------------------------------------------------------------

const (
	// ConditionReady is True when the install is healthy.
	ConditionReady = "Ready"

	// ConditionProgressing is True while the install is converging.
	ConditionProgressing = "Progressing"

	// ConditionDegraded is True when the install failed or is stuck.
	ConditionDegraded = "Degraded"
)

// -----------------------------------------------------------------------------
// Status Condition Utilities
// -----------------------------------------------------------------------------

// Conditions translates an install status into Kubernetes conditions. The
// reason of each condition is the camel-cased status code, and the message is
// the status message.
func Conditions(status installv1alpha1.InstallStatus, generation int64) []metav1.Condition {
	var conditions []metav1.Condition
	code := status.Status.OrNone()
	reason := conditionReason(code)
	msg := status.Message

	switch {
	case code.IsHealthy():
		setStatusConditionReady(&conditions, generation, reason, msg)
	case code.IsTransient():
		setStatusConditionProgressing(&conditions, generation, reason, msg)
	case code.IsFailure():
		setStatusConditionDegraded(&conditions, generation, reason, msg)
	default:
		setCondition(&conditions, generation, ConditionReady, metav1.ConditionUnknown, reason, msg)
	}
	return conditions
}

// setCondition is a helper function to set metav1.Conditions.
func setCondition(conditions *[]metav1.Condition, generation int64, conditionType string, status metav1.ConditionStatus, reason, message string) {
	apimeta.SetStatusCondition(conditions, metav1.Condition{
		Type:               conditionType,
		Status:             status,
		ObservedGeneration: generation,
		LastTransitionTime: metav1.Now(),
		Reason:             reason,
		Message:            message,
	})
}

// setStatusConditionReady marks the install Ready and clears the other
// conditions.
func setStatusConditionReady(conditions *[]metav1.Condition, generation int64, reason, message string) {
	setCondition(conditions, generation, ConditionReady, metav1.ConditionTrue, reason, message)
	apimeta.RemoveStatusCondition(conditions, ConditionProgressing)
	apimeta.RemoveStatusCondition(conditions, ConditionDegraded)
}

// setStatusConditionProgressing marks the install Progressing and not Ready.
func setStatusConditionProgressing(conditions *[]metav1.Condition, generation int64, reason, message string) {
	setCondition(conditions, generation, ConditionReady, metav1.ConditionFalse, reason, message)
	setCondition(conditions, generation, ConditionProgressing, metav1.ConditionTrue, reason, message)
	apimeta.RemoveStatusCondition(conditions, ConditionDegraded)
}

// setStatusConditionDegraded marks the install Degraded and not Ready.
func setStatusConditionDegraded(conditions *[]metav1.Condition, generation int64, reason, message string) {
	setCondition(conditions, generation, ConditionReady, metav1.ConditionFalse, reason, message)
	setCondition(conditions, generation, ConditionDegraded, metav1.ConditionTrue, reason, message)
	apimeta.RemoveStatusCondition(conditions, ConditionProgressing)
}

// conditionReason turns ACTION_REQUIRED into ActionRequired, as condition
// reasons must be CamelCase.
func conditionReason(code installv1alpha1.StatusCode) string {
	out := make([]byte, 0, len(code))
	upper := true
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '_':
			upper = true
		case upper:
			out = append(out, ch)
			upper = false
		default:
			out = append(out, ch+('a'-'A'))
		}
	}
	return string(out)
}
