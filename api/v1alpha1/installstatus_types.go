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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// InstallStatus
// -----------------------------------------------------------------------------

// InstallStatus is the observed state of an install as reported by the
// reconciler. Successive snapshots overwrite each other; a snapshot is never
// modified once published.
type InstallStatus struct {
	// Status is the overall state of the install.
	//
	// +optional
	Status StatusCode `json:"status,omitempty"`

	// Message is a free-text summary of the install.
	//
	// +optional
	Message string `json:"message,omitempty"`

	// ComponentStatus maps a component name to its version and state.
	//
	// +optional
	ComponentStatus map[string]ComponentVersionStatus `json:"componentStatus,omitempty"`
}

// ComponentVersionStatus is the version and state of one named component.
type ComponentVersionStatus struct {
	// Version is the installed version, empty until determined.
	//
	// +optional
	Version string `json:"version,omitempty"`

	// Status is the current state of the component.
	//
	// +optional
	Status StatusCode `json:"status,omitempty"`

	// Error is a human-readable diagnostic. The reconciler populates it for
	// ERROR and ACTION_REQUIRED; nothing here enforces that.
	//
	// +optional
	Error string `json:"error,omitempty"`
}

// -----------------------------------------------------------------------------
// StatusCode
// -----------------------------------------------------------------------------

// ErrUnknownStatusCode is returned when a status code outside the closed set
// is encoded or decoded.
var ErrUnknownStatusCode = errors.New("unknown status code")

// StatusCode is the lifecycle state of an install or one of its components.
//
// +kubebuilder:validation:Enum=NONE;UPDATING;RECONCILING;HEALTHY;ERROR;ACTION_REQUIRED
type StatusCode string

const (
	// StatusNone is the initial state, before any work has been observed.
	StatusNone StatusCode = "NONE"

	// StatusUpdating means a new desired state is being applied.
	StatusUpdating StatusCode = "UPDATING"

	// StatusReconciling means observed state is converging on desired state.
	StatusReconciling StatusCode = "RECONCILING"

	// StatusHealthy means observed state matches desired state.
	StatusHealthy StatusCode = "HEALTHY"

	// StatusError means the install failed.
	StatusError StatusCode = "ERROR"

	// StatusActionRequired means the install cannot progress without
	// intervention.
	StatusActionRequired StatusCode = "ACTION_REQUIRED"
)

// StatusCodes lists every status code in enum number order.
var StatusCodes = []StatusCode{
	StatusNone,
	StatusUpdating,
	StatusReconciling,
	StatusHealthy,
	StatusError,
	StatusActionRequired,
}

// ParseStatusCode returns the status code with the given name.
func ParseStatusCode(name string) (StatusCode, error) {
	code := StatusCode(name)
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatusCode, name)
	}
	return code, nil
}

// StatusCodeFromNumber returns the status code with the given protobuf enum
// number.
func StatusCodeFromNumber(n int32) (StatusCode, error) {
	if n < 0 || int(n) >= len(StatusCodes) {
		return "", fmt.Errorf("%w: %d", ErrUnknownStatusCode, n)
	}
	return StatusCodes[n], nil
}

// Number returns the protobuf enum number of the code, or -1 when the code is
// not in the closed set.
func (s StatusCode) Number() int32 {
	for i, code := range StatusCodes {
		if code == s {
			return int32(i)
		}
	}
	return -1
}

// IsValid reports whether s is one of the defined status codes.
func (s StatusCode) IsValid() bool {
	return s.Number() >= 0
}

// IsTransient reports whether s is a state the install is expected to leave
// on its own.
func (s StatusCode) IsTransient() bool {
	return s == StatusUpdating || s == StatusReconciling
}

// IsFailure reports whether s is a failure state.
func (s StatusCode) IsFailure() bool {
	return s == StatusError || s == StatusActionRequired
}

// IsHealthy reports whether s is the terminal success state.
func (s StatusCode) IsHealthy() bool {
	return s == StatusHealthy
}

// OrNone returns s, or StatusNone when s is unset.
func (s StatusCode) OrNone() StatusCode {
	if s == "" {
		return StatusNone
	}
	return s
}

// MarshalJSON implements json.Marshaler. Codes outside the closed set cannot
// be encoded.
func (s StatusCode) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatusCode, string(s))
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler. It accepts the literal name of a
// code or its protobuf enum number; null leaves the code unset.
func (s *StatusCode) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		code, err := ParseStatusCode(name)
		if err != nil {
			return err
		}
		*s = code
		return nil
	}

	var n int32
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownStatusCode, string(b))
	}
	code, err := StatusCodeFromNumber(n)
	if err != nil {
		return err
	}
	*s = code
	return nil
}
