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

// Package manifest reads and writes IstioOperator documents as YAML or JSON.
package manifest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/yaml"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// debugLevel is the go-logr level for debug/verbose logging
const debugLevel = 1

var (
	// ErrMissingKind is returned for a document without a kind.
	ErrMissingKind = errors.New("document has no kind")

	// ErrWrongAPIVersion is returned for an IstioOperator document whose
	// apiVersion is not install.istio.io/v1alpha1.
	ErrWrongAPIVersion = errors.New("unsupported apiVersion")
)

// -----------------------------------------------------------------------------
// Format
// -----------------------------------------------------------------------------

// Format is an output encoding.
type Format string

const (
	// FormatYAML writes "---" separated YAML documents.
	FormatYAML Format = "yaml"

	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected yaml or json", name)
	}
}

// -----------------------------------------------------------------------------
// Decode
// -----------------------------------------------------------------------------

// Decode reads a stream of YAML documents (JSON is valid YAML) and returns the
// IstioOperator documents in order. Documents of other kinds are skipped.
//
// Every document is attempted; the returned error aggregates one error per
// rejected document, and the well-formed documents are still returned.
func Decode(ctx context.Context, r io.Reader) ([]*installv1alpha1.IstioOperator, error) {
	log := logf.FromContext(ctx)
	reader := utilyaml.NewYAMLReader(bufio.NewReader(r))

	var (
		objs []*installv1alpha1.IstioOperator
		errs []error
	)
	for index := 0; ; index++ {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("document %d: %w", index, err))
			break
		}

		iop, err := decodeDocument(doc)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("document %d: %w", index, err))
		case iop == nil:
			log.V(debugLevel).Info("skipping document", "index", index)
		default:
			objs = append(objs, iop)
		}
	}

	return objs, utilerrors.NewAggregate(errs)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(ctx context.Context, data []byte) ([]*installv1alpha1.IstioOperator, error) {
	return Decode(ctx, bytes.NewReader(data))
}

// decodeDocument returns nil without error for empty documents and documents
// of other kinds.
func decodeDocument(doc []byte) (*installv1alpha1.IstioOperator, error) {
	data, err := yaml.YAMLToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if isEmptyJSON(data) {
		return nil, nil
	}

	var meta metav1.TypeMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("document is not a mapping: %w", err)
	}
	if meta.Kind == "" {
		return nil, ErrMissingKind
	}
	if meta.Kind != installv1alpha1.IstioOperatorKind {
		return nil, nil
	}
	if meta.APIVersion != installv1alpha1.GroupVersion.String() {
		return nil, fmt.Errorf("%w %q for %s, expected %s", ErrWrongAPIVersion, meta.APIVersion, meta.Kind, installv1alpha1.GroupVersion)
	}

	iop := &installv1alpha1.IstioOperator{}
	if err := json.Unmarshal(data, iop); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", meta.Kind, err)
	}
	return iop, nil
}

func isEmptyJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// DecodeSpec decodes a single IstioOperatorSpec from YAML or JSON. A complete
// IstioOperator document is accepted too, in which case its spec is returned.
// Unknown fields are ignored.
func DecodeSpec(data []byte) (*installv1alpha1.IstioOperatorSpec, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if isEmptyJSON(jsonData) {
		return &installv1alpha1.IstioOperatorSpec{}, nil
	}

	var meta metav1.TypeMeta
	if err := json.Unmarshal(jsonData, &meta); err != nil {
		return nil, fmt.Errorf("spec is not a mapping: %w", err)
	}
	if meta.Kind == installv1alpha1.IstioOperatorKind {
		iop, err := decodeDocument(data)
		if err != nil {
			return nil, err
		}
		return &iop.Spec, nil
	}

	spec := &installv1alpha1.IstioOperatorSpec{}
	if err := json.Unmarshal(jsonData, spec); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}
	return spec, nil
}

// -----------------------------------------------------------------------------
// Encode
// -----------------------------------------------------------------------------

// Encode writes objs in the given format, filling in the TypeMeta of each
// object. The inputs are not modified. Several objects encoded as JSON are
// wrapped in an IstioOperatorList.
func Encode(w io.Writer, format Format, objs ...*installv1alpha1.IstioOperator) error {
	typed := make([]installv1alpha1.IstioOperator, 0, len(objs))
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		cp := obj.DeepCopy()
		cp.APIVersion = installv1alpha1.GroupVersion.String()
		cp.Kind = installv1alpha1.IstioOperatorKind
		typed = append(typed, *cp)
	}

	switch format {
	case FormatYAML:
		for i := range typed {
			if i > 0 {
				if _, err := io.WriteString(w, "---\n"); err != nil {
					return err
				}
			}
			out, err := yaml.Marshal(&typed[i])
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", typed[i].Name, err)
			}
			if _, err := w.Write(out); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		var v any
		if len(typed) == 1 {
			v = &typed[0]
		} else {
			v = &installv1alpha1.IstioOperatorList{
				TypeMeta: metav1.TypeMeta{
					APIVersion: installv1alpha1.GroupVersion.String(),
					Kind:       "IstioOperatorList",
				},
				Items: typed,
			}
		}
		return WriteJSON(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// Write writes v in the given format.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
