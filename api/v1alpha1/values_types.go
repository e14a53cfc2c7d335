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
	"fmt"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// -----------------------------------------------------------------------------
// Open Values - Codec
// -----------------------------------------------------------------------------

var (
	// ValuesMarshaler encodes open values to their JSON form.
	ValuesMarshaler = protojson.MarshalOptions{}

	// ValuesUnmarshaler decodes open values from their JSON form.
	ValuesUnmarshaler = protojson.UnmarshalOptions{DiscardUnknown: true}
)

// -----------------------------------------------------------------------------
// Value
// -----------------------------------------------------------------------------

// Value is a dynamically typed value: null, bool, number, string, an ordered
// list of values, or a mapping of string keys to values.
//
// Numbers are carried as IEEE-754 doubles.
//
// +kubebuilder:object:generate=false
// +kubebuilder:pruning:PreserveUnknownFields
// +kubebuilder:validation:Schemaless
type Value struct {
	*structpb.Value `json:"-"`
}

// NewValue converts a Go value into a Value. It accepts the same inputs as
// structpb.NewValue: nil, bools, integers, floats, strings, []any and
// map[string]any (recursively).
func NewValue(v any) (*Value, error) {
	pv, err := structpb.NewValue(v)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	return &Value{Value: pv}, nil
}

// NewStringValue returns a Value holding s.
func NewStringValue(s string) *Value {
	return &Value{Value: structpb.NewStringValue(s)}
}

// NewNumberValue returns a Value holding n.
func NewNumberValue(n float64) *Value {
	return &Value{Value: structpb.NewNumberValue(n)}
}

// Message returns the underlying protobuf message, or nil.
func (in *Value) Message() *structpb.Value {
	if in == nil {
		return nil
	}
	return in.Value
}

// IsNull reports whether the value is absent or an explicit null.
func (in *Value) IsNull() bool {
	m := in.Message()
	if m == nil || m.GetKind() == nil {
		return true
	}
	_, ok := m.GetKind().(*structpb.Value_NullValue)
	return ok
}

// AsInterface returns the value as plain Go data (see structpb.Value.AsInterface).
func (in *Value) AsInterface() any {
	if in.IsNull() {
		return nil
	}
	return in.Value.AsInterface()
}

// ScalarString renders a scalar value as a string. Numbers are formatted
// without a trailing fractional zero, so 1 renders as "1". Lists, mappings
// and nulls render as "".
func (in *Value) ScalarString() string {
	switch k := in.Message().GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same data.
func (in *Value) Equal(other *Value) bool {
	return proto.Equal(in.Message(), other.Message())
}

// MarshalJSON implements json.Marshaler.
func (in Value) MarshalJSON() ([]byte, error) {
	if in.Value == nil || in.Value.GetKind() == nil {
		return []byte("null"), nil
	}
	return ValuesMarshaler.Marshal(in.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *Value) UnmarshalJSON(b []byte) error {
	pv := &structpb.Value{}
	if err := ValuesUnmarshaler.Unmarshal(b, pv); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	in.Value = pv
	return nil
}

// DeepCopyInto copies the receiver into out. in must be non-nil.
func (in *Value) DeepCopyInto(out *Value) {
	*out = *in
	if in.Value != nil {
		out.Value = proto.Clone(in.Value).(*structpb.Value)
	}
}

// DeepCopy creates a new Value by deep copying the receiver.
func (in *Value) DeepCopy() *Value {
	if in == nil {
		return nil
	}
	out := new(Value)
	in.DeepCopyInto(out)
	return out
}

// -----------------------------------------------------------------------------
// Values
// -----------------------------------------------------------------------------

// Values is an open-ended mapping of string keys to arbitrary nested values.
// It carries configuration overlays whose keys are not known to this schema.
//
// +kubebuilder:object:generate=false
// +kubebuilder:pruning:PreserveUnknownFields
// +kubebuilder:validation:Schemaless
// +kubebuilder:validation:Type=object
type Values struct {
	*structpb.Struct `json:"-"`
}

// NewValues converts a Go map into Values. Nested data follows the rules of
// NewValue; in particular typed slices such as []string must be given as []any.
func NewValues(m map[string]any) (*Values, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("invalid values: %w", err)
	}
	return &Values{Struct: s}, nil
}

// Message returns the underlying protobuf message, or nil.
func (in *Values) Message() *structpb.Struct {
	if in == nil {
		return nil
	}
	return in.Struct
}

// AsMap returns the values as plain Go data. A nil receiver yields nil.
func (in *Values) AsMap() map[string]any {
	m := in.Message()
	if m == nil {
		return nil
	}
	return m.AsMap()
}

// Len returns the number of top-level keys.
func (in *Values) Len() int {
	return len(in.Message().GetFields())
}

// Field returns the top-level value stored under key.
func (in *Values) Field(key string) (*Value, bool) {
	v, ok := in.Message().GetFields()[key]
	if !ok {
		return nil, false
	}
	return &Value{Value: v}, true
}

// Equal reports whether two Values hold the same data.
func (in *Values) Equal(other *Values) bool {
	return proto.Equal(in.Message(), other.Message())
}

// MarshalJSON implements json.Marshaler.
func (in Values) MarshalJSON() ([]byte, error) {
	if in.Struct == nil {
		return []byte("null"), nil
	}
	return ValuesMarshaler.Marshal(in.Struct)
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than a JSON
// object is rejected.
func (in *Values) UnmarshalJSON(b []byte) error {
	s := &structpb.Struct{}
	if err := ValuesUnmarshaler.Unmarshal(b, s); err != nil {
		return fmt.Errorf("invalid values: %w", err)
	}
	in.Struct = s
	return nil
}

// DeepCopyInto copies the receiver into out. in must be non-nil.
func (in *Values) DeepCopyInto(out *Values) {
	*out = *in
	if in.Struct != nil {
		out.Struct = proto.Clone(in.Struct).(*structpb.Struct)
	}
}

// DeepCopy creates a new Values by deep copying the receiver.
func (in *Values) DeepCopy() *Values {
	if in == nil {
		return nil
	}
	out := new(Values)
	in.DeepCopyInto(out)
	return out
}
