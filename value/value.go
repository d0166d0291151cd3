// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package value provides the semi-structured value tree shared by queries and
// candidate documents.
//
// A value tree is what encoding/json produces when unmarshaling into an empty
// interface: nil, bool, float64, string, []any and map[string]any. Values
// from other sources (YAML, native Go structures) can be brought into this
// shape with [Normalize].
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/icza/dyno"
	"gopkg.in/yaml.v3"
)

// Parse parses JSON text into a value tree. Integers too large to be held
// exactly by a float64 are kept as json.Number.
func Parse(data []byte) (any, error) {
	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return numbers(v)
}

// numbers replaces the json.Number values of a freshly decoded tree in place.
func numbers(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		return number(t)
	case []any:
		for i, elem := range t {
			n, err := numbers(elem)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
	case map[string]any:
		for k, elem := range t {
			n, err := numbers(elem)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
	}
	return v, nil
}

// ParseYAML parses YAML text into a value tree.
func ParseYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return Normalize(dyno.ConvertMapI2MapS(v))
}

// Normalize returns a copy of v converted to value tree shapes. Integer and
// float types become float64 (integers beyond 2^53 become json.Number), times become RFC 3339 strings and maps with
// non-string keys have their keys formatted as strings. Any other type is
// passed through a JSON round trip. v itself is never modified.
func Normalize(v any) (any, error) {
	if isNil(v) {
		return nil, nil
	}
	switch t := v.(type) {
	case bool, string, float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return intNumber(int64(t)), nil
	case int8:
		return intNumber(int64(t)), nil
	case int16:
		return intNumber(int64(t)), nil
	case int32:
		return intNumber(int64(t)), nil
	case int64:
		return intNumber(t), nil
	case uint:
		return uintNumber(uint64(t)), nil
	case uint8:
		return uintNumber(uint64(t)), nil
	case uint16:
		return uintNumber(uint64(t)), nil
	case uint32:
		return uintNumber(uint64(t)), nil
	case uint64:
		return uintNumber(t), nil
	case json.Number:
		return number(t)
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, &KindError{Type: reflect.TypeOf(v)}
	}
	return Parse(buf)
}

// Equal reports whether a and b are structurally equal. Numbers are compared
// exactly, arrays element by element, and objects by key set and member
// values. An error is returned if either argument contains a value which is
// not part of a value tree.
func Equal(a, b any) (bool, error) {
	aKind, err := KindOf(a)
	if err != nil {
		return false, err
	}
	bKind, err := KindOf(b)
	if err != nil {
		return false, err
	}
	if aKind != bKind {
		return false, nil
	}

	switch aKind {
	case Null:
		return true, nil
	case Bool:
		return a.(bool) == b.(bool), nil
	case Number:
		return numberEqual(a, b), nil
	case String:
		return a.(string) == b.(string), nil
	case Array:
		aArray, bArray := a.([]any), b.([]any)
		if len(aArray) != len(bArray) {
			return false, nil
		}
		for i := range aArray {
			if eq, err := Equal(aArray[i], bArray[i]); err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}

	aObject, bObject := a.(map[string]any), b.(map[string]any)
	if len(aObject) != len(bObject) {
		return false, nil
	}
	for k, aValue := range aObject {
		bValue, ok := bObject[k]
		if !ok {
			return false, nil
		}
		if eq, err := Equal(aValue, bValue); err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// Lookup returns the member of doc named key. If doc is not an object, or
// has no such member, nil is returned, the same as for a null member. A
// *KindError is returned if doc is not a value tree node.
func Lookup(doc any, key string) (any, error) {
	kind, err := KindOf(doc)
	if err != nil {
		return nil, err
	}
	if kind != Object {
		return nil, nil
	}
	return doc.(map[string]any)[key], nil
}
