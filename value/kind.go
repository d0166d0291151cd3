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

package value

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Kind identifies the variant of a value tree node.
type Kind int

// The value tree kinds, in CouchDB collation order.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindError is returned when a Go value has no value tree representation.
type KindError struct {
	Type reflect.Type
}

func (e *KindError) Error() string {
	if e.Type == nil {
		return "unsupported value kind"
	}
	return fmt.Sprintf("unsupported value kind: %s", e.Type)
}

// KindOf returns the kind of v, which is expected to be the result of
// unmarshaling JSON into an empty interface, or the output of [Normalize].
func KindOf(v any) (Kind, error) {
	if isNil(v) {
		return Null, nil
	}

	switch v.(type) {
	case bool:
		return Bool, nil
	case float64, json.Number:
		return Number, nil
	case string:
		return String, nil
	case []any:
		return Array, nil
	case map[string]any:
		return Object, nil
	}
	return 0, &KindError{Type: reflect.TypeOf(v)}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
