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

package objmatch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ianatha/objmatch/value"
)

// ErrUnsupported is matched, with [errors.Is], by every error reporting a
// value kind the matcher cannot evaluate.
var ErrUnsupported = errors.New("unsupported value kind")

// DecodeError is returned when a selector cannot be compiled, because the
// argument of an operator has the wrong shape.
type DecodeError struct {
	// Op is the offending operator.
	Op Operator
	// Path is the dotted path of the selector field containing the operator.
	// It is empty for a top-level operator.
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 400 Bad Request.
func (*DecodeError) HTTPStatus() int {
	return http.StatusBadRequest
}

// UnsupportedError is returned by Match when evaluation reaches a value kind
// it does not support: a literal kind disabled by [StrictLiterals], or a
// document value which is not part of a value tree.
type UnsupportedError struct {
	// Kind is the kind of the unsupported literal. It is meaningful only when
	// Err is nil.
	Kind value.Kind
	// Path is the dotted path of the selector field being evaluated.
	Path string
	// Err is the underlying *value.KindError, for document values of an
	// unknown type.
	Err error
}

func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("unsupported value kind: %s literal", e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return msg
	}
	return e.Path + ": " + msg
}

func (e *UnsupportedError) Unwrap() error {
	return e.Err
}

// Is returns true if target is ErrUnsupported.
func (*UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// HTTPStatus returns 501 Not Implemented.
func (*UnsupportedError) HTTPStatus() int {
	return http.StatusNotImplemented
}

func unsupported(path string, err error) error {
	var kindErr *value.KindError
	if errors.As(err, &kindErr) {
		return &UnsupportedError{Path: path, Err: err}
	}
	return err
}
