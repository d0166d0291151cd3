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
	"sort"

	"github.com/ianatha/objmatch/value"
)

type compiler struct {
	strictLiterals  bool
	strictOperators bool
}

func newCompiler(opts []Option) *compiler {
	c := &compiler{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
	return c
}

// New compiles a selector from a value tree. tree is first copied with
// value.Normalize, so the returned Matcher shares no state with the caller.
// The whole tree is classified before New returns. If any operator has a
// malformed argument, a *DecodeError is returned and no Matcher is built.
func New(tree any, opts ...Option) (Matcher, error) {
	tree, err := value.Normalize(tree)
	if err != nil {
		return nil, unsupported("", err)
	}
	return newCompiler(opts).compile(tree, "")
}

// Parse parses JSON input and compiles it into a Matcher. JSON syntax errors
// are returned as-is from encoding/json.
func Parse(input []byte, opts ...Option) (Matcher, error) {
	tree, err := value.Parse(input)
	if err != nil {
		return nil, err
	}
	return newCompiler(opts).compile(tree, "")
}

func (c *compiler) compile(v any, path string) (Matcher, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return &literalNode{
			path:   path,
			value:  v,
			strict: c.strictLiterals,
		}, nil
	}
	for _, op := range reserved {
		arg, ok := obj[string(op)]
		if !ok {
			continue
		}
		if c.strictOperators && len(obj) > 1 {
			return nil, &DecodeError{Op: op, Path: path, Err: errors.New("too many keys in object")}
		}
		return c.operator(op, arg, path)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]*fieldNode, 0, len(keys))
	for _, k := range keys {
		cond, err := c.compile(obj[k], joinPath(path, k))
		if err != nil {
			return nil, err
		}
		fields = append(fields, &fieldNode{path: path, field: k, cond: cond})
	}
	return &objectNode{fields: fields}, nil
}

func (c *compiler) operator(op Operator, arg any, path string) (Matcher, error) {
	if !op.takesList() {
		sel, err := c.compile(arg, path)
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, sel: sel}, nil
	}

	list, ok := arg.([]any)
	if !ok {
		kind, _ := value.KindOf(arg)
		return nil, &DecodeError{Op: op, Path: path, Err: fmt.Errorf("expected array, got %s", kind)}
	}
	sels := make([]Matcher, 0, len(list))
	for _, elem := range list {
		sel, err := c.compile(elem, path)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return &listNode{op: op, sel: sels}, nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
