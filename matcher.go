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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ianatha/objmatch/value"
)

// Matcher is a compiled selector node.
type Matcher interface {
	// Op returns the node's operator, or OpNone for literal and field
	// matchers.
	Op() Operator
	// Value returns the node's argument: a Matcher for $eq, $ne and $not, a
	// []Matcher for $in, $nin, $and and $or, a map of field names to
	// Matchers for objects, and the literal value otherwise.
	Value() any
	// String returns a compact, human-readable representation of the node.
	String() string
	// Match evaluates the node against doc, which must be a value tree. doc
	// is never modified.
	Match(doc any) (bool, error)
	// MarshalJSON renders the node in canonical selector form.
	json.Marshaler
}

type unaryNode struct {
	op  Operator
	sel Matcher
}

var _ Matcher = (*unaryNode)(nil)

func (n *unaryNode) Op() Operator {
	return n.op
}

func (n *unaryNode) Value() any {
	return n.sel
}

func (n *unaryNode) String() string {
	return fmt.Sprintf("%s %s", n.op, n.sel)
}

func (n *unaryNode) Match(doc any) (bool, error) {
	match, err := n.sel.Match(doc)
	if err != nil {
		return false, err
	}
	if n.op == OpEqual {
		return match, nil
	}
	// $ne and $not
	return !match, nil
}

func (n *unaryNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[Operator]Matcher{n.op: n.sel})
}

type listNode struct {
	op  Operator
	sel []Matcher
}

var _ Matcher = (*listNode)(nil)

func (n *listNode) Op() Operator {
	return n.op
}

func (n *listNode) Value() any {
	return n.sel
}

func (n *listNode) String() string {
	var sb strings.Builder
	sb.WriteString(string(n.op))
	sb.WriteString(" [")
	for i, sel := range n.sel {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sel.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func (n *listNode) Match(doc any) (bool, error) {
	switch n.op {
	case OpAnd:
		for _, sel := range n.sel {
			match, err := sel.Match(doc)
			if err != nil || !match {
				return false, err
			}
		}
		return true, nil
	case OpOr, OpIn:
		for _, sel := range n.sel {
			match, err := sel.Match(doc)
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
		}
		return false, nil
	case OpNotIn:
		for _, sel := range n.sel {
			match, err := sel.Match(doc)
			if err != nil {
				return false, err
			}
			if match {
				return false, nil
			}
		}
		return true, nil
	}
	panic("unexpected list operator " + string(n.op))
}

func (n *listNode) MarshalJSON() ([]byte, error) {
	sel := n.sel
	if sel == nil {
		sel = []Matcher{}
	}
	return json.Marshal(map[Operator][]Matcher{n.op: sel})
}

type literalNode struct {
	path   string
	value  any
	strict bool
}

var _ Matcher = (*literalNode)(nil)

func (*literalNode) Op() Operator {
	return OpNone
}

func (n *literalNode) Value() any {
	return n.value
}

func (n *literalNode) String() string {
	buf, err := json.Marshal(n.value)
	if err != nil {
		return fmt.Sprintf("%v", n.value)
	}
	return string(buf)
}

func (n *literalNode) Match(doc any) (bool, error) {
	kind, err := value.KindOf(n.value)
	if err != nil {
		return false, unsupported(n.path, err)
	}
	if n.strict && kind != value.Number {
		return false, &UnsupportedError{Kind: kind, Path: n.path}
	}
	match, err := value.Equal(n.value, doc)
	if err != nil {
		return false, unsupported(n.path, err)
	}
	return match, nil
}

func (n *literalNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// objectNode matches each of its fields against the same-named member of the
// document. Fields are kept sorted by name.
type objectNode struct {
	fields []*fieldNode
}

var _ Matcher = (*objectNode)(nil)

func (*objectNode) Op() Operator {
	return OpNone
}

func (n *objectNode) Value() any {
	fields := make(map[string]Matcher, len(n.fields))
	for _, f := range n.fields {
		fields[f.field] = f.cond
	}
	return fields
}

func (n *objectNode) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, f := range n.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (n *objectNode) Match(doc any) (bool, error) {
	for _, f := range n.fields {
		match, err := f.Match(doc)
		if err != nil || !match {
			return false, err
		}
	}
	return true, nil
}

func (n *objectNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value())
}

type fieldNode struct {
	path  string
	field string
	cond  Matcher
}

var _ Matcher = (*fieldNode)(nil)

func (f *fieldNode) Op() Operator {
	return f.cond.Op()
}

func (f *fieldNode) Value() any {
	return f.cond.Value()
}

func (f *fieldNode) String() string {
	return fmt.Sprintf("%s: %s", f.field, f.cond)
}

func (f *fieldNode) Match(doc any) (bool, error) {
	// A missing member is passed on as nil, so that it can still be compared.
	member, err := value.Lookup(doc, f.field)
	if err != nil {
		return false, unsupported(f.path, err)
	}
	return f.cond.Match(member)
}

func (f *fieldNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Matcher{f.field: f.cond})
}
