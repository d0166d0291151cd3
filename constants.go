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

// Operator represents a selector operator.
type Operator string

// OpNone is reported by literal and field matchers, which carry no operator.
const OpNone = Operator("")

// Condition operators
const (
	OpEqual    = Operator("$eq")
	OpNotEqual = Operator("$ne")
	OpIn       = Operator("$in")
	OpNotIn    = Operator("$nin")
)

// Combination operators
const (
	OpAnd = Operator("$and")
	OpOr  = Operator("$or")
	OpNot = Operator("$not")
)

// reserved lists the reserved keys in the order in which they are checked
// when classifying an object. When an object carries more than one, the first
// one found wins.
var reserved = []Operator{OpEqual, OpIn, OpNotEqual, OpNotIn, OpAnd, OpNot, OpOr}

// IsOperator returns true if key is one of the reserved operator keys.
func IsOperator(key string) bool {
	for _, op := range reserved {
		if string(op) == key {
			return true
		}
	}
	return false
}

// takesList returns true if op's argument must be an array of selectors.
func (op Operator) takesList() bool {
	switch op {
	case OpIn, OpNotIn, OpAnd, OpOr:
		return true
	}
	return false
}

// Version is the version of the objmatch library and command.
const Version = "0.1.0"
