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

// Option configures how a selector is compiled.
type Option interface {
	apply(*compiler)
}

type strictLiteralsOption struct{}

func (strictLiteralsOption) apply(c *compiler) {
	c.strictLiterals = true
}

// StrictLiterals restricts literal matching to numbers and objects. Null,
// boolean, string and array literals then cause Match to return an
// *UnsupportedError, instead of being compared for structural equality.
func StrictLiterals() Option {
	return strictLiteralsOption{}
}

type strictOperatorsOption struct{}

func (strictOperatorsOption) apply(c *compiler) {
	c.strictOperators = true
}

// StrictOperators causes objects which combine a reserved operator key with
// any other key to be rejected with a *DecodeError. By default, the first
// reserved key found (in the order $eq, $in, $ne, $nin, $and, $not, $or)
// decides the operator, and all other keys are ignored.
func StrictOperators() Option {
	return strictOperatorsOption{}
}
