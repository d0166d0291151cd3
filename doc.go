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

// Package objmatch evaluates MongoDB-style query selectors against
// semi-structured documents.
//
// A selector is a value tree (see the value package) such as
//
//	{"$or": [{"a": {"$or": [1, 2]}}, {"b": 2}]}
//
// which is compiled once with [New] or [Parse] into a [Matcher], and then
// evaluated against any number of candidate documents:
//
//	m, err := objmatch.Parse([]byte(`{"name": {"$in": ["alice", "bob"]}}`))
//	if err != nil {
//	    return err
//	}
//	ok, err := m.Match(doc)
//
// The supported operators are $eq, $ne, $in, $nin, $and, $or and $not. Any
// object without one of these keys is matched field by field against the
// candidate: each member of the selector object must match the candidate's
// member of the same name. Missing members are compared as null.
//
// Literals are compared as follows. Numbers match a candidate number of
// exactly the same value, with 1 and 1.0 being equal and integers beyond
// 2^53 compared without rounding. Null, boolean, string and array literals
// match a structurally equal candidate by default; with [StrictLiterals]
// they are not supported at all, and Match returns an [*UnsupportedError].
// A candidate which is not a value tree always produces an
// [*UnsupportedError], never a verdict.
//
// Compiled matchers are immutable and safe for concurrent use.
package objmatch
