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

// Match returns true if the selector matches doc. A nil selector matches
// every document. doc is expected to be a value tree, as produced by
// unmarshaling JSON into an empty interface; other Go values should be
// passed through value.Normalize first.
func Match(sel Matcher, doc any) (bool, error) {
	if sel == nil {
		return true, nil
	}
	return sel.Match(doc)
}
