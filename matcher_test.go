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
	"testing"

	"github.com/google/go-cmp/cmp"
	"gitlab.com/flimzy/testy"
)

func TestMarshalJSON(t *testing.T) {
	type test struct {
		input string
		want  string
	}

	tests := testy.NewTable()
	tests.Add("scenario", test{
		input: `{"$or": [{"a": {"$or": [1, 2]}}, {"b": 2}]}`,
		want:  `{"$or":[{"a":{"$or":[1,2]}},{"b":2}]}`,
	})
	tests.Add("extra keys dropped", test{
		input: `{"$eq": 1, "ignored": true}`,
		want:  `{"$eq":1}`,
	})
	tests.Add("empty list", test{
		input: `{"$nin": []}`,
		want:  `{"$nin":[]}`,
	})
	tests.Add("literals", test{
		input: `{"a": null, "b": [1, "x"], "c": {"$not": {"$ne": false}}}`,
		want:  `{"a":null,"b":[1,"x"],"c":{"$not":{"$ne":false}}}`,
	})
	tests.Add("empty object", test{
		input: `{}`,
		want:  `{}`,
	})

	tests.Run(t, func(t *testing.T, tt test) {
		sel := mustParse(t, tt.input)
		got, err := json.Marshal(sel)
		if err != nil {
			t.Fatal(err)
		}
		if d := testy.DiffAsJSON([]byte(tt.want), got); d != nil {
			t.Error(d)
		}

		reparsed := mustParse(t, string(got))
		if reparsed.String() != sel.String() {
			t.Errorf("Round trip changed the selector.\nWant: %s\n Got: %s", sel, reparsed)
		}
	})
}

func TestValue(t *testing.T) {
	sel := mustParse(t, `{"$and": [{"a": {"$ne": 1}}, 2]}`)
	if sel.Op() != OpAnd {
		t.Fatalf("Unexpected op: %s", sel.Op())
	}
	list, ok := sel.Value().([]Matcher)
	if !ok || len(list) != 2 {
		t.Fatalf("Unexpected value: %#v", sel.Value())
	}

	fields, ok := list[0].Value().(map[string]Matcher)
	if !ok {
		t.Fatalf("Unexpected object value: %#v", list[0].Value())
	}
	if list[0].Op() != OpNone {
		t.Errorf("Unexpected object op: %s", list[0].Op())
	}
	ne := fields["a"]
	if ne.Op() != OpNotEqual {
		t.Errorf("Unexpected field op: %s", ne.Op())
	}
	lit, ok := ne.Value().(Matcher)
	if !ok {
		t.Fatalf("Unexpected $ne value: %#v", ne.Value())
	}
	if d := cmp.Diff(float64(1), lit.Value()); d != "" {
		t.Errorf("Unexpected literal (-want +got):\n%s", d)
	}
	if d := cmp.Diff(float64(2), list[1].Value()); d != "" {
		t.Errorf("Unexpected literal (-want +got):\n%s", d)
	}
}
