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
	"testing"
	"time"

	"gitlab.com/flimzy/testy"
)

func TestKindOf(t *testing.T) {
	type test struct {
		input   any
		want    Kind
		wantErr string
	}

	tests := testy.NewTable()
	tests.Add("nil", test{input: nil, want: Null})
	tests.Add("nil pointer", test{input: (*string)(nil), want: Null})
	tests.Add("bool", test{input: true, want: Bool})
	tests.Add("number", test{input: float64(1), want: Number})
	tests.Add("json number", test{input: json.Number("9007199254740993"), want: Number})
	tests.Add("string", test{input: "foo", want: String})
	tests.Add("array", test{input: []any{}, want: Array})
	tests.Add("object", test{input: map[string]any{}, want: Object})
	tests.Add("int", test{
		input:   1,
		wantErr: "unsupported value kind: int",
	})
	tests.Add("struct", test{
		input:   struct{}{},
		wantErr: "unsupported value kind: struct {}",
	})

	tests.Run(t, func(t *testing.T, tt test) {
		got, err := KindOf(tt.input)
		if !testy.ErrorMatches(tt.wantErr, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if err != nil {
			return
		}
		if got != tt.want {
			t.Errorf("Unexpected kind: %s", got)
		}
	})
}

func TestParse(t *testing.T) {
	type test struct {
		input   string
		want    any
		wantErr string
	}

	tests := testy.NewTable()
	tests.Add("object", test{
		input: `{"a":[1,"b",null,true]}`,
		want:  map[string]any{"a": []any{float64(1), "b", nil, true}},
	})
	tests.Add("scalar", test{
		input: `3.5`,
		want:  3.5,
	})
	tests.Add("invalid", test{
		input:   `{"a":`,
		wantErr: "unexpected end of JSON input",
	})
	tests.Add("large integer", test{
		input: `[9007199254740993, -9007199254740993, 9007199254740991, 1e3]`,
		want:  []any{json.Number("9007199254740993"), json.Number("-9007199254740993"), float64(9007199254740991), float64(1000)},
	})
	tests.Add("trailing data", test{
		input:   `{} x`,
		wantErr: "invalid character 'x' after top-level value",
	})

	tests.Run(t, func(t *testing.T, tt test) {
		got, err := Parse([]byte(tt.input))
		if !testy.ErrorMatches(tt.wantErr, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if d := testy.DiffInterface(tt.want, got); d != nil {
			t.Error(d)
		}
	})
}

func TestParseYAML(t *testing.T) {
	type test struct {
		input   string
		want    any
		wantErr string
	}

	tests := testy.NewTable()
	tests.Add("object", test{
		input: "a: 1\nb:\n  - x\n  - 2.5\n",
		want: map[string]any{
			"a": float64(1),
			"b": []any{"x", 2.5},
		},
	})
	tests.Add("non-string keys", test{
		input: "1: one\ntrue: yes\n",
		want: map[string]any{
			"1":    "one",
			"true": "yes",
		},
	})
	tests.Add("empty", test{
		input: "",
		want:  nil,
	})
	tests.Add("invalid", test{
		input:   "a: [",
		wantErr: "^yaml: ",
	})

	tests.Run(t, func(t *testing.T, tt test) {
		got, err := ParseYAML([]byte(tt.input))
		if !testy.ErrorMatchesRE(tt.wantErr, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if d := testy.DiffInterface(tt.want, got); d != nil {
			t.Error(d)
		}
	})
}

func TestNormalize(t *testing.T) {
	type test struct {
		input   any
		want    any
		wantErr string
	}

	tests := testy.NewTable()
	tests.Add("nil", test{input: nil, want: nil})
	tests.Add("int", test{input: 3, want: float64(3)})
	tests.Add("uint8", test{input: uint8(7), want: float64(7)})
	tests.Add("float32", test{input: float32(0.5), want: float64(0.5)})
	tests.Add("json number", test{input: json.Number("12"), want: float64(12)})
	tests.Add("large json number", test{input: json.Number("18446744073709551617"), want: json.Number("18446744073709551617")})
	tests.Add("large int64", test{input: int64(1<<53 + 1), want: json.Number("9007199254740993")})
	tests.Add("large uint64", test{input: uint64(1 << 63), want: json.Number("9223372036854775808")})
	tests.Add("time", test{
		input: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		want:  "2020-01-02T03:04:05Z",
	})
	tests.Add("nested", test{
		input: map[string]any{
			"a": []any{1, int64(2)},
			"b": map[any]any{1: true},
		},
		want: map[string]any{
			"a": []any{float64(1), float64(2)},
			"b": map[string]any{"1": true},
		},
	})
	tests.Add("struct", test{
		input: struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}{Name: "bob", Age: 42},
		want: map[string]any{"name": "bob", "age": float64(42)},
	})
	tests.Add("channel", test{
		input:   make(chan int),
		wantErr: "unsupported value kind: chan int",
	})

	tests.Run(t, func(t *testing.T, tt test) {
		got, err := Normalize(tt.input)
		if !testy.ErrorMatches(tt.wantErr, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if d := testy.DiffInterface(tt.want, got); d != nil {
			t.Error(d)
		}
	})
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	input := map[string]any{"a": 1}
	if _, err := Normalize(input); err != nil {
		t.Fatal(err)
	}
	if _, ok := input["a"].(int); !ok {
		t.Errorf("input was modified: %#v", input)
	}
}

func TestEqual(t *testing.T) {
	type test struct {
		a, b    any
		want    bool
		wantErr string
	}

	tests := testy.NewTable()
	tests.Add("nulls", test{a: nil, b: nil, want: true})
	tests.Add("null vs false", test{a: nil, b: false, want: false})
	tests.Add("bools", test{a: true, b: true, want: true})
	tests.Add("!bools", test{a: true, b: false, want: false})
	tests.Add("numbers", test{a: float64(1), b: float64(1), want: true})
	tests.Add("!numbers", test{a: float64(1), b: 1.0000001, want: false})
	tests.Add("number vs string", test{a: float64(1), b: "1", want: false})
	tests.Add("large integers", test{a: json.Number("9007199254740993"), b: json.Number("9007199254740993"), want: true})
	tests.Add("!large integers", test{a: json.Number("9007199254740993"), b: json.Number("9007199254740992"), want: false})
	tests.Add("large integer vs float", test{a: json.Number("9007199254740993"), b: float64(1 << 53), want: false})
	tests.Add("json number vs float", test{a: json.Number("1.5"), b: 1.5, want: true})
	tests.Add("strings", test{a: "foo", b: "foo", want: true})
	tests.Add("arrays", test{
		a:    []any{float64(1), "a", []any{nil}},
		b:    []any{float64(1), "a", []any{nil}},
		want: true,
	})
	tests.Add("arrays of different length", test{
		a:    []any{float64(1)},
		b:    []any{float64(1), float64(1)},
		want: false,
	})
	tests.Add("arrays in different order", test{
		a:    []any{float64(1), float64(2)},
		b:    []any{float64(2), float64(1)},
		want: false,
	})
	tests.Add("objects", test{
		a:    map[string]any{"a": float64(1), "b": map[string]any{"c": "d"}},
		b:    map[string]any{"b": map[string]any{"c": "d"}, "a": float64(1)},
		want: true,
	})
	tests.Add("objects with different keys", test{
		a:    map[string]any{"a": float64(1)},
		b:    map[string]any{"b": float64(1)},
		want: false,
	})
	tests.Add("object subset", test{
		a:    map[string]any{"a": float64(1)},
		b:    map[string]any{"a": float64(1), "b": float64(2)},
		want: false,
	})
	tests.Add("unsupported", test{
		a:       "foo",
		b:       42,
		wantErr: "unsupported value kind: int",
	})
	tests.Add("nested unsupported", test{
		a:       []any{"foo"},
		b:       []any{int8(1)},
		wantErr: "unsupported value kind: int8",
	})

	tests.Run(t, func(t *testing.T, tt test) {
		got, err := Equal(tt.a, tt.b)
		if !testy.ErrorMatches(tt.wantErr, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if got != tt.want {
			t.Errorf("Unexpected result: %v", got)
		}
	})
}

func TestLookup(t *testing.T) {
	type test struct {
		doc     any
		key     string
		want    any
		wantErr string
	}

	tests := testy.NewTable()
	doc := map[string]any{"a": float64(1), "b": nil}
	tests.Add("member", test{doc: doc, key: "a", want: float64(1)})
	tests.Add("null member", test{doc: doc, key: "b"})
	tests.Add("missing member", test{doc: doc, key: "c"})
	tests.Add("non-object", test{doc: "foo", key: "a"})
	tests.Add("null document", test{doc: nil, key: "a"})
	tests.Add("foreign map", test{
		doc:     map[string]int{"a": 1},
		key:     "a",
		wantErr: "unsupported value kind: map[string]int",
	})
	tests.Add("struct", test{
		doc:     struct{ A int }{1},
		key:     "A",
		wantErr: "unsupported value kind: struct { A int }",
	})

	tests.Run(t, func(t *testing.T, tt test) {
		got, err := Lookup(tt.doc, tt.key)
		if !testy.ErrorMatches(tt.wantErr, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if d := testy.DiffInterface(tt.want, got); d != nil {
			t.Error(d)
		}
	})
}
