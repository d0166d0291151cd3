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

package input

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"gitlab.com/flimzy/testy"

	cmderrors "github.com/ianatha/objmatch/cmd/objmatch/errors"
)

type fakeFetcher map[string]string

var _ Fetcher = fakeFetcher{}

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f[url]
	if !ok {
		return nil, cmderrors.HTTPStatus(404, "Not Found")
	}
	return []byte(body), nil
}

func newInput(t *testing.T, fetcher Fetcher, args []string) *Input {
	t.Helper()
	i := New(fetcher)
	flags := pflag.NewFlagSet("x", pflag.ContinueOnError)
	i.ConfigFlags(flags)

	set := func(flag *pflag.Flag, value string) error {
		return flags.Set(flag.Name, value)
	}

	if err := flags.ParseAll(args, set); err != nil {
		t.Fatal(err)
	}
	return i
}

func TestQuery(t *testing.T) {
	type tt struct {
		args    []string
		stdin   string
		fetcher Fetcher
		want    any
		status  int
		err     string
	}

	tests := testy.NewTable()
	tests.Add("no query", tt{
		status: cmderrors.ErrUsage,
		err:    "no query provided",
	})
	tests.Add("inline", tt{
		args: []string{"-q", `{"a":{"$eq":1}}`},
		want: map[string]any{"a": map[string]any{"$eq": float64(1)}},
	})
	tests.Add("inline yaml", tt{
		args: []string{"--yaml", "-q", `a: {$ne: 1}`},
		want: map[string]any{"a": map[string]any{"$ne": float64(1)}},
	})
	tests.Add("stdin", tt{
		args:  []string{"-Q", "-"},
		stdin: `[1,2]`,
		want:  []any{float64(1), float64(2)},
	})
	tests.Add("file", tt{
		args: []string{"--query-file", "./testdata/query.json"},
		want: map[string]any{"status": map[string]any{"$in": []any{"active", "pending"}}},
	})
	tests.Add("yaml file extension", tt{
		args: []string{"--query-file", "./testdata/query.yaml"},
		want: map[string]any{"$or": []any{
			map[string]any{"age": float64(30)},
			map[string]any{"name": map[string]any{"$ne": "bob"}},
		}},
	})
	tests.Add("missing file", tt{
		args:   []string{"-Q", "./testdata/missing.json"},
		status: cmderrors.ErrNoInput,
		err:    "open ./testdata/missing.json: no such file or directory",
	})
	tests.Add("invalid JSON", tt{
		args:   []string{"-Q", "./testdata/bad.json"},
		status: cmderrors.ErrData,
		err:    "unexpected end of JSON input",
	})
	tests.Add("invalid YAML", tt{
		args:   []string{"--yaml", "-q", "a: [1"},
		status: cmderrors.ErrData,
		err:    "^yaml: ",
	})
	tests.Add("both stdin", tt{
		args:   []string{"-Q", "-", "-D", "-"},
		status: cmderrors.ErrUsage,
		err:    "query and document data cannot both be read from stdin",
	})
	tests.Add("remote", tt{
		args:    []string{"-Q", "http://example.com/query.json"},
		fetcher: fakeFetcher{"http://example.com/query.json": `{"$not":{"$eq":null}}`},
		want:    map[string]any{"$not": map[string]any{"$eq": nil}},
	})
	tests.Add("remote yaml", tt{
		args:    []string{"-Q", "https://example.com/query.yml?rev=2"},
		fetcher: fakeFetcher{"https://example.com/query.yml?rev=2": `a: true`},
		want:    map[string]any{"a": true},
	})
	tests.Add("remote not found", tt{
		args:    []string{"-Q", "http://example.com/missing.json"},
		fetcher: fakeFetcher{},
		status:  cmderrors.ErrNotFound,
		err:     "Not Found",
	})
	tests.Add("remote without fetcher", tt{
		args:   []string{"-Q", "http://example.com/query.json"},
		status: cmderrors.ErrUsage,
		err:    "remote input not supported: http://example.com/query.json",
	})

	tests.Run(t, func(t *testing.T, tt tt) {
		i := newInput(t, tt.fetcher, tt.args)

		var got any
		var err error
		_, _ = testy.RedirIO(strings.NewReader(tt.stdin), func() {
			got, err = i.Query(context.Background())
		})

		if status := cmderrors.InspectErrorCode(err); status != tt.status {
			t.Errorf("Unexpected error status. Want %d, got %d", tt.status, status)
		}
		if !testy.ErrorMatchesRE(tt.err, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if err != nil {
			return
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Error(d)
		}
	})
}

func TestDocument(t *testing.T) {
	type tt struct {
		args   []string
		stdin  string
		want   any
		status int
		err    string
	}

	tests := testy.NewTable()
	tests.Add("no doc", tt{
		status: cmderrors.ErrUsage,
		err:    "no document data provided",
	})
	tests.Add("stdin", tt{
		args:  []string{"--data-file", "-"},
		stdin: `{"foo":"bar"}`,
		want:  map[string]any{"foo": "bar"},
	})
	tests.Add("string", tt{
		args: []string{"--data", `{"xyz":123}`},
		want: map[string]any{"xyz": float64(123)},
	})
	tests.Add("scalar", tt{
		args: []string{"-d", `"foo"`},
		want: "foo",
	})
	tests.Add("file", tt{
		args: []string{"--data-file", "./testdata/doc.json"},
		want: map[string]any{"name": "alice", "age": float64(30), "status": "active"},
	})
	tests.Add("yaml stdin", tt{
		args:  []string{"--yaml", "--data-file", `-`},
		stdin: "foo: 1234",
		want:  map[string]any{"foo": float64(1234)},
	})
	tests.Add("yaml file extension", tt{
		args: []string{"--data-file", `./testdata/doc.yaml`},
		want: map[string]any{"name": "alice", "age": float64(30), "status": "active"},
	})
	tests.Add("yaml file missing", tt{
		args:   []string{"--yaml", "--data-file", `./testdata/missing.yaml`},
		status: cmderrors.ErrNoInput,
		err:    "open ./testdata/missing.yaml: no such file or directory",
	})

	tests.Run(t, func(t *testing.T, tt tt) {
		i := newInput(t, nil, tt.args)

		var got any
		var err error
		_, _ = testy.RedirIO(strings.NewReader(tt.stdin), func() {
			got, err = i.Document(context.Background())
		})

		if status := cmderrors.InspectErrorCode(err); status != tt.status {
			t.Errorf("Unexpected error status. Want %d, got %d", tt.status, status)
		}
		if !testy.ErrorMatches(tt.err, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if err != nil {
			return
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Error(d)
		}
	})
}

func TestDocuments(t *testing.T) {
	type tt struct {
		args   []string
		lines  bool
		stdin  string
		want   []any
		status int
		err    string
	}

	alice := map[string]any{"name": "alice", "status": "active"}
	bob := map[string]any{"name": "bob", "status": "retired"}
	carol := map[string]any{"name": "carol", "status": "pending"}

	tests := testy.NewTable()
	tests.Add("array file", tt{
		args: []string{"-D", "./testdata/docs.json"},
		want: []any{alice, bob, carol},
	})
	tests.Add("empty array", tt{
		args: []string{"-d", "[]"},
		want: []any{},
	})
	tests.Add("not an array", tt{
		args:   []string{"-D", "./testdata/doc.json"},
		status: cmderrors.ErrData,
		err:    "expected array of documents, got object",
	})
	tests.Add("lines", tt{
		args:  []string{"-D", "./testdata/docs.jsonl"},
		lines: true,
		want:  []any{alice, bob, carol},
	})
	tests.Add("lines from stdin", tt{
		args:  []string{"-D", "-"},
		lines: true,
		stdin: "1\n\"two\"\nnull\n",
		want:  []any{float64(1), "two", nil},
	})
	tests.Add("no lines", tt{
		args:  []string{"-D", "-"},
		lines: true,
		stdin: "\n  \n",
		want:  []any{},
	})
	tests.Add("invalid line", tt{
		args:   []string{"-D", "-"},
		lines:  true,
		stdin:  "1\n{\n",
		status: cmderrors.ErrData,
		err:    "line 2: unexpected end of JSON input",
	})
	tests.Add("yaml sequence", tt{
		args:  []string{"--yaml", "-D", "-"},
		stdin: "- a: 1\n- a: 2\n",
		want:  []any{map[string]any{"a": float64(1)}, map[string]any{"a": float64(2)}},
	})

	tests.Run(t, func(t *testing.T, tt tt) {
		i := newInput(t, nil, tt.args)

		var got []any
		var err error
		_, _ = testy.RedirIO(strings.NewReader(tt.stdin), func() {
			got, err = i.Documents(context.Background(), tt.lines)
		})

		if status := cmderrors.InspectErrorCode(err); status != tt.status {
			t.Errorf("Unexpected error status. Want %d, got %d", tt.status, status)
		}
		if !testy.ErrorMatches(tt.err, err) {
			t.Fatalf("Unexpected error: %s", err)
		}
		if err != nil {
			return
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Error(d)
		}
	})
}

func TestInvalidLineUnwraps(t *testing.T) {
	i := newInput(t, nil, []string{"-d", "{\n"})
	_, err := i.Documents(context.Background(), true)
	var status interface{ ExitStatus() int }
	if !errors.As(err, &status) {
		t.Fatalf("Expected an exit status, got %v", err)
	}
}
