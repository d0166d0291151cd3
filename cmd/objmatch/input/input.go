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

// Package input reads selectors and documents for the objmatch command.
package input

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ianatha/objmatch/cmd/objmatch/errors"
	"github.com/ianatha/objmatch/value"
)

// Fetcher retrieves the contents of a remote http:// or https:// source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Input holds the query and document sources given on the command line.
type Input struct {
	query     string
	queryFile string
	data      string
	dataFile  string
	yaml      bool

	fetcher Fetcher
}

// New returns a new Input. fetcher is used for remote sources, and may be
// nil, in which case remote sources are rejected.
func New(fetcher Fetcher) *Input {
	return &Input{fetcher: fetcher}
}

// ConfigFlags sets up the query and document flags.
func (i *Input) ConfigFlags(pf *pflag.FlagSet) {
	i.ConfigQueryFlags(pf)
	pf.StringVarP(&i.data, "data", "d", "", "JSON document data.")
	pf.StringVarP(&i.dataFile, "data-file", "D", "", "Read document data from the named file or http(s) URL. Use - for stdin. Assumed to be JSON, unless the file extension is .yaml or .yml, or the --yaml flag is used.")
}

// ConfigQueryFlags sets up only the query flags.
func (i *Input) ConfigQueryFlags(pf *pflag.FlagSet) {
	pf.StringVarP(&i.query, "query", "q", "", "JSON selector.")
	pf.StringVarP(&i.queryFile, "query-file", "Q", "", "Read the selector from the named file or http(s) URL. Use - for stdin.")
	pf.BoolVar(&i.yaml, "yaml", false, "Treat input data as YAML")
}

// HasQuery returns true if a selector source has been provided.
func (i *Input) HasQuery() bool {
	return i.query != "" || i.queryFile != ""
}

// HasData returns true if a document source has been provided.
func (i *Input) HasData() bool {
	return i.data != "" || i.dataFile != ""
}

// Query reads and parses the selector into a value tree.
func (i *Input) Query(ctx context.Context) (any, error) {
	if !i.HasQuery() {
		return nil, errors.Code(errors.ErrUsage, "no query provided")
	}
	if i.queryFile == "-" && i.dataFile == "-" {
		return nil, errors.Code(errors.ErrUsage, "query and document data cannot both be read from stdin")
	}
	buf, yaml, err := i.read(ctx, i.query, i.queryFile)
	if err != nil {
		return nil, err
	}
	return parse(buf, yaml)
}

// Document reads and parses a single candidate document.
func (i *Input) Document(ctx context.Context) (any, error) {
	buf, yaml, err := i.documents(ctx)
	if err != nil {
		return nil, err
	}
	return parse(buf, yaml)
}

// Documents reads a list of candidate documents. When lines is true, each
// non-blank line of input is a separate document. Otherwise the input must
// be a single array of documents.
func (i *Input) Documents(ctx context.Context, lines bool) ([]any, error) {
	buf, yaml, err := i.documents(ctx)
	if err != nil {
		return nil, err
	}
	if lines {
		return parseLines(buf, yaml)
	}
	doc, err := parse(buf, yaml)
	if err != nil {
		return nil, err
	}
	docs, ok := doc.([]any)
	if !ok {
		kind, _ := value.KindOf(doc)
		return nil, errors.Codef(errors.ErrData, "expected array of documents, got %s", kind)
	}
	return docs, nil
}

func (i *Input) documents(ctx context.Context) ([]byte, bool, error) {
	if !i.HasData() {
		return nil, false, errors.Code(errors.ErrUsage, "no document data provided")
	}
	return i.read(ctx, i.data, i.dataFile)
}

// read returns the contents of the inline value or the named file, and
// whether it should be parsed as YAML.
func (i *Input) read(ctx context.Context, inline, file string) ([]byte, bool, error) {
	if inline != "" {
		return []byte(inline), i.yaml, nil
	}
	yaml := i.yaml || isYAML(file)
	switch {
	case file == "-":
		buf, err := io.ReadAll(os.Stdin)
		return buf, yaml, errors.Code(errors.ErrIO, err)
	case isRemote(file):
		if i.fetcher == nil {
			return nil, false, errors.Codef(errors.ErrUsage, "remote input not supported: %s", file)
		}
		buf, err := i.fetcher.Fetch(ctx, file)
		return buf, yaml, err
	}
	buf, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, false, errors.Code(errors.ErrNoInput, err)
		}
		return nil, false, errors.Code(errors.ErrIO, err)
	}
	return buf, yaml, nil
}

func isRemote(file string) bool {
	return strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://")
}

func isYAML(file string) bool {
	if isRemote(file) {
		if i := strings.IndexAny(file, "?#"); i >= 0 {
			file = file[:i]
		}
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parse(buf []byte, yaml bool) (any, error) {
	var v any
	var err error
	if yaml {
		v, err = value.ParseYAML(buf)
	} else {
		v, err = value.Parse(buf)
	}
	if err != nil {
		return nil, errors.Code(errors.ErrData, err)
	}
	return v, nil
}

func parseLines(buf []byte, yaml bool) ([]any, error) {
	docs := []any{}
	r := bufio.NewReader(bytes.NewReader(buf))
	for lineNo := 1; ; lineNo++ {
		line, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			doc, perr := parse(line, yaml)
			if perr != nil {
				return nil, errors.Codef(errors.ErrData, "line %d: %w", lineNo, perr)
			}
			docs = append(docs, doc)
		}
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, errors.Code(errors.ErrIO, err)
		}
	}
}
