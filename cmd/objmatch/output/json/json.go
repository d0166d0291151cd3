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

// Package json produces indented JSON output.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ianatha/objmatch/cmd/objmatch/output"
)

type format struct {
	indent string
}

var (
	_ output.Format    = &format{}
	_ output.FormatArg = &format{}
)

// New returns the JSON formatter. The optional argument sets the indentation
// string, which defaults to four spaces.
func New() output.Format {
	return &format{indent: "    "}
}

func (format) Required() bool { return false }

func (f *format) Arg(arg string) error {
	if strings.Trim(arg, " \t") != "" {
		return fmt.Errorf("invalid indent %q, only spaces and tabs are permitted", arg)
	}
	f.indent = arg
	return nil
}

func (f *format) Output(w io.Writer, r io.Reader) error {
	in, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, in, "", f.indent); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
