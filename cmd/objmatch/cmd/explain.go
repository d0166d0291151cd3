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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ianatha/objmatch/cmd/objmatch/input"
	"github.com/ianatha/objmatch/cmd/objmatch/output"
)

type explain struct {
	*root
	input *input.Input
}

func explainCmd(r *root) *cobra.Command {
	c := &explain{
		root:  r,
		input: input.New(r),
	}
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print a compiled selector",
		Long:  "Compile a selector, and print it in a compact human-readable form, or in canonical JSON or YAML form",
		Args:  cobra.NoArgs,
		RunE:  c.RunE,
	}

	c.input.ConfigQueryFlags(cmd.Flags())

	return cmd
}

func (c *explain) RunE(cmd *cobra.Command, _ []string) error {
	sel, err := c.selector(cmd.Context(), c.input)
	if err != nil {
		return err
	}
	return c.fmt.Output(output.TextReader(sel.String(), output.JSONReader(sel)))
}
