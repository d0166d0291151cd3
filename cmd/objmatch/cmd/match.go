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

	"github.com/ianatha/objmatch/cmd/objmatch/errors"
	"github.com/ianatha/objmatch/cmd/objmatch/input"
)

type match struct {
	*root
	input      *input.Input
	exitStatus bool
}

func matchCmd(r *root) *cobra.Command {
	c := &match{
		root:  r,
		input: input.New(r),
	}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Test a document against a selector",
		Long:  "Test a single document against a selector, and print whether it matches",
		Args:  cobra.NoArgs,
		RunE:  c.RunE,
	}

	c.input.ConfigFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&c.exitStatus, "exit-status", "e", false, "Exit with status 1 if the document does not match")

	return cmd
}

func (c *match) RunE(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sel, err := c.selector(ctx, c.input)
	if err != nil {
		return err
	}
	doc, err := c.input.Document(ctx)
	if err != nil {
		return err
	}
	ok, err := sel.Match(doc)
	if err != nil {
		return err
	}
	c.log.Debugf("[match] result: %t", ok)
	if err := c.fmt.Match(ok); err != nil {
		return err
	}
	if !ok && c.exitStatus {
		return errors.Code(errors.ErrNoMatch, "no match")
	}
	return nil
}
