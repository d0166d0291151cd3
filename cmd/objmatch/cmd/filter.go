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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ianatha/objmatch"
	"github.com/ianatha/objmatch/cmd/objmatch/config"
	"github.com/ianatha/objmatch/cmd/objmatch/input"
	"github.com/ianatha/objmatch/cmd/objmatch/output"
)

type filter struct {
	*root
	input *input.Input
	lines bool
}

func filterCmd(r *root) *cobra.Command {
	c := &filter{
		root:  r,
		input: input.New(r),
	}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Select the documents matching a selector",
		Long:  "Test each of a list of documents against a selector, and print those which match, in input order",
		Args:  cobra.NoArgs,
		RunE:  c.RunE,
	}

	c.input.ConfigFlags(cmd.Flags())
	cmd.Flags().BoolVar(&c.lines, "lines", false, "Read one JSON document per line, rather than a single array")
	cmd.Flags().Int(config.KeyParallel, config.DefaultParallel, "Number of documents to evaluate concurrently")

	return cmd
}

func (c *filter) RunE(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sel, err := c.selector(ctx, c.input)
	if err != nil {
		return err
	}
	docs, err := c.input.Documents(ctx, c.lines)
	if err != nil {
		return err
	}
	c.log.Debugf("[filter] evaluating %d documents, %d at a time", len(docs), c.conf.Parallel)
	matched, err := filterDocs(ctx, sel, docs, c.conf.Parallel)
	if err != nil {
		return err
	}
	c.log.Debugf("[filter] %d of %d documents matched", len(matched), len(docs))
	return c.fmt.Output(output.JSONReader(matched))
}

// filterDocs evaluates sel against each of docs, using up to parallel
// goroutines, and returns the matching documents in their original order.
// The first error stops evaluation.
func filterDocs(ctx context.Context, sel objmatch.Matcher, docs []any, parallel int) ([]any, error) {
	results := make([]bool, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := sel.Match(doc)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	matched := make([]any, 0, len(docs))
	for i, ok := range results {
		if ok {
			matched = append(matched, docs[i])
		}
	}
	return matched, nil
}
