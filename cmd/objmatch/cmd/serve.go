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
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ianatha/objmatch/cmd/objmatch/config"
	"github.com/ianatha/objmatch/cmd/objmatch/errors"
	"github.com/ianatha/objmatch/server"
)

const shutdownTimeout = 5 * time.Second

type serve struct {
	*root
}

func serveCmd(r *root) *cobra.Command {
	c := &serve{
		root: r,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve selector evaluation over HTTP",
		Long:  "Start an HTTP server exposing the /_match, /_filter and /_explain endpoints",
		Args:  cobra.NoArgs,
		RunE:  c.RunE,
	}

	cmd.Flags().String(config.KeyAddr, config.DefaultAddr, "HTTP bind address")

	return cmd
}

func (c *serve) RunE(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	l, err := net.Listen("tcp", c.conf.Addr)
	if err != nil {
		return errors.Code(errors.ErrUnavailable, err)
	}
	return c.serve(ctx, l)
}

func (c *serve) serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler: server.New(
			server.WithLogger(c.log),
			server.WithMatchOptions(c.conf.MatchOptions()...),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}
	c.log.Infof("Listening on %s", l.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		return errors.Code(errors.ErrUnavailable, err)
	case <-ctx.Done():
	}
	c.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Code(errors.ErrIO, err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return errors.Code(errors.ErrUnavailable, err)
	}
	return nil
}
