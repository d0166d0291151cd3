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

// Package cmd implements the objmatch command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/ianatha/objmatch"
	"github.com/ianatha/objmatch/cmd/objmatch/config"
	"github.com/ianatha/objmatch/cmd/objmatch/errors"
	"github.com/ianatha/objmatch/cmd/objmatch/input"
	"github.com/ianatha/objmatch/cmd/objmatch/log"
	"github.com/ianatha/objmatch/cmd/objmatch/output"
	"github.com/ianatha/objmatch/cmd/objmatch/output/friendly"
	"github.com/ianatha/objmatch/cmd/objmatch/output/gotmpl"
	"github.com/ianatha/objmatch/cmd/objmatch/output/json"
	"github.com/ianatha/objmatch/cmd/objmatch/output/raw"
	"github.com/ianatha/objmatch/cmd/objmatch/output/yaml"
)

type root struct {
	confFile string
	debug    bool
	log      log.Logger
	conf     *config.Config
	cmd      *cobra.Command
	fmt      *output.Formatter
	client   *http.Client

	retryDelay   string
	retryTimeout string

	retryDelayParsed   time.Duration
	retryTimeoutParsed time.Duration

	// resolveHome is used to resolve ~ in the default config file path
	resolveHome func(string) string
}

var _ input.Fetcher = &root{}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	lg := log.New()
	root := rootCmd(lg)
	os.Exit(root.execute(ctx))
}

func (r *root) execute(ctx context.Context) int {
	err := r.cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	code := extractExitCode(err)
	if code != errors.ErrNoMatch {
		_, _ = fmt.Fprintf(r.cmd.ErrOrStderr(), "Error: %s\n", err)
	}
	return code
}

func extractExitCode(err error) int {
	if code := errors.InspectErrorCode(err); code != 0 {
		return code
	}

	// Any unhandled errors are assumed to be from Cobra, so return a "failed
	// to initialize" error
	return errors.ErrUsage
}

func formatter() *output.Formatter {
	f := output.New()
	f.Register("", friendly.New())
	f.Register("json", json.New())
	f.Register("raw", raw.New())
	f.Register("yaml", yaml.New())
	f.Register("go-template", gotmpl.New())
	return f
}

func resolveHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	return filepath.Join(usr.HomeDir, path[2:])
}

func rootCmd(lg log.Logger) *root {
	r := &root{
		log:         lg,
		fmt:         formatter(),
		conf:        config.New(),
		client:      &http.Client{Timeout: time.Minute},
		resolveHome: resolveHome,
	}
	r.cmd = &cobra.Command{
		Use:               "objmatch",
		Short:             "objmatch evaluates selectors against JSON documents",
		Long:              `This tool compiles MongoDB-style selectors, and tests JSON or YAML documents against them.`,
		PersistentPreRunE: r.init,
		SilenceErrors:     true,
	}

	pf := r.cmd.PersistentFlags()

	r.fmt.ConfigFlags(pf)
	pf.StringVar(&r.confFile, "config", "~/.objmatch/config.yaml", "Path to config file")
	pf.BoolVar(&r.debug, "debug", false, "Enable debug output")
	pf.Bool(config.KeyStrictLiterals, false, "Report null, boolean, string and array literals as unsupported, rather than comparing them structurally.")
	pf.Bool(config.KeyStrictOperators, false, "Reject objects which mix an operator key with other keys.")
	pf.Int(config.KeyRetry, 0, "In case of transient error fetching remote input, retry up to this many times. A negative value retries forever.")
	pf.StringVar(&r.retryDelay, "retry-delay", "", "Delay between retry attempts. Disables the default exponential backoff algorithm.")
	pf.StringVar(&r.retryTimeout, "retry-timeout", "", "When used with --retry, no more retries will be attempted after this timeout.")

	r.cmd.AddCommand(matchCmd(r))
	r.cmd.AddCommand(filterCmd(r))
	r.cmd.AddCommand(explainCmd(r))
	r.cmd.AddCommand(serveCmd(r))
	r.cmd.AddCommand(versionCmd(r))

	return r
}

func parseDuration(val string) (time.Duration, error) {
	if val == "" {
		return 0, nil
	}
	if d, err := strconv.ParseFloat(val, 64); err == nil {
		if d < 0 {
			return 0, errors.Code(errors.ErrUsage, "negative timeout not permitted")
		}
		return time.Duration(d * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.Code(errors.ErrUsage, err)
	}
	if d < 0 {
		return 0, errors.Code(errors.ErrUsage, "negative timeout not permitted")
	}
	return d, nil
}

func (r *root) init(cmd *cobra.Command, _ []string) error {
	r.log.SetOut(cmd.OutOrStdout())
	r.log.SetErr(cmd.ErrOrStderr())
	r.log.SetDebug(r.debug)

	r.log.Debug("Debug mode enabled")

	var err error
	r.retryDelayParsed, err = parseDuration(r.retryDelay)
	if err != nil {
		return err
	}
	r.retryTimeoutParsed, err = parseDuration(r.retryTimeout)
	if err != nil {
		return err
	}

	if err := r.conf.Read(r.resolveHome(r.confFile), cmd.Flags(), r.log); err != nil {
		return err
	}
	r.log.Debugf("Config: %s", r.conf)
	cmd.SilenceUsage = true
	return nil
}

// selector reads the query from in, and compiles it with the configured
// options.
func (r *root) selector(ctx context.Context, in *input.Input) (objmatch.Matcher, error) {
	tree, err := in.Query(ctx)
	if err != nil {
		return nil, err
	}
	m, err := objmatch.New(tree, r.conf.MatchOptions()...)
	if err != nil {
		return nil, err
	}
	r.log.Debugf("Selector: %s", m)
	return m, nil
}

// Fetch retrieves a remote input source, retrying transient failures.
func (r *root) Fetch(ctx context.Context, url string) ([]byte, error) {
	r.log.Debugf("Fetching %s", url)
	var body []byte
	err := r.retry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(errors.Code(errors.ErrUsage, err))
		}
		res, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close() // nolint:errcheck
		if res.StatusCode >= http.StatusBadRequest {
			err := errors.HTTPStatus(res.StatusCode, fmt.Sprintf("%s: %s", url, res.Status))
			if res.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		body, err = io.ReadAll(res.Body)
		return errors.Code(errors.ErrIO, err)
	})
	return body, err
}

// retry calls fn until it succeeds or the retry budget is spent. The context
// passed to fn is cancelled once --retry-timeout expires.
func (r *root) retry(ctx context.Context, fn func(context.Context) error) error {
	if r.retryTimeoutParsed > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.retryTimeoutParsed)
		defer cancel()
	}
	retryCount := r.conf.Retry
	if retryCount == 0 {
		err := fn(ctx)
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}
	var bo backoff.BackOff
	switch {
	case r.retryDelayParsed == 0 && r.retryDelay != "": // Disables retry delay
		bo = &backoff.ZeroBackOff{}
	case r.retryDelayParsed != 0:
		bo = backoff.NewConstantBackOff(r.retryDelayParsed)
	default:
		bo = backoff.NewExponentialBackOff()
	}
	if retryCount >= 0 {
		bo = backoff.WithMaxRetries(bo, uint64(retryCount))
	}
	bo = backoff.WithContext(bo, ctx)
	var count int
	var err error
	return backoff.RetryNotify(func() error {
		count++
		err = fn(ctx)
		return err
	}, bo, func(err error, next time.Duration) {
		msg := fmt.Sprintf("Warning: Transient problem: %s.", err)
		if next > 0 {
			msg += fmt.Sprintf(" Will retry in %s.", fmtDuration(next))
		}
		if remain := retryCount + 1 - count; retryCount > 0 && remain > 0 {
			msg += fmt.Sprintf(" %d retries left.", remain)
		}
		r.log.Info(msg)
	})
}

// nolint:gomnd
func fmtDuration(dur time.Duration) string {
	s := dur.Seconds()
	if s < 60 {
		return fmt.Sprintf("%0.2fs", s)
	}
	m := int(s / 60)
	s -= float64(m) * 60
	if m < 60 {
		return fmt.Sprintf("%dm%ds", m, int(s))
	}
	h := m / 60
	m -= h * 60
	if h < 24 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	d := h / 24
	h -= d * 24
	return fmt.Sprintf("%dd%dh%dm", d, h, m)
}
