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

package server

import "github.com/ianatha/objmatch"

// Option is a server option.
type Option interface {
	apply(*Server)
}

// Logger receives debug logs for each request.
type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

type loggerOption [1]Logger

func (o loggerOption) apply(s *Server) {
	if o[0] != nil {
		s.log = o[0]
	}
}

// WithLogger sets the logger used for request logs. By default, nothing is
// logged.
func WithLogger(l Logger) Option {
	return loggerOption{l}
}

type matchOptions []objmatch.Option

func (o matchOptions) apply(s *Server) {
	s.matchOpts = append(s.matchOpts, o...)
}

// WithMatchOptions sets the options used to compile every selector received.
func WithMatchOptions(opts ...objmatch.Option) Option {
	return matchOptions(opts)
}
