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

// Package config loads the objmatch configuration.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ianatha/objmatch"
	"github.com/ianatha/objmatch/cmd/objmatch/errors"
	"github.com/ianatha/objmatch/cmd/objmatch/log"
)

const envPrefix = "OBJMATCH"

// Configuration keys. Each key may be set in the config file, in an
// environment variable (OBJMATCH_ followed by the key in upper case, with
// dashes replaced by underscores), or by the command line flag of the same
// name.
const (
	KeyStrictLiterals  = "strict-literals"
	KeyStrictOperators = "strict-operators"
	KeyParallel        = "parallel"
	KeyAddr            = "addr"
	KeyRetry           = "retry"
)

// Default values.
const (
	DefaultParallel = 4
	DefaultAddr     = ":5985"
)

// Config is the full app configuration.
type Config struct {
	StrictLiterals  bool   `mapstructure:"strict-literals"`
	StrictOperators bool   `mapstructure:"strict-operators"`
	Parallel        int    `mapstructure:"parallel" validate:"min=1,max=1024"`
	Addr            string `mapstructure:"addr" validate:"hostname_port"`
	Retry           int    `mapstructure:"retry" validate:"min=-1"`
}

// New returns a configuration with default values.
func New() *Config {
	return &Config{
		Parallel: DefaultParallel,
		Addr:     DefaultAddr,
	}
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("mapstructure")
	})
	return v
}()

// Read reads the configuration from filename, if it exists, then overlays
// environment variables and any of the flags which were set explicitly.
func (c *Config) Read(filename string, flags *pflag.FlagSet, lg log.Logger) error {
	v := viper.New()
	v.SetDefault(KeyStrictLiterals, c.StrictLiterals)
	v.SetDefault(KeyStrictOperators, c.StrictOperators)
	v.SetDefault(KeyParallel, c.Parallel)
	v.SetDefault(KeyAddr, c.Addr)
	v.SetDefault(KeyRetry, c.Retry)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			v.SetConfigFile(filename)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return errors.WithCode(err, errors.ErrUsage)
			}
			lg.Debugf("read config file %s", filename)
		} else {
			lg.Debugf("config file %s not read: %s", filename, err)
		}
	}

	if flags != nil {
		for _, key := range []string{KeyStrictLiterals, KeyStrictOperators, KeyParallel, KeyAddr, KeyRetry} {
			if flag := flags.Lookup(key); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return errors.WithCode(err, errors.ErrUsage)
				}
			}
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return errors.WithCode(err, errors.ErrUsage)
	}
	return c.Validate()
}

// Validate checks that every value is within range.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WithCode(err, errors.ErrUsage)
	}
	fe := verrs[0]
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return errors.Codef(errors.ErrUsage, "invalid %s: %v (%s)", fe.Field(), fe.Value(), rule)
}

// MatchOptions returns the selector options implied by the configuration.
func (c *Config) MatchOptions() []objmatch.Option {
	var opts []objmatch.Option
	if c.StrictLiterals {
		opts = append(opts, objmatch.StrictLiterals())
	}
	if c.StrictOperators {
		opts = append(opts, objmatch.StrictOperators())
	}
	return opts
}

func (c *Config) String() string {
	return fmt.Sprintf("strict-literals=%t strict-operators=%t parallel=%d addr=%s retry=%d",
		c.StrictLiterals, c.StrictOperators, c.Parallel, c.Addr, c.Retry)
}
