/*
 * MIT License
 *
 * Copyright (c) 2026 The Mues Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package config loads and validates the daemon's configuration (§3.1,
// §4.12), binding a viper instance over a YAML file plus MUES_-prefixed
// environment variables.
package config

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/nabbar/mues/duration"
	"github.com/nabbar/mues/muerr"
)

// durationHook lets mapstructure decode a plain string ("30s") into a
// duration.Duration field via its UnmarshalText, since duration.Duration is
// a distinct named type that viper's built-in StringToTimeDurationHookFunc
// does not recognize.
func durationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(duration.Duration(0)) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return duration.Parse(s)
	}
}

// Config is the fully resolved, validated daemon configuration.
type Config struct {
	ListenAddr     string            `mapstructure:"listenAddr"`
	TelnetEnabled  bool              `mapstructure:"telnetEnabled"`
	LoginTimeout   duration.Duration `mapstructure:"loginTimeout"`
	LoginMaxTries  int               `mapstructure:"loginMaxTries"`
	CommandPath    []string          `mapstructure:"commandPath"`
	ReloadInterval duration.Duration `mapstructure:"reloadInterval"`
	HistorySize    int               `mapstructure:"historySize"`
	MacroDepth     int               `mapstructure:"macroDepth"`
	MacroPrefix    string            `mapstructure:"macroPrefix"`
	CommandPrefix  string            `mapstructure:"commandPrefix"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("listenAddr", ":4000")
	v.SetDefault("telnetEnabled", true)
	v.SetDefault("loginTimeout", "10m")
	v.SetDefault("loginMaxTries", 3)
	v.SetDefault("commandPath", []string{"/etc/mues/commands"})
	v.SetDefault("reloadInterval", "10m")
	v.SetDefault("historySize", 10)
	v.SetDefault("macroDepth", 5)
	v.SetDefault("macroPrefix", "$")
	v.SetDefault("commandPrefix", "/")
}

// Load reads configuration from the given file path (if non-empty),
// overlays MUES_-prefixed environment variables, and validates the result.
// An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("MUES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, muerr.Wrap(muerr.KindInternal, err, "reading config file %q", path)
		}
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		durationHook(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.StringToTimeDurationHookFunc(),
	)

	var c Config
	if err := v.Unmarshal(&c, viper.DecodeHook(hook)); err != nil {
		return nil, muerr.Wrap(muerr.KindInternal, err, "decoding configuration")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces the invariants resolved for this project's two Open
// Questions (SPEC_FULL §9): the reload interval must not be negative, and
// login retry/history counters must be sane.
func (c *Config) Validate() error {
	if c.ReloadInterval.Negative() {
		return muerr.New(muerr.KindInputValidation, "reloadInterval must not be negative, got %s", c.ReloadInterval)
	}
	if c.LoginMaxTries < 1 {
		return muerr.New(muerr.KindInputValidation, "loginMaxTries must be >= 1, got %d", c.LoginMaxTries)
	}
	if c.HistorySize < 0 {
		return muerr.New(muerr.KindInputValidation, "historySize must not be negative, got %d", c.HistorySize)
	}
	if c.MacroDepth < 1 {
		return muerr.New(muerr.KindInputValidation, "macroDepth must be >= 1, got %d", c.MacroDepth)
	}
	if c.ListenAddr == "" {
		return muerr.New(muerr.KindInputValidation, "listenAddr must not be empty")
	}
	return nil
}
