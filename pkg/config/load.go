/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

type options struct {
	args       []string
	overrides  Overrides
	configDirs []string
	envFiles   []string
	env        Source
}

// Option customises the standard source chain.
type Option func(*options)

// WithArgs scans args for override flags instead of os.Args.
func WithArgs(args []string) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithOverrides adds explicit overrides, these win over flags.
func WithOverrides(overrides map[string]string) Option {
	return func(o *options) {
		for key, value := range overrides {
			o.overrides[key] = value
		}
	}
}

// WithConfigDir looks for default.yaml and <env>.yaml in dir only.
func WithConfigDir(dir string) Option {
	return func(o *options) {
		o.configDirs = []string{dir}
	}
}

// WithEnvFile loads the first existing .env file from paths.
func WithEnvFile(paths ...string) Option {
	return func(o *options) {
		o.envFiles = paths
	}
}

// WithEnvironment replaces the process environment source.
func WithEnvironment(source Source) Option {
	return func(o *options) {
		o.env = source
	}
}

func defaultOptions() *options {
	return &options{
		args:      os.Args[1:],
		overrides: Overrides{},
		// Relative to the repository root, and to test/api/suites where
		// ginkgo runs from.
		configDirs: []string{"config", "../../../config"},
		envFiles:   []string{".env", "../../../test/.env"},
		env:        NewEnvSource(),
	}
}

// NewStandardResolver builds the source chain, highest precedence first:
// runtime overrides, the process environment, config/<env>.yaml,
// config/default.yaml and finally the compiled-in defaults.
func NewStandardResolver(opts ...Option) *Resolver {
	o := defaultOptions()

	for _, opt := range opts {
		opt(o)
	}

	loadEnvFile(o.envFiles)

	overrides, err := ParseOverrides(o.args)
	if err != nil {
		log.Log.WithName("config").Info("ignoring malformed overrides", "error", err.Error())
	}

	for key, value := range o.overrides {
		overrides[key] = value
	}

	overrideSource := NewMapSource("overrides", overrides)

	environment := NewResolver(overrideSource, o.env).GetString(KeyEnvironment, string(EnvironmentProd))

	configDir := findConfigDir(o.configDirs)

	return NewResolver(
		overrideSource,
		o.env,
		NewFileSource(filepath.Join(configDir, string(ParseEnvironment(environment))+".yaml")),
		NewFileSource(filepath.Join(configDir, "default.yaml")),
		NewMapSource("defaults", defaults),
	)
}

// Load resolves settings using the standard source chain.
func Load(opts ...Option) *Settings {
	return FromResolver(NewStandardResolver(opts...))
}

//nolint:gochecknoglobals
var current = sync.OnceValue(func() *Settings {
	return Load()
})

// Current returns the process wide settings, resolved on first use.
func Current() *Settings {
	return current()
}

func findConfigDir(candidates []string) string {
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	if len(candidates) > 0 {
		return candidates[0]
	}

	return "."
}

func loadEnvFile(paths []string) {
	var envPath string

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables are not overwritten.
	if err := godotenv.Load(envPath); err != nil {
		log.Log.WithName("config").Info("failed to load .env file", "path", envPath, "error", err.Error())
	}
}
