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
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Source is a single provider of configuration values.
type Source interface {
	// Name identifies the source in diagnostics.
	Name() string
	// Lookup returns the raw value for a key, and whether it is defined.
	Lookup(key string) (string, bool)
}

// MapSource serves values from an in-memory map.  Blank values are treated
// as undefined.
type MapSource struct {
	name   string
	values map[string]string
}

// NewMapSource copies values into a new source.
func NewMapSource(name string, values map[string]string) *MapSource {
	return &MapSource{
		name:   name,
		values: maps.Clone(values),
	}
}

func (s *MapSource) Name() string {
	return s.name
}

func (s *MapSource) Lookup(key string) (string, bool) {
	value, ok := s.values[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}

	return value, true
}

// EnvKey converts a configuration key into its environment variable name.
func EnvKey(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// EnvSource serves values from the process environment.
type EnvSource struct {
	lookup func(string) (string, bool)
}

// NewEnvSource returns a source backed by os.LookupEnv.
func NewEnvSource() *EnvSource {
	return &EnvSource{
		lookup: os.LookupEnv,
	}
}

// NewEnvSourceFromMap returns a source backed by a fixed set of variables.
func NewEnvSourceFromMap(env map[string]string) *EnvSource {
	env = maps.Clone(env)

	return &EnvSource{
		lookup: func(name string) (string, bool) {
			value, ok := env[name]
			return value, ok
		},
	}
}

func (s *EnvSource) Name() string {
	return "environment"
}

func (s *EnvSource) Lookup(key string) (string, bool) {
	value, ok := s.lookup(EnvKey(key))
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}

	return value, true
}

// FileSource serves values from a YAML document.  Nested mappings are
// flattened into dotted keys, so "test: {user: {min: {age: 18}}}" and
// "test.user.min.age: 18" are equivalent.
type FileSource struct {
	path   string
	values map[string]string
}

// NewFileSource reads path.  A missing or unreadable file yields an empty
// source, configuration resolution never fails.
func NewFileSource(path string) *FileSource {
	source := &FileSource{
		path:   path,
		values: map[string]string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Log.WithName("config").Info("ignoring unreadable configuration file", "path", path, "error", err.Error())
		}

		return source
	}

	var document map[string]any

	if err := yaml.Unmarshal(data, &document); err != nil {
		log.Log.WithName("config").Info("ignoring malformed configuration file", "path", path, "error", err.Error())

		return source
	}

	flatten("", document, source.values)

	return source
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Lookup(key string) (string, bool) {
	value, ok := s.values[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}

	return value, true
}

func flatten(prefix string, node any, out map[string]string) {
	join := func(key any) string {
		if prefix == "" {
			return fmt.Sprint(key)
		}

		return prefix + "." + fmt.Sprint(key)
	}

	switch t := node.(type) {
	case map[string]any:
		for key, value := range t {
			flatten(join(key), value, out)
		}
	case map[any]any:
		for key, value := range t {
			flatten(join(key), value, out)
		}
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			items = append(items, cast.ToString(item))
		}

		out[prefix] = strings.Join(items, ",")
	case nil:
	default:
		out[prefix] = cast.ToString(t)
	}
}
