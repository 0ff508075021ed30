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
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cast"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Resolver walks an ordered list of sources, the first source defining a key
// wins.  Typed accessors never fail, they fall back to the supplied default.
type Resolver struct {
	sources []Source
	logger  logr.Logger
}

// NewResolver creates a resolver, sources are given highest precedence first.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
		logger:  log.Log.WithName("config"),
	}
}

// Sources returns the sources in precedence order.
func (r *Resolver) Sources() []Source {
	return r.sources
}

// Get returns the raw value of a key from the highest precedence source that
// defines it.
func (r *Resolver) Get(key string) (string, bool) {
	value, _, ok := r.lookup(key)

	return value, ok
}

// Origin returns the name of the source that supplies key, or an empty
// string when no source does.
func (r *Resolver) Origin(key string) string {
	_, origin, _ := r.lookup(key)

	return origin
}

func (r *Resolver) lookup(key string) (string, string, bool) {
	for _, source := range r.sources {
		if value, ok := source.Lookup(key); ok {
			return strings.TrimSpace(value), source.Name(), true
		}
	}

	return "", "", false
}

func (r *Resolver) GetString(key, defaultValue string) string {
	value, ok := r.Get(key)
	if !ok {
		return defaultValue
	}

	return value
}

func (r *Resolver) GetInt(key string, defaultValue int) int {
	value, ok := r.Get(key)
	if !ok {
		return defaultValue
	}

	i, err := cast.ToIntE(value)
	if err != nil {
		r.logger.Info("invalid integer, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}

	return i
}

func (r *Resolver) GetBool(key string, defaultValue bool) bool {
	value, ok := r.Get(key)
	if !ok {
		return defaultValue
	}

	b, err := cast.ToBoolE(value)
	if err != nil {
		r.logger.Info("invalid boolean, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}

	return b
}

// GetDuration accepts either a bare integer, interpreted as milliseconds, or
// a Go duration string such as "5s".
func (r *Resolver) GetDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := r.Get(key)
	if !ok {
		return defaultValue
	}

	if ms, err := cast.ToInt64E(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		r.logger.Info("invalid duration, using default", "key", key, "value", value, "default", defaultValue.String())
		return defaultValue
	}

	return d
}
