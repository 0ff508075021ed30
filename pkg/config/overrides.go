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
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Overrides are explicit runtime values, they take precedence over every
// other source.
type Overrides map[string]string

// AddFlags registers the override flags on a flag set.  Values are
// collected into o.
func (o Overrides) AddFlags(f *pflag.FlagSet) *OverrideFlags {
	flags := &OverrideFlags{
		target: o,
	}

	f.StringToStringVarP(&flags.set, "set", "D", nil, "Override a configuration key, may be repeated e.g. -D test.user.min.age=18")
	f.StringVar(&flags.env, "env", "", "Environment specific configuration to load (prod, qa, stage, dev)")

	return flags
}

// OverrideFlags holds flag values until Apply copies them into the target.
type OverrideFlags struct {
	target Overrides
	set    map[string]string
	env    string
}

// Apply copies parsed flag values into the overrides.
func (f *OverrideFlags) Apply() {
	for key, value := range f.set {
		f.target[key] = value
	}

	if f.env != "" {
		f.target[KeyEnvironment] = f.env
	}
}

// ParseOverrides extracts override flags from an argument list.  Arguments
// that are not override flags are skipped so the whole command line of a
// test binary can be scanned.
func ParseOverrides(args []string) (Overrides, error) {
	overrides := Overrides{}

	set := pflag.NewFlagSet("overrides", pflag.ContinueOnError)
	set.SetOutput(io.Discard)

	flags := overrides.AddFlags(set)

	if err := set.Parse(selectOverrideArgs(args)); err != nil {
		return overrides, fmt.Errorf("parsing overrides: %w", err)
	}

	flags.Apply()

	return overrides, nil
}

func selectOverrideArgs(args []string) []string {
	var selected []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-D" || arg == "--set" || arg == "--env":
			selected = append(selected, arg)

			if i+1 < len(args) {
				selected = append(selected, args[i+1])
				i++
			}
		case strings.HasPrefix(arg, "--set=") || strings.HasPrefix(arg, "--env="):
			selected = append(selected, arg)
		case strings.HasPrefix(arg, "-D") && strings.Contains(arg, "="):
			selected = append(selected, arg)
		}
	}

	return selected
}
