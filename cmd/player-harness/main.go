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

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/player-harness/pkg/config"
	"github.com/unikorn-cloud/player-harness/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	overrides := config.Overrides{}

	cmd := &cobra.Command{
		Use:          "player-harness",
		Short:        "Inspect and exercise the player API test harness",
		SilenceUsage: true,
	}

	flags := overrides.AddFlags(cmd.PersistentFlags())

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to stderr")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		flags.Apply()
		logging.Setup(os.Stderr, debug)
	}

	// Flags are already parsed by cobra, only the applied overrides count.
	load := func() *config.Resolver {
		return config.NewStandardResolver(config.WithArgs(nil), config.WithOverrides(overrides))
	}

	cmd.AddCommand(
		configCmd(load),
		environmentCmd(load),
		generateCmd(load),
		playersCmd(load),
	)

	return cmd
}
