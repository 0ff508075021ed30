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
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/config"
	"github.com/unikorn-cloud/player-harness/pkg/generator"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/pkg/report"
)

var errUnexpectedStatus = errors.New("unexpected status")

type resolverFunc func() *config.Resolver

type configEntry struct {
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Origin string `yaml:"origin"`
}

func configCmd(load resolverFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration and where each value came from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver := load()

			keys := config.Keys()
			slices.Sort(keys)

			entries := make([]configEntry, 0, len(keys))

			for _, key := range keys {
				value, _ := resolver.Get(key)

				entries = append(entries, configEntry{
					Key:    key,
					Value:  value,
					Origin: resolver.Origin(key),
				})
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)

			if err := encoder.Encode(entries); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}

			return encoder.Close()
		},
	}
}

func environmentCmd(load resolverFunc) *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "environment",
		Short: "Write the environment description consumed by report viewers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := config.FromResolver(load())

			if directory == "" {
				directory = settings.ResultsDirectory
			}

			path, err := report.WriteEnvironment(directory, settings, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "o", "", "output directory (defaults to the results directory)")

	return cmd
}

func generateCmd(load resolverFunc) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:       "generate <variant>",
		Short:     "Print generated player payloads as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: generator.New(config.DefaultSettings()).VariantNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := generator.New(config.FromResolver(load()))

			encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")

			for range count {
				player, err := g.Variant(args[0])
				if err != nil {
					return fmt.Errorf("%w, expected one of %v", err, g.VariantNames())
				}

				if err := encoder.Encode(player); err != nil {
					return fmt.Errorf("encoding player: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of payloads to generate")

	return cmd
}

func playersCmd(load resolverFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Query the configured player API",
	}

	cmd.AddCommand(playersListCmd(load), playersGetCmd(load))

	return cmd
}

// newPlayersClient uses the process wide request context, failures are
// recorded rather than panicking outside of a test suite.
func newPlayersClient(load resolverFunc) (*players.Client, *error) {
	failure := new(error)

	g := gomega.NewGomega(func(message string, _ ...int) {
		if *failure == nil {
			*failure = errors.New(message) //nolint:err113
		}
	})

	c := players.New(players.ContextProviderFunc(client.Shared), config.FromResolver(load()),
		players.WithResponseOptions(client.WithGomega(g)))

	return c, failure
}

func checkStatus(status, expected int, body string) error {
	if status != expected {
		return fmt.Errorf("%w %d: %s", errUnexpectedStatus, status, body)
	}

	return nil
}

func playersListCmd(load resolverFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every player",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, failure := newPlayersClient(load)

			response, err := c.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			if err := checkStatus(response.StatusCode(), http.StatusOK, response.SafeBody()); err != nil {
				return err
			}

			list := response.AsBody()
			if *failure != nil {
				return *failure
			}

			out := cmd.OutOrStdout()

			for _, p := range list.Players {
				fmt.Fprintf(out, "%d\t%s\t%s\t%d\t%s\n", p.PlayerID, p.ScreenName, p.Role, p.Age, p.Gender)
			}

			return nil
		},
	}
}

func playersGetCmd(load resolverFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing player id: %w", err)
			}

			c, failure := newPlayersClient(load)

			response, err := c.GetByID(cmd.Context(), &id)
			if err != nil {
				return err
			}

			if err := checkStatus(response.StatusCode(), http.StatusOK, response.SafeBody()); err != nil {
				return err
			}

			player := response.AsBody()
			if *failure != nil {
				return *failure
			}

			encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")

			return encoder.Encode(player)
		},
	}
}
