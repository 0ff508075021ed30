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

package api

import (
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/config"
	"github.com/unikorn-cloud/player-harness/pkg/generator"
	"github.com/unikorn-cloud/player-harness/pkg/logging"
	"github.com/unikorn-cloud/player-harness/pkg/openapi"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/pkg/report"
	"github.com/unikorn-cloud/player-harness/test/stub"
)

// Environment is everything a spec needs to drive the player API.
type Environment struct {
	Settings  *config.Settings
	Client    *players.Client
	Generator *generator.Generator
	Schema    *openapi.Schema
	Sink      report.Sink

	server *httptest.Server
}

// NewEnvironment builds an environment from the process settings.
func NewEnvironment() (*Environment, error) {
	return NewEnvironmentWithSettings(config.Current())
}

// NewEnvironmentWithSettings builds an environment from explicit settings.
func NewEnvironmentWithSettings(settings *config.Settings) (*Environment, error) {
	logging.Setup(ginkgo.GinkgoWriter, false)

	env := &Environment{}

	if settings.UseStub {
		env.server = stub.New(settings).Start()
		settings = settings.WithBaseURL(env.server.URL)

		ginkgo.GinkgoWriter.Printf("Using in-memory player API at %s\n", env.server.URL)
	}

	sinks := report.Multi{report.NewGinkgo()}

	directory, err := report.NewDirectory(settings.ResultsDirectory)
	if err != nil {
		ginkgo.GinkgoWriter.Printf("Warning: attachments will not be written to %s: %v\n", settings.ResultsDirectory, err)
	} else {
		sinks = append(sinks, directory)

		if _, err := report.WriteEnvironment(settings.ResultsDirectory, settings, time.Now()); err != nil {
			ginkgo.GinkgoWriter.Printf("Warning: %v\n", err)
		}
	}

	schema, err := openapi.New(settings.BaseURL)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("loading api schema: %w", err)
	}

	lazy := client.NewLazy(func() (*client.RequestContext, error) {
		return client.NewRequestContext(settings, client.WithSink(sinks))
	})

	env.Settings = settings
	env.Client = players.New(lazy, settings)
	env.Generator = generator.New(settings)
	env.Schema = schema
	env.Sink = sinks

	return env, nil
}

// Close stops the in-memory API if one was started.
func (e *Environment) Close() {
	if e.server != nil {
		e.server.Close()
	}
}

// Supervisor is the default supervisor login.
func (e *Environment) Supervisor() string {
	return e.Client.DefaultSupervisor()
}

// Admin is the default admin login.
func (e *Environment) Admin() string {
	return e.Client.DefaultAdmin()
}
