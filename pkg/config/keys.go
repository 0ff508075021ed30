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
	"maps"
	"strings"
)

// Configuration keys.  Environment variables use the same names upper cased
// with dots replaced by underscores e.g. TEST_USER_MIN_AGE.
const (
	KeyEnvironment          = "env"
	KeyBaseURL              = "app.base.url"
	KeySupervisorLogin      = "editor.supervisor"
	KeyAdminLogin           = "editor.admin"
	KeyRequestTimeout       = "api.timeout"
	KeyRateLimit            = "api.rate.limit"
	KeyRetryCount           = "test.retry.count"
	KeyThreadCount          = "test.thread.count"
	KeyMinAge               = "test.user.min.age"
	KeyMaxAge               = "test.user.max.age"
	KeyMinPasswordLength    = "test.password.min.length"
	KeyMaxPasswordLength    = "test.password.max.length"
	KeyResultsDirectory     = "report.results.directory"
	KeyLogRequests          = "log.requests"
	KeyLogResponses         = "log.responses"
	KeyUseStub              = "test.use.stub"
	KeyEndpointPlayerCreate = "endpoint.player.create"
	KeyEndpointPlayerGet    = "endpoint.player.get"
	KeyEndpointPlayerGetAll = "endpoint.player.getAll"
	KeyEndpointPlayerUpdate = "endpoint.player.update"
	KeyEndpointPlayerDelete = "endpoint.player.delete"
)

// Environment selects the environment specific configuration file.
type Environment string

const (
	EnvironmentProd  Environment = "prod"
	EnvironmentQA    Environment = "qa"
	EnvironmentStage Environment = "stage"
	EnvironmentDev   Environment = "dev"
)

// ParseEnvironment maps a name onto a known environment, unknown values
// select production.
func ParseEnvironment(s string) Environment {
	switch e := Environment(strings.ToLower(strings.TrimSpace(s))); e {
	case EnvironmentProd, EnvironmentQA, EnvironmentStage, EnvironmentDev:
		return e
	}

	return EnvironmentProd
}

//nolint:gochecknoglobals
var defaults = map[string]string{
	KeyEnvironment:          string(EnvironmentProd),
	KeyBaseURL:              "http://3.68.165.45",
	KeySupervisorLogin:      "supervisor",
	KeyAdminLogin:           "admin",
	KeyRequestTimeout:       "5000",
	KeyRateLimit:            "0",
	KeyRetryCount:           "1",
	KeyThreadCount:          "3",
	KeyMinAge:               "16",
	KeyMaxAge:               "60",
	KeyMinPasswordLength:    "7",
	KeyMaxPasswordLength:    "15",
	KeyResultsDirectory:     "test-results",
	KeyLogRequests:          "false",
	KeyLogResponses:         "false",
	KeyUseStub:              "true",
	KeyEndpointPlayerCreate: "/player/create/{editor}",
	KeyEndpointPlayerGet:    "/player/get",
	KeyEndpointPlayerGetAll: "/player/get/all",
	KeyEndpointPlayerUpdate: "/player/update/{editor}/{id}",
	KeyEndpointPlayerDelete: "/player/delete/{editor}",
}

// Defaults returns a copy of the compiled-in configuration.
func Defaults() map[string]string {
	return maps.Clone(defaults)
}

// Keys returns every known configuration key.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}

	return keys
}
