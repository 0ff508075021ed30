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
	"time"
)

// EndpointTemplates are the player API routes.  Path parameters are written
// as {editor} and {id}.
type EndpointTemplates struct {
	Create string
	Get    string
	GetAll string
	Update string
	Delete string
}

// DefaultRequestTimeout bounds requests when no usable timeout is configured.
const DefaultRequestTimeout = 5 * time.Second

// Settings is a typed, read-only snapshot of the resolved configuration.
type Settings struct {
	Environment       Environment
	BaseURL           string
	SupervisorLogin   string
	AdminLogin        string
	RequestTimeout    time.Duration
	RateLimit         int
	RetryCount        int
	ThreadCount       int
	MinAge            int
	MaxAge            int
	MinPasswordLength int
	MaxPasswordLength int
	ResultsDirectory  string
	LogRequests       bool
	LogResponses      bool
	UseStub           bool
	Endpoints         EndpointTemplates
}

// FromResolver collapses a resolver into settings.  The compiled-in defaults
// back every accessor so the result is always complete.
func FromResolver(r *Resolver) *Settings {
	return &Settings{
		Environment:       ParseEnvironment(r.GetString(KeyEnvironment, defaults[KeyEnvironment])),
		BaseURL:           r.GetString(KeyBaseURL, defaults[KeyBaseURL]),
		SupervisorLogin:   r.GetString(KeySupervisorLogin, defaults[KeySupervisorLogin]),
		AdminLogin:        r.GetString(KeyAdminLogin, defaults[KeyAdminLogin]),
		RequestTimeout:    r.GetDuration(KeyRequestTimeout, DefaultRequestTimeout),
		RateLimit:         r.GetInt(KeyRateLimit, 0),
		RetryCount:        r.GetInt(KeyRetryCount, 1),
		ThreadCount:       r.GetInt(KeyThreadCount, 3),
		MinAge:            r.GetInt(KeyMinAge, 16),
		MaxAge:            r.GetInt(KeyMaxAge, 60),
		MinPasswordLength: r.GetInt(KeyMinPasswordLength, 7),
		MaxPasswordLength: r.GetInt(KeyMaxPasswordLength, 15),
		ResultsDirectory:  r.GetString(KeyResultsDirectory, defaults[KeyResultsDirectory]),
		LogRequests:       r.GetBool(KeyLogRequests, false),
		LogResponses:      r.GetBool(KeyLogResponses, false),
		UseStub:           r.GetBool(KeyUseStub, true),
		Endpoints: EndpointTemplates{
			Create: r.GetString(KeyEndpointPlayerCreate, defaults[KeyEndpointPlayerCreate]),
			Get:    r.GetString(KeyEndpointPlayerGet, defaults[KeyEndpointPlayerGet]),
			GetAll: r.GetString(KeyEndpointPlayerGetAll, defaults[KeyEndpointPlayerGetAll]),
			Update: r.GetString(KeyEndpointPlayerUpdate, defaults[KeyEndpointPlayerUpdate]),
			Delete: r.GetString(KeyEndpointPlayerDelete, defaults[KeyEndpointPlayerDelete]),
		},
	}
}

// WithBaseURL returns a copy of the settings targeting another server.
func (s *Settings) WithBaseURL(baseURL string) *Settings {
	c := *s
	c.BaseURL = baseURL

	return &c
}

// DefaultSettings are the compiled-in defaults with no other source.
func DefaultSettings() *Settings {
	return FromResolver(NewResolver(NewMapSource("defaults", defaults)))
}
