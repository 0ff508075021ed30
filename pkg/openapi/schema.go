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

// Package openapi holds the player API description and validates responses
// against it.
package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/unikorn-cloud/player-harness/pkg/client"
)

// ErrNoRequest is raised when a response carries no request to route.
var ErrNoRequest = errors.New("response has no request")

//go:embed server.spec.yaml
var spec []byte

// Schema validates responses against the API description.
type Schema struct {
	spec   *openapi3.T
	router routers.Router
	prefix string
}

// Document loads and validates the embedded API description.
func Document() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("loading api description: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating api description: %w", err)
	}

	return doc, nil
}

// New creates a validator for a service hosted at baseURL, any path in the
// base URL prefixes every route.
func New(baseURL string) (*Schema, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	doc, err := Document()
	if err != nil {
		return nil, err
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	return &Schema{
		spec:   doc,
		router: router,
		prefix: strings.TrimSuffix(base.Path, "/"),
	}, nil
}

// Spec is the loaded API description.
func (s *Schema) Spec() *openapi3.T {
	return s.spec
}

// Validate checks that the status is documented for the route and the body
// matches its schema.
func (s *Schema) Validate(ctx context.Context, raw *client.RawResponse) error {
	if raw.Request == nil {
		return ErrNoRequest
	}

	request := raw.Request.Clone(ctx)
	request.URL.Path = strings.TrimPrefix(request.URL.Path, s.prefix)
	request.URL.RawPath = ""

	route, params, err := s.router.FindRoute(request)
	if err != nil {
		return fmt.Errorf("finding route for %s: %w", raw.Describe(), err)
	}

	options := &openapi3filter.Options{
		IncludeResponseStatus: true,
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    request,
			PathParams: params,
			Route:      route,
			Options:    options,
		},
		Status:  raw.StatusCode,
		Header:  raw.Header,
		Options: options,
	}

	input.SetBodyBytes(raw.Body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("validating response for %s: %w", raw.Describe(), err)
	}

	return nil
}
