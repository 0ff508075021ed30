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

// Package client provides the shared HTTP request context and typed response
// handling used to drive the player API.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"

	"github.com/unikorn-cloud/player-harness/pkg/config"
	"github.com/unikorn-cloud/player-harness/pkg/report"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrBaseURL is returned when the base URL cannot address an HTTP service.
	ErrBaseURL = errors.New("invalid base url")
)

// RequestContext is the immutable configuration shared by every request.
type RequestContext struct {
	baseURL      *url.URL
	headers      http.Header
	client       *http.Client
	limiter      *rate.Limiter
	logRequests  bool
	logResponses bool
	sink         report.Sink
	logger       logr.Logger
}

// Option modifies a request context at construction time.
type Option func(*RequestContext)

// WithHTTPClient replaces the HTTP client, the configured timeout is still
// applied when the client has none.  The client is copied, the caller's
// value is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(rc *RequestContext) {
		rc.client = c
	}
}

// WithSink sets where diagnostic attachments are sent.
func WithSink(sink report.Sink) Option {
	return func(rc *RequestContext) {
		rc.sink = sink
	}
}

// WithLogger overrides the named global logger.
func WithLogger(logger logr.Logger) Option {
	return func(rc *RequestContext) {
		rc.logger = logger
	}
}

// WithHeader adds a default header to every request.
func WithHeader(key, value string) Option {
	return func(rc *RequestContext) {
		rc.headers.Set(key, value)
	}
}

// NewRequestContext validates the settings and builds a context.
func NewRequestContext(settings *config.Settings, options ...Option) (*RequestContext, error) {
	base, err := url.Parse(strings.TrimSuffix(settings.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q in %q", ErrBaseURL, base.Scheme, settings.BaseURL)
	}

	if base.Host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrBaseURL, settings.BaseURL)
	}

	rc := &RequestContext{
		baseURL: base,
		headers: http.Header{
			"Content-Type": []string{"application/json"},
			"Accept":       []string{"application/json"},
		},
		logRequests:  settings.LogRequests,
		logResponses: settings.LogResponses,
		sink:         report.Discard(),
		logger:       log.Log.WithName("client"),
	}

	for _, o := range options {
		o(rc)
	}

	httpClient := http.Client{}
	if rc.client != nil {
		httpClient = *rc.client
	}

	rc.client = &httpClient

	if rc.client.Timeout <= 0 {
		rc.client.Timeout = settings.RequestTimeout
	}

	if rc.client.Timeout <= 0 {
		rc.client.Timeout = config.DefaultRequestTimeout
	}

	// Requests per second across every user of the context, zero is
	// unlimited.  Bursts allow one request per worker thread.
	if settings.RateLimit > 0 {
		rc.limiter = rate.NewLimiter(rate.Limit(settings.RateLimit), max(settings.ThreadCount, 1))
	}

	rc.logger.Info("request context initialised", "baseURL", base.String(), "timeout", rc.client.Timeout.String())

	return rc, nil
}

// BaseURL returns a copy of the base URL.
func (rc *RequestContext) BaseURL() *url.URL {
	u := *rc.baseURL

	return &u
}

// Headers returns a copy of the default headers.
func (rc *RequestContext) Headers() http.Header {
	return rc.headers.Clone()
}

// Timeout is the bound on any single request.
func (rc *RequestContext) Timeout() time.Duration {
	return rc.client.Timeout
}

// Sink is where responses send their attachments.
func (rc *RequestContext) Sink() report.Sink {
	return rc.sink
}

// Logger is the context's logger.
func (rc *RequestContext) Logger() logr.Logger {
	return rc.logger
}

// Lazy builds a request context on first use.  Concurrent first callers
// wait for a single construction and all see the same value.  A failed
// construction is returned to the callers that waited on it and retried by
// the next caller.
type Lazy struct {
	build func() (*RequestContext, error)
	value atomic.Pointer[RequestContext]
	lock  sync.Mutex
}

// NewLazy defers a call to build until Get is first called.
func NewLazy(build func() (*RequestContext, error)) *Lazy {
	return &Lazy{
		build: build,
	}
}

// Get returns the context, building it if required.
func (l *Lazy) Get() (*RequestContext, error) {
	if rc := l.value.Load(); rc != nil {
		return rc, nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if rc := l.value.Load(); rc != nil {
		return rc, nil
	}

	rc, err := l.build()
	if err != nil {
		return nil, err
	}

	l.value.Store(rc)

	return rc, nil
}

//nolint:gochecknoglobals
var shared = NewLazy(func() (*RequestContext, error) {
	return NewRequestContext(config.Current())
})

// Shared returns the process wide context built from the current settings.
func Shared() (*RequestContext, error) {
	return shared.Get()
}
