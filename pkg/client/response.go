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

package client

import (
	"bytes"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-logr/logr"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/unikorn-cloud/player-harness/pkg/report"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// MaxBodyExcerpt bounds the number of characters of a body quoted in
	// diagnostics.
	MaxBodyExcerpt = 2000

	truncatedMarker = "...(truncated)"
	emptyBody       = "<empty>"
	unreadableBody  = "<unreadable>"
)

// RawResponse is everything known about a completed request.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Elapsed     time.Duration
	Header      http.Header
	Body        []byte
	Request     *http.Request
	TraceParent string
}

// Describe identifies the request for diagnostics.
func (r *RawResponse) Describe() string {
	if r == nil || r.Request == nil {
		return "request"
	}

	return r.Request.Method + " " + r.Request.URL.Path
}

// SafeBody renders the body for diagnostics.  It never panics: empty, binary
// and otherwise unreadable bodies become placeholders, and long bodies are
// truncated.
func (r *RawResponse) SafeBody() (body string) {
	defer func() {
		if recover() != nil {
			body = unreadableBody
		}
	}()

	if r == nil || len(r.Body) == 0 {
		return emptyBody
	}

	if !utf8.Valid(r.Body) || bytes.IndexByte(r.Body, 0) >= 0 {
		return fmt.Sprintf("<<<binary %d bytes>>>", len(r.Body))
	}

	runes := []rune(string(r.Body))
	if len(runes) > MaxBodyExcerpt {
		return string(runes[:MaxBodyExcerpt]) + truncatedMarker
	}

	return string(runes)
}

type responseOptions struct {
	g      gomega.Gomega
	sink   report.Sink
	logger logr.Logger
}

// ResponseOption modifies how a response reports.
type ResponseOption func(*responseOptions)

// WithGomega sets where assertion failures are sent, the default is the
// global gomega instance wired to ginkgo.
func WithGomega(g gomega.Gomega) ResponseOption {
	return func(o *responseOptions) {
		o.g = g
	}
}

// WithResponseSink sets where diagnostic attachments are sent.
func WithResponseSink(sink report.Sink) ResponseOption {
	return func(o *responseOptions) {
		o.sink = sink
	}
}

// WithResponseLogger sets the response's logger.
func WithResponseLogger(logger logr.Logger) ResponseOption {
	return func(o *responseOptions) {
		o.logger = logger
	}
}

// ResponseOptions propagates the context's reporting to a response.
func (rc *RequestContext) ResponseOptions() []ResponseOption {
	return []ResponseOption{
		WithResponseSink(rc.sink),
		WithResponseLogger(rc.logger),
	}
}

// Response wraps a raw response with assertions and decoding into T, the
// expected success body.  Every assertion is fail-fast: a failure is raised
// through gomega and aborts the running spec.
type Response[T any] struct {
	raw     *RawResponse
	options responseOptions
}

// NewResponse wraps a raw response, logging and attaching its metadata.
func NewResponse[T any](raw *RawResponse, options ...ResponseOption) *Response[T] {
	r := &Response[T]{
		raw: raw,
		options: responseOptions{
			g:      gomega.Default,
			sink:   report.Discard(),
			logger: log.Log.WithName("response"),
		},
	}

	for _, o := range options {
		o(&r.options)
	}

	r.options.logger.V(1).Info("response received", "request", raw.Describe(), "status", raw.StatusCode, "contentType", raw.ContentType, "elapsed", raw.Elapsed.String())

	r.options.sink.Attach("Status Code", strconv.Itoa(raw.StatusCode))
	contentType := raw.ContentType
	if contentType == "" {
		contentType = "N/A"
	}

	r.options.sink.Attach("Content-Type", contentType)
	r.options.sink.Attach("Response Time", raw.Elapsed.String())

	return r
}

// Raw returns the underlying response.
func (r *Response[T]) Raw() *RawResponse {
	return r.raw
}

// StatusCode is the actual status.
func (r *Response[T]) StatusCode() int {
	return r.raw.StatusCode
}

// SafeBody renders the body for diagnostics.
func (r *Response[T]) SafeBody() string {
	return r.raw.SafeBody()
}

// ExpectStatus fails unless the status is as expected.
func (r *Response[T]) ExpectStatus(expected int) *Response[T] {
	if r.raw.StatusCode == expected {
		return r
	}

	body := r.SafeBody()

	r.options.sink.Attach("Expected Status", strconv.Itoa(expected))
	r.options.sink.Attach("Actual Status", strconv.Itoa(r.raw.StatusCode))
	r.options.sink.Attach("Response Body", body)

	r.options.logger.Error(nil, "unexpected status", "request", r.raw.Describe(), "expected", expected, "actual", r.raw.StatusCode)

	ginkgo.GinkgoWriter.Printf("[%s] UNEXPECTED STATUS expected=%d got=%d body=%s traceparent=%s\n", r.raw.Describe(), expected, r.raw.StatusCode, body, r.raw.TraceParent)

	r.options.g.ExpectWithOffset(1, r.raw.StatusCode).To(gomega.Equal(expected),
		"%s: expected status %d but got %d (trace ID: %s). Body: %s", r.raw.Describe(), expected, r.raw.StatusCode, TraceID(r.raw.TraceParent), body)

	return r
}

// AsBody decodes the body into T.  An empty or undecodable body fails.
func (r *Response[T]) AsBody() T {
	var target T

	r.decode(&target, reflect.TypeFor[T]().String(), 1)

	return target
}

// AsError decodes the body of a failed request into E, with the same
// contract as AsBody.
func AsError[E, T any](r *Response[T]) E {
	var target E

	r.decode(&target, reflect.TypeFor[E]().String(), 1)

	return target
}

// JSONPath evaluates a JSONPath expression over the body.  An empty body,
// malformed JSON or an expression that cannot be evaluated fails.
func (r *Response[T]) JSONPath(expression string) any {
	var tree any

	if !r.requireBody("JSON document", 1) {
		return nil
	}

	if err := json.Unmarshal(r.raw.Body, &tree); err != nil {
		r.options.g.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred(), "Failed to parse response as JSON. Raw: %s", r.SafeBody())
		return nil
	}

	value, err := jsonpath.Get(expression, tree)
	if err != nil {
		r.options.g.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred(), "Failed to evaluate %s. Raw: %s", expression, r.SafeBody())
		return nil
	}

	return value
}

// requireBody fails unless there is a body.  offset counts the frames above
// the caller that failures are reported against.
func (r *Response[T]) requireBody(typeName string, offset int) bool {
	if len(bytes.TrimSpace(r.raw.Body)) > 0 {
		return true
	}

	r.options.sink.Attach("Response Body", emptyBody)

	r.options.g.ExpectWithOffset(offset+1, bytes.TrimSpace(r.raw.Body)).NotTo(gomega.BeEmpty(), "Response body is empty; cannot map to %s", typeName)

	return false
}

func (r *Response[T]) decode(target any, typeName string, offset int) {
	if !r.requireBody(typeName, offset+1) {
		return
	}

	if err := Decode(r.raw.Body, target); err != nil {
		body := r.SafeBody()

		r.options.sink.Attach("Response Body", body)
		r.options.logger.Error(err, "failed to deserialize response", "request", r.raw.Describe(), "type", typeName)

		r.options.g.ExpectWithOffset(offset+1, err).NotTo(gomega.HaveOccurred(), "Failed to deserialize response to %s. Raw: %s", typeName, body)

		return
	}

	if pretty, err := json.MarshalIndent(target, "", "  "); err == nil {
		r.options.sink.Attach("Response Body ("+typeName+")", string(pretty))
	}
}
