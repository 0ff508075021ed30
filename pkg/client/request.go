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
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/onsi/ginkgo/v2"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// URL resolves a path and query against the base URL.  The path must
// already be escaped, it is sent as is.
func (rc *RequestContext) URL(path string, query url.Values) string {
	u := rc.BaseURL()

	escaped := strings.TrimSuffix(u.EscapedPath(), "/") + path

	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		unescaped = escaped
		escaped = ""
	}

	u.Path = unescaped
	u.RawPath = escaped

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// Do performs a single request.  A non-nil body is encoded as JSON.  Only
// transport failures are returned as errors, any status is a valid response.
func (rc *RequestContext) Do(ctx context.Context, method, path string, query url.Values, body any) (*RawResponse, error) {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	if rc.limiter != nil {
		if err := rc.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rc.URL(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range rc.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	traceParent := NewTraceParent()
	req.Header.Set(TraceParentHeader, traceParent)
	req.Header.Set(TraceStateHeader, traceState)

	if rc.logRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] query=%s traceparent=%s\n", method, path, query.Encode(), traceParent)

		if body != nil {
			data, _ := json.Marshal(body)
			ginkgo.GinkgoWriter.Printf("[%s %s] request body: %s\n", method, path, string(data))
		}
	}

	start := time.Now()
	resp, err := rc.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		rc.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		rc.logError(method, path, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if rc.logRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if rc.logResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	return &RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     duration,
		Header:      resp.Header,
		Body:        respBody,
		Request:     req,
		TraceParent: traceParent,
	}, nil
}

// logError logs a transport error with trace context.
func (rc *RequestContext) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", TraceID(traceParent))
}
