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
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// TraceParentHeader carries the W3C trace context of every request so
	// a failure can be found in the server logs.
	TraceParentHeader = "Traceparent"
	TraceStateHeader  = "Tracestate"

	traceState = "test-automation=ginkgo"
)

func randomHex(n int) string {
	bytes := make([]byte, n)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// NewTraceParent creates a W3C traceparent header value with a fresh trace
// and span ID.
func NewTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", randomHex(16), randomHex(8))
}

// TraceID extracts the trace ID from a traceparent header value.
func TraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}
