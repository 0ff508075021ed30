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

// Package api provides integration test utilities for the player API.
//
// # Environment
//
// NewEnvironment resolves the process settings and wires the shared request
// context, the player client, the data generator and the reporting sinks.
// When test.use.stub is set, which is the default, an in-memory player API is
// started and every request is sent to it, so the suites run without a
// remote service.  Point the suites at a real deployment with:
//
//	go test ./test/api/suites/... -args -D test.use.stub=false -D app.base.url=http://players.example.com
//
// or the equivalent TEST_USE_STUB and APP_BASE_URL environment variables.
//
// # Cleanup
//
// Players created through the fixtures are deleted by DeferCleanup whatever
// the outcome of the spec.  Cleanup is best effort: failures are logged and
// never fail the spec.
package api
