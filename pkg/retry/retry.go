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

// Package retry absorbs transient flakiness by re-running a test body
// immediately, a bounded number of times.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/onsi/ginkgo/v2"

	"github.com/unikorn-cloud/player-harness/pkg/config"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Policy is a per test counter, it is not safe for concurrent use.
type Policy struct {
	maxAttempts int
	attempt     int
}

// New returns a policy allowing maxAttempts retries after the first run.
func New(maxAttempts int) *Policy {
	return &Policy{
		maxAttempts: max(maxAttempts, 0),
	}
}

// FromSettings reads the retry count once, at construction.
func FromSettings(settings *config.Settings) *Policy {
	return New(settings.RetryCount)
}

// MaxAttempts is the number of retries allowed.
func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

// Attempts is the number of retries granted so far.
func (p *Policy) Attempts() int {
	return p.attempt
}

// ShouldRetry reports whether the retry with the zero based index attempt
// is allowed.
func (p *Policy) ShouldRetry(attempt int) bool {
	return attempt < p.maxAttempts
}

// Retry consumes one retry, returning false once the budget is spent.
func (p *Policy) Retry() bool {
	if !p.ShouldRetry(p.attempt) {
		return false
	}

	p.attempt++

	return true
}

// Run calls fn until it succeeds, returns a permanent error, or the retry
// budget is spent.  There is no delay between attempts.
func (p *Policy) Run(ctx context.Context, fn func() error) error {
	logger := log.FromContext(ctx).WithName("retry")

	b := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(p.maxAttempts)), ctx) //nolint:gosec // never negative

	notify := func(err error, _ time.Duration) {
		p.Retry()

		logger.Info("retrying after failure", "attempt", p.attempt, "max", p.maxAttempts, "error", err.Error())
	}

	return backoff.RetryNotify(fn, b, notify)
}

// FlakeAttempts converts the policy into a ginkgo decorator, the first run
// plus the retries.
func (p *Policy) FlakeAttempts() ginkgo.FlakeAttempts {
	return ginkgo.FlakeAttempts(uint(p.maxAttempts) + 1) //nolint:gosec // never negative
}
