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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/players"
)

// ExpectPlayerMatches verifies every attribute set in the expected payload,
// the password is never echoed reliably so it is ignored.
func ExpectPlayerMatches(actual players.PlayerResponse, expected players.Player) {
	if expected.Login != nil {
		ExpectWithOffset(1, actual.Login).To(Equal(*expected.Login), "login")
	}

	if expected.Age != nil {
		ExpectWithOffset(1, actual.Age).To(Equal(*expected.Age), "age")
	}

	if expected.Gender != nil {
		ExpectWithOffset(1, actual.Gender).To(Equal(*expected.Gender), "gender")
	}

	if expected.Role != nil {
		ExpectWithOffset(1, actual.Role).To(Equal(*expected.Role), "role")
	}

	if expected.ScreenName != nil {
		ExpectWithOffset(1, actual.ScreenName).To(Equal(*expected.ScreenName), "screenName")
	}
}

// ExpectErrorContainsAny decodes the error body and checks the title
// mentions one of the candidates.  Titles belong to the remote service so
// several phrasings are accepted.
func ExpectErrorContainsAny[T any](response *client.Response[T], substrings ...string) players.ErrorBody {
	body := client.AsError[players.ErrorBody](response)

	ExpectWithOffset(1, body.ContainsAny(substrings...)).To(BeTrue(), "expected error title %q to contain any of %q", body.Title, substrings)

	return body
}
