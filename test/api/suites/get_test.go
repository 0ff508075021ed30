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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"math"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

var _ = Describe("Get Player", flaky, func() {
	Context("When the player exists", func() {
		It("should return the player's data", func() {
			payload, created := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			response, err := env.Client.GetByID(ctx, &created.PlayerID)
			Expect(err).NotTo(HaveOccurred())

			player := response.ExpectStatus(http.StatusOK).AsBody()

			Expect(player.PlayerID).To(Equal(created.PlayerID))
			api.ExpectPlayerMatches(player, payload)

			Expect(response.JSONPath("$.login")).To(Equal(*payload.Login))
			Expect(env.Schema.Validate(ctx, response.Raw())).To(Succeed())
		})
	})

	Context("When the player does not exist", func() {
		It("should return not found", func() {
			response, err := env.Client.GetByID(ctx, ptr.To(int64(999_999_999)))
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusNotFound), "does not exist", "not found")
		})
	})

	Context("When the identifier is invalid", func() {
		It("should reject a null identifier", func() {
			response, err := env.Client.GetByID(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusBadRequest)
		})

		It("should reject a very large identifier", func() {
			response, err := env.Client.GetByID(ctx, ptr.To(int64(math.MaxInt32)))
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusBadRequest)
		})
	})
})
