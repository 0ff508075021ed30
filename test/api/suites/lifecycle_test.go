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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

var _ = Describe("Player Lifecycle", flaky, func() {
	Context("When a supervisor manages a player end to end", func() {
		It("should create, read, update and delete the player", func() {
			payload := env.Generator.ValidPlayerWithRole(players.RoleUser)

			created, err := env.Client.Create(ctx, env.Supervisor(), payload)
			Expect(err).NotTo(HaveOccurred())

			player := created.ExpectStatus(http.StatusOK).AsBody()
			Expect(player.PlayerID).To(BeNumerically(">", 0))
			Expect(env.Schema.Validate(ctx, created.Raw())).To(Succeed())

			api.ScheduleDeletion(env, player.PlayerID)

			fetched, err := env.Client.GetByID(ctx, &player.PlayerID)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectPlayerMatches(fetched.ExpectStatus(http.StatusOK).AsBody(), payload)

			update := env.Generator.PartialUpdate()

			updated, err := env.Client.Update(ctx, env.Supervisor(), player.PlayerID, update)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectPlayerMatches(updated.ExpectStatus(http.StatusOK).AsBody(), update)

			deleted, err := env.Client.Delete(ctx, env.Supervisor(), player.PlayerID)
			Expect(err).NotTo(HaveOccurred())
			deleted.ExpectStatus(http.StatusNoContent)
			Expect(env.Schema.Validate(ctx, deleted.Raw())).To(Succeed())

			gone, err := env.Client.GetByID(ctx, &player.PlayerID)
			Expect(err).NotTo(HaveOccurred())
			gone.ExpectStatus(http.StatusNotFound)
		})
	})
})
