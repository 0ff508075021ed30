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

var _ = Describe("Roles and Permissions", flaky, func() {
	Context("When an admin acts as editor", func() {
		It("should forbid creating a supervisor", func() {
			admin, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			response, err := env.Client.Create(ctx, *admin.Login, env.Generator.ValidPlayerWithRole(players.RoleSupervisor))
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusForbidden), "only", "cannot")
		})

		It("should allow updating another admin", func() {
			first, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)
			_, second := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			update := env.Generator.UpdateWithNewScreenName()

			response, err := env.Client.Update(ctx, *first.Login, second.PlayerID, update)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectPlayerMatches(response.ExpectStatus(http.StatusOK).AsBody(), update)
		})
	})

	Context("When a user acts as editor", func() {
		It("should forbid creating another user", func() {
			user, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			response, err := env.Client.Create(ctx, *user.Login, env.Generator.ValidPlayerWithRole(players.RoleUser))
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusForbidden), "not allowed", "forbidden", "only those with role")
		})
	})

	Context("When the editor does not exist", func() {
		It("should forbid creating a player", func() {
			response, err := env.Client.Create(ctx, "non_existing_editor_login", env.Generator.ValidPlayer())
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusForbidden)
		})
	})
})
