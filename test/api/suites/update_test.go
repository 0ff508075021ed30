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
	"k8s.io/utils/ptr"

	"github.com/unikorn-cloud/player-harness/pkg/generator"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

var _ = Describe("Update Player", flaky, func() {
	var (
		user    players.Player
		created players.PlayerResponse
	)

	BeforeEach(func() {
		user, created = api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)
	})

	// updateAndVerify applies an update and checks it is visible on a
	// subsequent read.
	updateAndVerify := func(editor string, update players.Player) {
		response, err := env.Client.Update(ctx, editor, created.PlayerID, update)
		Expect(err).NotTo(HaveOccurred())
		response.ExpectStatus(http.StatusOK)

		fetched, err := env.Client.GetByID(ctx, &created.PlayerID)
		Expect(err).NotTo(HaveOccurred())

		api.ExpectPlayerMatches(fetched.ExpectStatus(http.StatusOK).AsBody(), update)
	}

	Context("When a supervisor updates a user", func() {
		DescribeTable("should apply the update",
			func(update func(*generator.Generator) players.Player) {
				updateAndVerify(env.Supervisor(), update(env.Generator))
			},
			Entry("age", func(*generator.Generator) players.Player {
				return players.Player{Age: ptr.To(env.Settings.MaxAge - 1)}
			}),
			Entry("gender", func(*generator.Generator) players.Player {
				return players.Player{Gender: ptr.To(string(players.GenderFemale))}
			}),
			Entry("login", (*generator.Generator).UpdateWithNewLogin),
			Entry("screen name", (*generator.Generator).UpdateWithNewScreenName),
			Entry("password", (*generator.Generator).UpdateWithNewPassword),
			Entry("multiple fields", (*generator.Generator).PartialUpdate),
		)
	})

	Context("When an admin updates a user", func() {
		It("should apply the update", func() {
			updateAndVerify(env.Admin(), env.Generator.UpdateWithNewScreenName())
		})
	})

	Context("When a user updates their own profile", func() {
		It("should apply the update", func() {
			updateAndVerify(*user.Login, env.Generator.UpdateWithNewScreenName())
		})
	})

	Context("When the update is invalid", func() {
		It("should reject an age out of range as forbidden", func() {
			response, err := env.Client.Update(ctx, env.Supervisor(), created.PlayerID, players.Player{Age: ptr.To(env.Settings.MaxAge + 10)})
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusForbidden), "older than", "younger than", "age")
		})

		It("should reject an invalid gender", func() {
			response, err := env.Client.Update(ctx, env.Supervisor(), created.PlayerID, players.Player{Gender: ptr.To(generator.InvalidGender)})
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusBadRequest)
		})

		It("should reject an invalid password", func() {
			response, err := env.Client.Update(ctx, env.Supervisor(), created.PlayerID, players.Player{Password: ptr.To("abc")})
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusBadRequest)
		})
	})

	Context("When the player or editor does not exist", func() {
		It("should return not found for a missing player", func() {
			response, err := env.Client.Update(ctx, env.Supervisor(), 999_999_999, env.Generator.PartialUpdate())
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusNotFound)
		})

		It("should forbid an unknown editor", func() {
			response, err := env.Client.Update(ctx, "non_existing_editor_login", created.PlayerID, env.Generator.PartialUpdate())
			Expect(err).NotTo(HaveOccurred())

			response.ExpectStatus(http.StatusForbidden)
		})
	})

	Context("When a user updates someone else", func() {
		It("should forbid updating another user", func() {
			_, other := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			response, err := env.Client.Update(ctx, *user.Login, other.PlayerID, env.Generator.PartialUpdate())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusForbidden), "forbidden", "not allowed", "only")
		})

		It("should forbid updating an admin", func() {
			_, admin := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			response, err := env.Client.Update(ctx, *user.Login, admin.PlayerID, env.Generator.PartialUpdate())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusForbidden), "forbidden", "not allowed", "only")
		})
	})
})
