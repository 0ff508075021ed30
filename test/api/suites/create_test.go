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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"github.com/unikorn-cloud/player-harness/pkg/generator"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

// passwordOfLength is a valid password of exactly n characters.
func passwordOfLength(n int) string {
	return strings.Repeat("a", n-1) + "1"
}

var _ = Describe("Create Player", flaky, func() {
	Context("When creating a player with valid data", func() {
		It("should allow a supervisor to create a user", func() {
			payload := env.Generator.ValidPlayerWithRole(players.RoleUser)

			player := api.CreatePlayerWithCleanup(ctx, env, env.Supervisor(), payload)

			Expect(player.PlayerID).To(BeNumerically(">", 0))
			api.ExpectPlayerMatches(player, payload)
		})

		It("should allow a supervisor to create an admin", func() {
			payload := env.Generator.ValidPlayerWithRole(players.RoleAdmin)

			api.ExpectPlayerMatches(api.CreatePlayerWithCleanup(ctx, env, env.Supervisor(), payload), payload)
		})

		It("should allow an admin to create another user", func() {
			admin, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)
			payload := env.Generator.ValidPlayerWithRole(players.RoleUser)

			api.ExpectPlayerMatches(api.CreatePlayerWithCleanup(ctx, env, *admin.Login, payload), payload)
		})

		It("should allow an admin to create another admin", func() {
			admin, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)
			payload := env.Generator.ValidPlayerWithRole(players.RoleAdmin)

			api.ExpectPlayerMatches(api.CreatePlayerWithCleanup(ctx, env, *admin.Login, payload), payload)
		})
	})

	Context("When creating a player with boundary values", func() {
		DescribeTable("should accept values on the boundary",
			func(mutate func(*players.Player)) {
				payload := env.Generator.ValidPlayer()
				mutate(&payload)

				api.ExpectPlayerMatches(api.CreatePlayerWithCleanup(ctx, env, env.Supervisor(), payload), payload)
			},
			Entry("minimum age", func(p *players.Player) { p.Age = ptr.To(env.Settings.MinAge) }),
			Entry("maximum age", func(p *players.Player) { p.Age = ptr.To(env.Settings.MaxAge) }),
			Entry("minimum password length", func(p *players.Player) { p.Password = ptr.To(passwordOfLength(env.Settings.MinPasswordLength)) }),
			Entry("maximum password length", func(p *players.Player) { p.Password = ptr.To(passwordOfLength(env.Settings.MaxPasswordLength)) }),
		)
	})

	Context("When creating a player with invalid data", func() {
		DescribeTable("should reject the payload",
			func(variant func(*generator.Generator) players.Player, substrings []string) {
				response, err := env.Client.Create(ctx, env.Supervisor(), variant(env.Generator))
				Expect(err).NotTo(HaveOccurred())

				response.ExpectStatus(http.StatusBadRequest)

				if len(substrings) > 0 {
					api.ExpectErrorContainsAny(response, substrings...)
				}
			},
			Entry("age below the minimum", (*generator.Generator).InvalidAgeYoung, []string{"age"}),
			Entry("age above the maximum", (*generator.Generator).InvalidAgeOld, []string{"age"}),
			Entry("invalid gender", (*generator.Generator).InvalidGender, []string{}),
			Entry("invalid role", (*generator.Generator).InvalidRole, []string{"role"}),
			Entry("password too short", (*generator.Generator).PasswordTooShort, []string{}),
			Entry("password too long", (*generator.Generator).PasswordTooLong, []string{}),
			Entry("password without digits", (*generator.Generator).PasswordNoDigits, []string{}),
			Entry("password without letters", (*generator.Generator).PasswordNoLetters, []string{}),
			Entry("missing age", (*generator.Generator).MissingAge, []string{}),
			Entry("missing gender", (*generator.Generator).MissingGender, []string{}),
			Entry("missing login", (*generator.Generator).MissingLogin, []string{}),
			Entry("missing password", (*generator.Generator).MissingPassword, []string{}),
			Entry("missing role", (*generator.Generator).MissingRole, []string{}),
			Entry("missing screen name", (*generator.Generator).MissingScreenName, []string{}),
			Entry("supervisor role", func(g *generator.Generator) players.Player {
				return g.ValidPlayerWithRole(players.RoleSupervisor)
			}, []string{"role", "admin", "user"}),
		)

		It("should reject a duplicate login", func() {
			_, existing := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			response, err := env.Client.Create(ctx, env.Supervisor(), env.Generator.DuplicateLogin(existing.Login))
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusBadRequest), "login")
		})

		It("should reject a duplicate screen name", func() {
			_, existing := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			response, err := env.Client.Create(ctx, env.Supervisor(), env.Generator.DuplicateScreenName(existing.ScreenName))
			Expect(err).NotTo(HaveOccurred())

			api.ExpectErrorContainsAny(response.ExpectStatus(http.StatusBadRequest), "screen")
		})
	})
})
