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

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

// deletePlayer deletes id as editor.
func deletePlayer(editor string, id int64) *client.Response[players.NoContent] {
	response, err := env.Client.Delete(ctx, editor, id)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	return response
}

// expectGone verifies a player can no longer be read.
func expectGone(id int64) {
	response, err := env.Client.GetByID(ctx, &id)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	response.ExpectStatus(http.StatusNotFound)
}

var _ = Describe("Delete Player", flaky, func() {
	Context("When the editor is allowed to delete", func() {
		It("should allow a supervisor to delete a user", func() {
			_, user := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			deletePlayer(env.Supervisor(), user.PlayerID).ExpectStatus(http.StatusNoContent)
			expectGone(user.PlayerID)
		})

		It("should allow an admin to delete a user", func() {
			admin, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)
			_, user := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			deletePlayer(*admin.Login, user.PlayerID).ExpectStatus(http.StatusNoContent)
			expectGone(user.PlayerID)
		})

		It("should allow a supervisor to delete an admin", func() {
			_, admin := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			deletePlayer(env.Supervisor(), admin.PlayerID).ExpectStatus(http.StatusNoContent)
			expectGone(admin.PlayerID)
		})

		It("should allow an admin to delete another admin", func() {
			first, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)
			_, second := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			deletePlayer(*first.Login, second.PlayerID).ExpectStatus(http.StatusNoContent)
			expectGone(second.PlayerID)
		})
	})

	Context("When the editor is not allowed to delete", func() {
		It("should forbid an admin deleting themselves", func() {
			admin, created := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			response := deletePlayer(*admin.Login, created.PlayerID).ExpectStatus(http.StatusForbidden)
			api.ExpectErrorContainsAny(response, "cannot delete", "forbidden", "not allowed")
		})

		It("should forbid a user deleting themselves", func() {
			user, created := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			response := deletePlayer(*user.Login, created.PlayerID).ExpectStatus(http.StatusForbidden)
			api.ExpectErrorContainsAny(response, "cannot delete", "forbidden", "not allowed")
		})

		It("should forbid a user deleting an admin", func() {
			user, _ := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)
			_, admin := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

			response := deletePlayer(*user.Login, admin.PlayerID).ExpectStatus(http.StatusForbidden)
			api.ExpectErrorContainsAny(response, "only", "forbidden", "not allowed")
		})

		It("should forbid an unknown editor", func() {
			_, user := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

			deletePlayer("non_existing_editor_login", user.PlayerID).ExpectStatus(http.StatusForbidden)
		})

		It("should forbid deleting the supervisor", func() {
			deletePlayer(env.Supervisor(), 1).ExpectStatus(http.StatusForbidden)
		})
	})

	Context("When the identifier is invalid", func() {
		It("should return not found for a missing player", func() {
			deletePlayer(env.Supervisor(), 999_999_999).ExpectStatus(http.StatusNotFound)
		})

		It("should reject boundary identifiers", func() {
			deletePlayer(env.Supervisor(), math.MaxInt32).ExpectStatus(http.StatusBadRequest)
			deletePlayer(env.Supervisor(), -1).ExpectStatus(http.StatusBadRequest)
		})
	})
})
