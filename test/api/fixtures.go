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
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/pkg/retry"
)

// CreatePlayerWithCleanup creates a player as editor, expecting success, and
// schedules its deletion by the supervisor.
func CreatePlayerWithCleanup(ctx context.Context, env *Environment, editor string, payload players.Player) players.PlayerResponse {
	response, err := env.Client.Create(ctx, editor, payload)
	Expect(err).NotTo(HaveOccurred())

	player := response.ExpectStatus(http.StatusOK).AsBody()

	GinkgoWriter.Printf("Created player with ID: %d\n", player.PlayerID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	ScheduleDeletion(env, player.PlayerID)

	return player
}

// CreateValidPlayerWithCleanup generates and creates a player with the given
// role, returning the payload, which holds the password, and the response.
func CreateValidPlayerWithCleanup(ctx context.Context, env *Environment, role players.Role) (players.Player, players.PlayerResponse) {
	payload := env.Generator.ValidPlayerWithRole(role)

	return payload, CreatePlayerWithCleanup(ctx, env, env.Supervisor(), payload)
}

// ScheduleDeletion deletes a player when the spec ends, a player that is
// already gone is not an error.
func ScheduleDeletion(env *Environment, id int64) {
	DeferCleanup(func(ctx SpecContext) {
		var response *client.Response[players.NoContent]

		// Transport failures are retried, any status is final.
		err := retry.FromSettings(env.Settings).Run(ctx, func() error {
			var err error

			response, err = env.Client.Delete(ctx, env.Supervisor(), id)

			return err
		})
		if err != nil {
			GinkgoWriter.Printf("Warning: Failed to delete player %d: %v\n", id, err)
			return
		}

		switch response.StatusCode() {
		case http.StatusNoContent:
			GinkgoWriter.Printf("Successfully deleted player: %d\n", id)
		case http.StatusNotFound:
		default:
			GinkgoWriter.Printf("Warning: Failed to delete player %d: status %d body %s\n", id, response.StatusCode(), response.SafeBody())
		}
	})
}
