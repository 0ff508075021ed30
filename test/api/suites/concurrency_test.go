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
	"slices"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"
	"golang.org/x/sync/errgroup"

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

var _ = Describe("Concurrency", flaky, func() {
	Context("When performing concurrent operations", func() {
		Describe("Given multiple simultaneous player creation requests", func() {
			It("should create every player with a unique identifier", func() {
				const count = 5

				var (
					lock      sync.Mutex
					responses []*client.Response[players.PlayerResponse]
				)

				group, groupCtx := errgroup.WithContext(ctx)
				group.SetLimit(max(count, env.Settings.ThreadCount))

				for range count {
					payload := env.Generator.ValidPlayer()

					group.Go(func() error {
						defer GinkgoRecover()

						response, err := env.Client.Create(groupCtx, env.Supervisor(), payload)
						if err != nil {
							return err
						}

						lock.Lock()
						defer lock.Unlock()

						responses = append(responses, response)

						return nil
					})
				}

				Expect(group.Wait()).To(Succeed())
				Expect(responses).To(HaveLen(count))

				ids := make([]int64, 0, count)

				for _, response := range responses {
					player := response.ExpectStatus(http.StatusOK).AsBody()
					api.ScheduleDeletion(env, player.PlayerID)

					ids = append(ids, player.PlayerID)
				}

				unique := set.New[int64](ids...)
				Expect(slices.Collect(unique.All())).To(HaveLen(count))
			})
		})

		Describe("Given concurrent reads of the same player", func() {
			It("should return the same player to every reader", func() {
				payload, player := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)

				var group errgroup.Group

				bodies := make([]string, env.Settings.ThreadCount)

				for i := range bodies {
					group.Go(func() error {
						response, err := env.Client.GetByID(ctx, &player.PlayerID)
						if err != nil {
							return err
						}

						bodies[i] = response.Raw().SafeBody()

						return nil
					})
				}

				Expect(group.Wait()).To(Succeed())

				for _, body := range bodies {
					Expect(body).To(ContainSubstring(*payload.Login))
				}
			})
		})
	})
})
