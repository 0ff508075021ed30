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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/unikorn-cloud/player-harness/pkg/players"
	"github.com/unikorn-cloud/player-harness/test/api"
)

var _ = Describe("Get All Players", flaky, func() {
	It("should return every player matching the schema", func() {
		_, user := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleUser)
		_, admin := api.CreateValidPlayerWithCleanup(ctx, env, players.RoleAdmin)

		response, err := env.Client.GetAll(ctx)
		Expect(err).NotTo(HaveOccurred())

		all := response.ExpectStatus(http.StatusOK).AsBody()

		Expect(all.Players).NotTo(BeEmpty())

		missing := set.New[int64](user.PlayerID, admin.PlayerID).Difference(set.New[int64](all.IDs()...))
		Expect(slices.Collect(missing.All())).To(BeEmpty())
		Expect(env.Schema.Validate(ctx, response.Raw())).To(Succeed())
	})
})
