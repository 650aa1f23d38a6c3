/*
Copyright 2026 the Hotel Booking Authors.

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
	"golang.org/x/sync/errgroup"

	"github.com/hotelbooking/booking-api-tests/test/api"
)

const concurrentRequests = 5

var _ = Describe("Concurrent Requests", Ordered, ContinueOnFailure, func() {
	var (
		tc    *api.TestContext
		chain *api.FixtureChain
	)

	BeforeAll(func(ctx SpecContext) {
		tc = api.NewTestContext()
		chain = api.SetupChain(ctx, client, tc, shapes)
	})

	Context("When many users register at once", func() {
		It("should give every user a distinct id", func(ctx SpecContext) {
			responses := make([]*api.Response, concurrentRequests)

			g, gctx := errgroup.WithContext(ctx)

			for i := range concurrentRequests {
				g.Go(func() error {
					resp, err := client.CreateUser(gctx, api.UserPayload())
					responses[i] = resp

					return err
				})
			}

			Expect(g.Wait()).To(Succeed())

			ids := map[int64]struct{}{}

			for _, resp := range responses {
				api.ExpectStatus(resp, http.StatusCreated)

				id := api.ExtractIDOrFail(resp, shapes.Shape(api.OpCreateUser))
				chain.Track(api.RoleUser, id)

				ids[id] = struct{}{}
			}

			Expect(ids).To(HaveLen(concurrentRequests))
		})
	})

	Context("When the same room is booked concurrently", func() {
		It("should accept exactly one booking", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleUser, api.RoleHotel, api.RoleRoom)

			payload := api.BookingPayload(tc.MustGet(api.RoleUser), tc.MustGet(api.RoleHotel), tc.MustGet(api.RoleRoom))
			responses := make([]*api.Response, concurrentRequests)

			g, gctx := errgroup.WithContext(ctx)

			for i := range concurrentRequests {
				g.Go(func() error {
					resp, err := client.CreateBooking(gctx, payload)
					responses[i] = resp

					return err
				})
			}

			Expect(g.Wait()).To(Succeed())

			accepted := 0

			for _, resp := range responses {
				if resp.StatusCode != http.StatusCreated {
					api.ExpectStatus(resp, http.StatusBadRequest)
					continue
				}

				accepted++

				chain.Track(api.RoleBooking, api.ExtractIDOrFail(resp, shapes.Shape(api.OpCreateBooking)))
			}

			Expect(accepted).To(Equal(1), "room %d was booked %d times", tc.MustGet(api.RoleRoom), accepted)
		})
	})

	Context("When reading while writing", func() {
		It("should serve consistent lists", func(ctx SpecContext) {
			g, gctx := errgroup.WithContext(ctx)

			for range concurrentRequests {
				g.Go(func() error {
					resp, err := client.ListHotels(gctx)
					if err != nil {
						return err
					}

					if _, err := api.DecodeList(resp, shapes.Shape(api.OpListHotels)); err != nil {
						return err
					}

					return api.CheckStatus(resp, http.StatusOK)
				})
			}

			Expect(g.Wait()).To(Succeed())
		})
	})
})
