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

	"github.com/hotelbooking/booking-api-tests/test/api"
)

var _ = Describe("Hotel Management", Ordered, ContinueOnFailure, func() {
	var (
		tc      *api.TestContext
		chain   *api.FixtureChain
		created int64
	)

	BeforeAll(func(ctx SpecContext) {
		tc = api.NewTestContext()
		chain = api.SetupChain(ctx, client, tc, shapes)
	})

	Context("When reading hotels", func() {
		It("should list all hotels", func(ctx SpecContext) {
			resp, err := client.ListHotels(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusOK)
			api.ExpectList(resp, shapes.Shape(api.OpListHotels))
		})

		It("should return an existing hotel by id", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleHotel)

			resp, err := client.GetHotel(ctx, tc.MustGet(api.RoleHotel))
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusOK)
			api.ExpectEntityID(resp, shapes.Shape(api.OpGetHotel), tc.MustGet(api.RoleHotel))
		})

		It("should return 404 for an unknown hotel", func(ctx SpecContext) {
			resp, err := client.GetHotel(ctx, nonExistentID)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusNotFound)
		})
	})

	Context("When creating hotels", func() {
		It("should create a hotel", func(ctx SpecContext) {
			payload := api.HotelPayload().With("name", "Test Hotel")

			resp, err := client.CreateHotel(ctx, payload)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusCreated)
			api.ExpectField(resp, shapes.Shape(api.OpCreateHotel), "name", "Test Hotel")

			created = api.ExtractIDOrFail(resp, shapes.Shape(api.OpCreateHotel))
			chain.Track(api.RoleHotel, created)
		})

		It("should reject a hotel with only a name", func(ctx SpecContext) {
			resp, err := client.CreateHotel(ctx, api.Payload{"name": "Invalid Hotel"})
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusBadRequest)
		})
	})

	Context("When updating hotels", func() {
		It("should update an existing hotel", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleHotel)

			resp, err := client.UpdateHotel(ctx, tc.MustGet(api.RoleHotel), api.Payload{"name": "Updated Hotel", "rating": 4})
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusOK)
			api.ExpectField(resp, shapes.Shape(api.OpUpdateHotel), "name", "Updated Hotel")
		})
	})

	Context("When deleting hotels", func() {
		// Services without enforced foreign keys delete the hotel anyway, so
		// only a server error fails here.
		It("should handle deleting a hotel that still has rooms", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleHotel, api.RoleRoom)

			hotelID, roomID := tc.MustGet(api.RoleHotel), tc.MustGet(api.RoleRoom)

			resp, err := client.DeleteHotel(ctx, hotelID)
			Expect(err).NotTo(HaveOccurred())

			if resp.IsSuccess() {
				GinkgoWriter.Printf("Hotel %d was deleted while room %d still references it (status %d)\n", hotelID, roomID, resp.StatusCode)
				tc.Delete(api.RoleHotel)

				return
			}

			Expect(resp.StatusCode).To(BeNumerically("<", http.StatusInternalServerError), "deleting hotel %d before room %d returned %d", hotelID, roomID, resp.StatusCode)
		})

		It("should delete a hotel without rooms", func(ctx SpecContext) {
			if created == 0 {
				Skip("no hotel was created by this suite")
			}

			resp, err := client.DeleteHotel(ctx, created)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusOK)
		})

		It("should return 404 for an unknown hotel", func(ctx SpecContext) {
			resp, err := client.DeleteHotel(ctx, nonExistentID)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusNotFound)
		})
	})
})
