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

var _ = Describe("Booking State", Ordered, ContinueOnFailure, func() {
	var (
		tc    *api.TestContext
		chain *api.FixtureChain
	)

	BeforeAll(func(ctx SpecContext) {
		tc = api.NewTestContext()
		chain = api.SetupChain(ctx, client, tc, shapes, api.WithBooking())
	})

	bookingField := func(ctx SpecContext, key string) any {
		GinkgoHelper()

		resp, err := client.GetBooking(ctx, tc.MustGet(api.RoleBooking))
		Expect(err).NotTo(HaveOccurred())
		api.ExpectStatus(resp, http.StatusOK)

		return api.ExpectEntity(resp, shapes.Shape(api.OpGetBooking))[key]
	}

	availableRooms := func(ctx SpecContext) []map[string]any {
		GinkgoHelper()

		resp, err := client.ListAvailableRooms(ctx, tc.MustGet(api.RoleHotel))
		Expect(err).NotTo(HaveOccurred())
		api.ExpectStatus(resp, http.StatusOK)

		return api.ExpectList(resp, shapes.Shape(api.OpListAvailableRooms))
	}

	Context("When a booking is confirmed", func() {
		It("should start confirmed", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleBooking)

			Expect(bookingField(ctx, "status")).To(Equal("confirmed"))
		})

		It("should price the stay by nights", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleBooking)

			// Two nights at the default room rate.
			Expect(bookingField(ctx, "total_price")).To(BeNumerically("==", 360))
		})

		It("should take the room off the available list", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleHotel, api.RoleRoom)

			Expect(availableRooms(ctx)).NotTo(ContainElement(HaveKeyWithValue("id", BeNumerically("==", tc.MustGet(api.RoleRoom)))))
		})
	})

	Context("When the status is changed", func() {
		It("should reject an unknown status", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleBooking)

			resp, err := client.UpdateBookingStatus(ctx, tc.MustGet(api.RoleBooking), "pending")
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusBadRequest)
		})

		It("should record a completed stay", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleBooking)

			resp, err := client.UpdateBookingStatus(ctx, tc.MustGet(api.RoleBooking), "completed")
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusOK)

			Expect(bookingField(ctx, "status")).To(Equal("completed"))
		})

		It("should return 404 for an unknown booking", func(ctx SpecContext) {
			resp, err := client.UpdateBookingStatus(ctx, nonExistentID, "completed")
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusNotFound)
		})
	})

	Context("When the booking is cancelled", func() {
		It("should mark it cancelled and free the room", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleHotel, api.RoleRoom, api.RoleBooking)

			resp, err := client.CancelBooking(ctx, tc.MustGet(api.RoleBooking))
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusOK)

			Expect(bookingField(ctx, "status")).To(Equal("cancelled"))
			Expect(availableRooms(ctx)).To(ContainElement(HaveKeyWithValue("id", BeNumerically("==", tc.MustGet(api.RoleRoom)))))
		})

		It("should not cancel twice", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleBooking)

			resp, err := client.CancelBooking(ctx, tc.MustGet(api.RoleBooking))
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusNotFound)
		})

		It("should let the room be booked again", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleUser, api.RoleHotel, api.RoleRoom)

			resp, err := client.CreateBooking(ctx, api.BookingPayload(tc.MustGet(api.RoleUser), tc.MustGet(api.RoleHotel), tc.MustGet(api.RoleRoom)))
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusCreated)

			chain.Track(api.RoleBooking, api.ExtractIDOrFail(resp, shapes.Shape(api.OpCreateBooking)))
		})
	})
})
