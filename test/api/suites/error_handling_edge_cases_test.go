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
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hotelbooking/booking-api-tests/test/api"
)

// expectErrorBody asserts a rejected request explains itself.
func expectErrorBody(resp *api.Response) {
	GinkgoHelper()

	var body struct {
		Error string `json:"error"`
	}

	Expect(json.Unmarshal(resp.Body, &body)).To(Succeed(), "error body is not JSON: %s", string(resp.Body))
	Expect(body.Error).NotTo(BeEmpty(), "error body has no message: %s", string(resp.Body))
}

var _ = Describe("Error Handling", Ordered, ContinueOnFailure, func() {
	var tc *api.TestContext

	BeforeAll(func(ctx SpecContext) {
		tc = api.NewTestContext()
		api.SetupChain(ctx, client, tc, shapes, api.WithBooking())
	})

	Context("When a resource does not exist", func() {
		DescribeTable("should return 404 with a message",
			func(ctx SpecContext, role api.Role) {
				resp, err := client.Do(ctx, http.MethodGet, client.Endpoints().ResourcePath(role, nonExistentID), nil)
				Expect(err).NotTo(HaveOccurred())
				api.ExpectStatus(resp, http.StatusNotFound)
				expectErrorBody(resp)
			},
			Entry("user", api.RoleUser),
			Entry("hotel", api.RoleHotel),
			Entry("room", api.RoleRoom),
			Entry("booking", api.RoleBooking),
		)

		DescribeTable("should return 404 when deleting",
			func(ctx SpecContext, role api.Role) {
				resp, err := client.DeleteResource(ctx, role, nonExistentID)
				Expect(err).NotTo(HaveOccurred())
				api.ExpectStatus(resp, http.StatusNotFound)
			},
			Entry("user", api.RoleUser),
			Entry("hotel", api.RoleHotel),
			Entry("room", api.RoleRoom),
			Entry("booking", api.RoleBooking),
		)

		It("should return 404 updating an unknown room's availability", func(ctx SpecContext) {
			resp, err := client.UpdateRoomAvailability(ctx, nonExistentID, true)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusNotFound)
		})

		It("should reject a room for an unknown hotel", func(ctx SpecContext) {
			resp, err := client.CreateRoom(ctx, api.RoomPayload(nonExistentID))
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatusIn(resp, http.StatusBadRequest, http.StatusNotFound)
		})
	})

	Context("When a request conflicts with existing data", func() {
		It("should reject a duplicate email", func(ctx SpecContext) {
			payload := api.UserPayload()

			resp, err := client.CreateUser(ctx, payload)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusCreated)

			first := api.ExtractIDOrFail(resp, shapes.Shape(api.OpCreateUser))

			DeferCleanup(func(ctx SpecContext) {
				_, _ = client.DeleteUser(ctx, first)
			})

			resp, err = client.CreateUser(ctx, payload)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusConflict)
			expectErrorBody(resp)
		})

		It("should reject booking a room that is already taken", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleUser, api.RoleHotel, api.RoleRoom, api.RoleBooking)

			resp, err := client.CreateBooking(ctx, api.BookingPayload(tc.MustGet(api.RoleUser), tc.MustGet(api.RoleHotel), tc.MustGet(api.RoleRoom)))
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStatus(resp, http.StatusBadRequest)
			expectErrorBody(resp)
		})

		It("should handle deleting a user with bookings", func(ctx SpecContext) {
			api.RequireRoles(tc, api.RoleUser, api.RoleBooking)

			userID, bookingID := tc.MustGet(api.RoleUser), tc.MustGet(api.RoleBooking)

			resp, err := client.DeleteUser(ctx, userID)
			Expect(err).NotTo(HaveOccurred())

			if resp.IsSuccess() {
				GinkgoWriter.Printf("User %d was deleted while booking %d still references it (status %d)\n", userID, bookingID, resp.StatusCode)
				tc.Delete(api.RoleUser)

				return
			}

			Expect(resp.StatusCode).To(BeNumerically("<", http.StatusInternalServerError), "deleting user %d with booking %d returned %d", userID, bookingID, resp.StatusCode)
		})
	})
})
