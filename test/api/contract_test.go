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

//nolint:revive // dot imports are standard for Ginkgo/Gomega test code
package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hotelbooking/booking-api-tests/test/api"
	"github.com/hotelbooking/booking-api-tests/test/fakeapi"
)

func jsonResponse(method, path string, status int, body string) *api.Response {
	return &api.Response{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}
}

var _ = Describe("Contract Validator", func() {
	var validator *api.ContractValidator

	BeforeEach(func() {
		var err error

		validator, err = api.NewContractValidator()
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("knows the documented operations",
		func(method, path string, documented bool) {
			Expect(validator.Documents(method, path)).To(Equal(documented))
		},
		Entry("list users", http.MethodGet, "/users", true),
		Entry("rooms by hotel", http.MethodGet, "/rooms/hotel/4", true),
		Entry("available rooms", http.MethodGet, "/rooms/hotel/4/available", true),
		Entry("bookings by user", http.MethodGet, "/bookings/user/9", true),
		Entry("cancel booking", http.MethodPatch, "/bookings/3/cancel", true),
		Entry("cancel with the wrong method", http.MethodPost, "/bookings/3/cancel", false),
		Entry("unknown resource", http.MethodGet, "/payments", false),
	)

	It("accepts a documented entity", func(ctx SpecContext) {
		resp := jsonResponse(http.MethodGet, "/bookings/3", http.StatusOK,
			`{"id":3,"user_id":1,"room_id":2,"check_in_date":"2025-04-10","check_out_date":"2025-04-12","total_price":360,"status":"confirmed"}`)

		Expect(validator.Validate(ctx, resp)).To(Succeed())
	})

	It("rejects an undocumented status", func(ctx SpecContext) {
		resp := jsonResponse(http.MethodGet, "/users", http.StatusTeapot, `{"error":"teapot"}`)

		Expect(validator.Validate(ctx, resp)).NotTo(Succeed())
	})

	It("rejects a bare list where an envelope is documented", func(ctx SpecContext) {
		resp := jsonResponse(http.MethodGet, "/rooms/hotel/4", http.StatusOK, `[{"id":1,"hotel_id":4}]`)

		Expect(validator.Validate(ctx, resp)).NotTo(Succeed())
	})

	It("rejects an unknown booking status", func(ctx SpecContext) {
		resp := jsonResponse(http.MethodGet, "/bookings/3", http.StatusOK,
			`{"id":3,"user_id":1,"room_id":2,"check_in_date":"2025-04-10","check_out_date":"2025-04-12","status":"pending"}`)

		Expect(validator.Validate(ctx, resp)).NotTo(Succeed())
	})

	It("flags entity envelopes as drift", func(ctx SpecContext) {
		client := newFakeClient(fakeapi.Options{EntityEnvelope: true})

		resp, err := client.CreateHotel(ctx, api.HotelPayload())
		Expect(err).NotTo(HaveOccurred())
		api.ExpectStatus(resp, http.StatusCreated)

		Expect(validator.Validate(ctx, resp)).NotTo(Succeed())
		Expect(api.ExtractID(resp, api.ShapeEnvelopedObject)).To(BeNumerically(">", 0))
	})

	It("rejects undocumented paths", func(ctx SpecContext) {
		resp := jsonResponse(http.MethodGet, "/payments", http.StatusOK, `{}`)

		Expect(validator.Validate(ctx, resp)).To(MatchError(ContainSubstring("not documented")))
	})
})
