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
	"github.com/hotelbooking/booking-api-tests/test/perf"
)

var _ = Describe("Response Time", Ordered, ContinueOnFailure, func() {
	var (
		tc     *api.TestContext
		chain  *api.FixtureChain
		checks []perf.Check
		runner *perf.Runner
	)

	BeforeAll(func(ctx SpecContext) {
		tc = api.NewTestContext()
		chain = api.SetupChain(ctx, client, tc, shapes, api.WithBooking())
		api.RequireRoles(tc, api.RoleUser, api.RoleHotel, api.RoleBooking)

		// The chain room is booked, so the booking check needs a free one.
		resp, err := client.CreateRoom(ctx, api.RoomPayload(tc.MustGet(api.RoleHotel)))
		Expect(err).NotTo(HaveOccurred())
		api.ExpectStatus(resp, http.StatusCreated)

		freeRoom := api.ExtractIDOrFail(resp, shapes.Shape(api.OpCreateRoom))
		chain.Track(api.RoleRoom, freeRoom)

		checks = perf.ChecksFor(perf.Targets{
			UserID:    tc.MustGet(api.RoleUser),
			HotelID:   tc.MustGet(api.RoleHotel),
			RoomID:    freeRoom,
			BookingID: tc.MustGet(api.RoleBooking),
		})

		runner = perf.NewRunner(client, perf.WithCeiling(config.MaxResponseTime), perf.WithOutput(GinkgoWriter), perf.WithLogger(client.Logger()))
	})

	entries := []TableEntry{}
	for i, check := range perf.DefaultChecks() {
		entries = append(entries, Entry(check.Name, i))
	}

	DescribeTable("should respond within the ceiling",
		func(ctx SpecContext, i int) {
			Expect(checks).To(HaveLen(len(perf.DefaultChecks())))

			m := runner.Measure(ctx, checks[i])
			Expect(m.Err).NotTo(HaveOccurred(), m.String())

			if m.Check.Creates != "" {
				id, err := api.ExtractID(m.Response, shapes.Shape(api.CreateOperation(m.Check.Creates)))
				Expect(err).NotTo(HaveOccurred())

				chain.Track(m.Check.Creates, id)
			}
		},
		entries,
	)
})
