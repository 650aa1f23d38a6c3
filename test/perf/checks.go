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

// Package perf times individual API requests against a response time ceiling.
package perf

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/hotelbooking/booking-api-tests/test/api"
)

// Check is a single timed request.
type Check struct {
	Name   string
	Method string
	Path   string
	Body   any
	// Creates names the role of the entity a successful POST creates, so
	// callers can clean it up.
	Creates api.Role
}

// Targets are the existing records the read checks address.
type Targets struct {
	UserID    int64
	HotelID   int64
	RoomID    int64
	BookingID int64
}

// DefaultTargets assumes a seeded database where every first record exists.
func DefaultTargets() Targets {
	return Targets{UserID: 1, HotelID: 1, RoomID: 1, BookingID: 1}
}

func (t *Targets) AddFlags(f *pflag.FlagSet) {
	f.Int64Var(&t.UserID, "user-id", t.UserID, "Existing user read by the checks and booked for")
	f.Int64Var(&t.HotelID, "hotel-id", t.HotelID, "Existing hotel read by the checks")
	f.Int64Var(&t.RoomID, "room-id", t.RoomID, "Existing available room read and booked by the checks")
	f.Int64Var(&t.BookingID, "booking-id", t.BookingID, "Existing booking read by the checks")
}

// DefaultChecks are ChecksFor the default targets.
func DefaultChecks() []Check {
	return ChecksFor(DefaultTargets())
}

// ChecksFor returns the reads then the writes, in execution order. The
// created user gets a unique email so repeated runs do not conflict.
func ChecksFor(t Targets) []Check {
	id := func(v int64) string {
		return strconv.FormatInt(v, 10)
	}

	return []Check{
		{Name: "get all hotels", Method: http.MethodGet, Path: "/hotels"},
		{Name: "get hotel by id", Method: http.MethodGet, Path: "/hotels/" + id(t.HotelID)},
		{Name: "get all users", Method: http.MethodGet, Path: "/users"},
		{Name: "get user by id", Method: http.MethodGet, Path: "/users/" + id(t.UserID)},
		{Name: "get all rooms", Method: http.MethodGet, Path: "/rooms"},
		{Name: "get room by id", Method: http.MethodGet, Path: "/rooms/" + id(t.RoomID)},
		{Name: "get all bookings", Method: http.MethodGet, Path: "/bookings"},
		{Name: "get booking by id", Method: http.MethodGet, Path: "/bookings/" + id(t.BookingID)},
		{
			Name:   "create user",
			Method: http.MethodPost,
			Path:   "/users",
			Body: api.Payload{
				"first_name": "Jane",
				"last_name":  "Doe",
				"email":      fmt.Sprintf("jane.doe+%s@example.com", api.GenerateTestID()),
				"phone":      "9998887777",
			},
			Creates: api.RoleUser,
		},
		{
			Name:   "create hotel",
			Method: http.MethodPost,
			Path:   "/hotels",
			Body: api.Payload{
				"name":    "Performance Inn",
				"address": "123 Speed Lane",
				"city":    "Fastville",
				"country": "Quickland",
				"rating":  4,
			},
			Creates: api.RoleHotel,
		},
		{
			Name:   "create booking",
			Method: http.MethodPost,
			Path:   "/bookings",
			Body: api.Payload{
				"user_id":        t.UserID,
				"room_id":        t.RoomID,
				"check_in_date":  "2025-04-12",
				"check_out_date": "2025-04-14",
			},
			Creates: api.RoleBooking,
		},
	}
}
