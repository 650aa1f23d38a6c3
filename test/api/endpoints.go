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

package api

import (
	"fmt"
)

// Endpoints contains all API endpoint patterns.
// Paths are relative to the configured base URL, which already carries the /api prefix.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// User endpoints.
func (e *Endpoints) ListUsers() string {
	return "/users"
}

func (e *Endpoints) CreateUser() string {
	return "/users"
}

func (e *Endpoints) User(userID int64) string {
	return fmt.Sprintf("/users/%d", userID)
}

// Hotel endpoints.
func (e *Endpoints) ListHotels() string {
	return "/hotels"
}

func (e *Endpoints) CreateHotel() string {
	return "/hotels"
}

func (e *Endpoints) Hotel(hotelID int64) string {
	return fmt.Sprintf("/hotels/%d", hotelID)
}

// Room endpoints.
func (e *Endpoints) ListRooms() string {
	return "/rooms"
}

func (e *Endpoints) CreateRoom() string {
	return "/rooms"
}

func (e *Endpoints) Room(roomID int64) string {
	return fmt.Sprintf("/rooms/%d", roomID)
}

func (e *Endpoints) RoomAvailability(roomID int64) string {
	return fmt.Sprintf("/rooms/%d/availability", roomID)
}

func (e *Endpoints) RoomsByHotel(hotelID int64) string {
	return fmt.Sprintf("/rooms/hotel/%d", hotelID)
}

func (e *Endpoints) AvailableRoomsByHotel(hotelID int64) string {
	return fmt.Sprintf("/rooms/hotel/%d/available", hotelID)
}

// Booking endpoints.
func (e *Endpoints) ListBookings() string {
	return "/bookings"
}

func (e *Endpoints) CreateBooking() string {
	return "/bookings"
}

func (e *Endpoints) Booking(bookingID int64) string {
	return fmt.Sprintf("/bookings/%d", bookingID)
}

func (e *Endpoints) CancelBooking(bookingID int64) string {
	return fmt.Sprintf("/bookings/%d/cancel", bookingID)
}

func (e *Endpoints) BookingStatus(bookingID int64) string {
	return fmt.Sprintf("/bookings/%d/status", bookingID)
}

func (e *Endpoints) BookingsByUser(userID int64) string {
	return fmt.Sprintf("/bookings/user/%d", userID)
}

// ResourcePath returns the item path for an entity role, used by teardown.
func (e *Endpoints) ResourcePath(role Role, id int64) string {
	switch role {
	case RoleUser:
		return e.User(id)
	case RoleHotel:
		return e.Hotel(id)
	case RoleRoom:
		return e.Room(id)
	case RoleBooking:
		return e.Booking(id)
	}

	return fmt.Sprintf("/%s/%d", role, id)
}
