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

package fakeapi

import (
	"errors"
	"math"
	"slices"
	"sync"
	"time"

	"k8s.io/utils/ptr"
)

const dateLayout = "2006-01-02"

type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

type Hotel struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Rating  *float64 `json:"rating,omitempty"`
}

type Room struct {
	ID            int64    `json:"id"`
	HotelID       int64    `json:"hotel_id"`
	RoomNumber    string   `json:"room_number"`
	RoomType      string   `json:"room_type"`
	PricePerNight float64  `json:"price_per_night"`
	IsAvailable   *bool    `json:"is_available"`
	Amenities     []string `json:"amenities,omitempty"`
}

type Booking struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	RoomID       int64   `json:"room_id"`
	CheckInDate  string  `json:"check_in_date"`
	CheckOutDate string  `json:"check_out_date"`
	TotalPrice   float64 `json:"total_price"`
	Status       string  `json:"status"`
}

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid")
	ErrUnavailable  = errors.New("room is not available")
	ErrDuplicate    = errors.New("user with this email already exists")
	ErrInvalidDates = errors.New("check-out date must be after check-in date")
)

// store is the in-memory state of the fake service.
type store struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*User
	hotels   map[int64]*Hotel
	rooms    map[int64]*Room
	bookings map[int64]*Booking
}

func newStore() *store {
	return &store{
		users:    map[int64]*User{},
		hotels:   map[int64]*Hotel{},
		rooms:    map[int64]*Room{},
		bookings: map[int64]*Booking{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func sorted[T any](m map[int64]*T) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m[k])
	}

	return out
}

func (s *store) listUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sorted(s.users)
}

func (s *store) getUser(id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}

	return *u, nil
}

func (s *store) createUser(u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return User{}, ErrDuplicate
		}
	}

	u.ID = s.id()
	s.users[u.ID] = &u

	return u, nil
}

func (s *store) updateUser(id int64, update func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}

	update(u)

	return *u, nil
}

func (s *store) deleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}

	for _, b := range s.bookings {
		if b.UserID == id {
			return ErrConflict
		}
	}

	delete(s.users, id)

	return nil
}

func (s *store) listHotels() []Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sorted(s.hotels)
}

func (s *store) getHotel(id int64) (Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hotels[id]
	if !ok {
		return Hotel{}, ErrNotFound
	}

	return *h, nil
}

func (s *store) createHotel(h Hotel) Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = s.id()
	s.hotels[h.ID] = &h

	return h
}

func (s *store) updateHotel(id int64, update func(*Hotel)) (Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hotels[id]
	if !ok {
		return Hotel{}, ErrNotFound
	}

	update(h)

	return *h, nil
}

// deleteHotel refuses while rooms still reference the hotel.
func (s *store) deleteHotel(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[id]; !ok {
		return ErrNotFound
	}

	for _, r := range s.rooms {
		if r.HotelID == id {
			return ErrConflict
		}
	}

	delete(s.hotels, id)

	return nil
}

func (s *store) listRooms(filter func(Room) bool) []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Room{}

	for _, r := range sorted(s.rooms) {
		if filter == nil || filter(r) {
			out = append(out, r)
		}
	}

	return out
}

func (s *store) getRoom(id int64) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}

	return *r, nil
}

func (s *store) createRoom(r Room) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[r.HotelID]; !ok {
		return Room{}, ErrNotFound
	}

	if r.IsAvailable == nil {
		r.IsAvailable = ptr.To(true)
	}

	r.ID = s.id()
	s.rooms[r.ID] = &r

	return r, nil
}

func (s *store) updateRoom(id int64, update func(*Room)) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}

	update(r)

	if _, ok := s.hotels[r.HotelID]; !ok {
		return Room{}, ErrInvalid
	}

	return *r, nil
}

func (s *store) deleteRoom(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return ErrNotFound
	}

	for _, b := range s.bookings {
		if b.RoomID == id {
			return ErrConflict
		}
	}

	delete(s.rooms, id)

	return nil
}

func (s *store) listBookings(filter func(Booking) bool) []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Booking{}

	for _, b := range sorted(s.bookings) {
		if filter == nil || filter(b) {
			out = append(out, b)
		}
	}

	return out
}

func (s *store) getBooking(id int64) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}

	return *b, nil
}

// createBooking prices the stay by whole nights and marks the room taken.
// A hotelID of zero means the caller did not name one.
func (s *store) createBooking(b Booking, hotelID int64) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[b.UserID]; !ok {
		return Booking{}, ErrInvalid
	}

	room, ok := s.rooms[b.RoomID]
	if !ok {
		return Booking{}, ErrInvalid
	}

	if hotelID != 0 && room.HotelID != hotelID {
		return Booking{}, ErrInvalid
	}

	if room.IsAvailable != nil && !*room.IsAvailable {
		return Booking{}, ErrUnavailable
	}

	checkIn, err := time.Parse(dateLayout, b.CheckInDate)
	if err != nil {
		return Booking{}, ErrInvalid
	}

	checkOut, err := time.Parse(dateLayout, b.CheckOutDate)
	if err != nil {
		return Booking{}, ErrInvalid
	}

	nights := math.Ceil(checkOut.Sub(checkIn).Hours() / 24)
	if nights <= 0 {
		return Booking{}, ErrInvalidDates
	}

	b.ID = s.id()
	b.TotalPrice = nights * room.PricePerNight
	b.Status = StatusConfirmed
	s.bookings[b.ID] = &b

	room.IsAvailable = ptr.To(false)

	return b, nil
}

func (s *store) setBookingStatus(id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}

	b.Status = status

	return nil
}

// cancelBooking frees the room; cancelling twice reports not found.
func (s *store) cancelBooking(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Status == StatusCancelled {
		return ErrNotFound
	}

	b.Status = StatusCancelled

	if room, ok := s.rooms[b.RoomID]; ok {
		room.IsAvailable = ptr.To(true)
	}

	return nil
}

func (s *store) deleteBooking(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}

	if b.Status != StatusCancelled {
		if room, ok := s.rooms[b.RoomID]; ok {
			room.IsAvailable = ptr.To(true)
		}
	}

	delete(s.bookings, id)

	return nil
}
