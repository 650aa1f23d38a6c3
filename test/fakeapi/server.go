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
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/hotelbooking/booking-api-tests/pkg/observability"

	"k8s.io/utils/ptr"
)

// Options control deviations of the fake from the documented contract.
type Options struct {
	// EntityEnvelope wraps single entities as {"success":true,"data":{...}}.
	EntityEnvelope bool
	// Latency is added to every request.
	Latency time.Duration
	// Logger receives one line per request; the zero value discards.
	Logger zerolog.Logger
	// Metrics, when set, counts requests by route.
	Metrics *observability.Metrics
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.BoolVar(&o.EntityEnvelope, "entity-envelope", false, "Wrap single entities in a data envelope")
	f.DurationVar(&o.Latency, "latency", 0, "Delay added to every request")
}

// Server is an in-memory Hotel Booking API used to exercise the harness.
type Server struct {
	opts  Options
	store *store
	mux   *chi.Mux
}

func New(opts Options) *Server {
	s := &Server{
		opts:  opts,
		store: newStore(),
		mux:   chi.NewRouter(),
	}

	s.mux.Use(chimw.RequestID)
	s.mux.Use(chimw.Recoverer)
	s.mux.Use(s.requestLogger)

	if opts.Latency > 0 {
		s.mux.Use(s.delay)
	}

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Post("/", s.createUser)
			r.Get("/{id}", s.getUser)
			r.Put("/{id}", s.updateUser)
			r.Delete("/{id}", s.deleteUser)
		})

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", s.listHotels)
			r.Post("/", s.createHotel)
			r.Get("/{id}", s.getHotel)
			r.Put("/{id}", s.updateHotel)
			r.Delete("/{id}", s.deleteHotel)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.listRooms)
			r.Post("/", s.createRoom)
			r.Get("/hotel/{hotelId}", s.listRoomsByHotel)
			r.Get("/hotel/{hotelId}/available", s.listAvailableRooms)
			r.Get("/{id}", s.getRoom)
			r.Put("/{id}", s.updateRoom)
			r.Patch("/{id}/availability", s.updateRoomAvailability)
			r.Delete("/{id}", s.deleteRoom)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", s.listBookings)
			r.Post("/", s.createBooking)
			r.Get("/user/{userId}", s.listBookingsByUser)
			r.Get("/{id}", s.getBooking)
			r.Patch("/{id}/cancel", s.cancelBooking)
			r.Patch("/{id}/status", s.updateBookingStatus)
			r.Delete("/{id}", s.deleteBooking)
		})
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}

		elapsed := time.Since(start)

		s.opts.Metrics.ObserveRequest("stub", route, r.Method, ww.Status(), elapsed)

		s.opts.Logger.Debug().
			Str("route", route).
			Str("method", r.Method).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Str("traceparent", r.Header.Get("Traceparent")).
			Msg("http_request")
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Error: message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func (s *Server) writeEntity(w http.ResponseWriter, status int, v any) {
	if s.opts.EntityEnvelope {
		writeJSON(w, status, envelope{Success: true, Data: v})
		return
	}

	writeJSON(w, status, v)
}

// writeList always envelopes; a nil data field would drop out of the body.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items})
}

// writeStoreError maps store failures to the documented status codes.
func writeStoreError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, resource+" is still referenced")
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrInvalidDates):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusBadRequest, "invalid "+resource+" data")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// fields is a decoded request body. Bodies are read loosely so that both
// camelCase and snake_case keys are accepted.
type fields map[string]any

func decodeFields(r *http.Request) (fields, bool) {
	var f fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil || f == nil {
		return nil, false
	}

	return f, true
}

func (f fields) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}

func (f fields) str(keys ...string) (string, bool) {
	v, ok := f.lookup(keys...)
	if !ok {
		return "", false
	}

	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}

	return "", false
}

func (f fields) num(keys ...string) (float64, bool) {
	v, ok := f.lookup(keys...)
	if !ok {
		return 0, false
	}

	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		return n, err == nil
	}

	return 0, false
}

func (f fields) id(keys ...string) (int64, bool) {
	n, ok := f.num(keys...)
	if !ok || n <= 0 || n != float64(int64(n)) {
		return 0, false
	}

	return int64(n), true
}

func (f fields) boolean(keys ...string) (bool, bool) {
	v, ok := f.lookup(keys...)
	if !ok {
		return false, false
	}

	b, ok := v.(bool)

	return b, ok
}

func (f fields) strings(key string) []string {
	raw, ok := f[key].([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))

	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.store.listUsers())
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.store.getUser(id)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}

	s.writeEntity(w, http.StatusOK, user)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	first, ok1 := f.str("first_name", "firstName")
	last, ok2 := f.str("last_name", "lastName")
	email, ok3 := f.str("email")

	if !ok1 || !ok2 || !ok3 {
		writeError(w, http.StatusBadRequest, "first_name, last_name and email are required")
		return
	}

	user := User{
		FirstName: first,
		LastName:  last,
		Email:     email,
	}

	if phone, ok := f.str("phone"); ok {
		user.Phone = ptr.To(phone)
	}

	user, err := s.store.createUser(user)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}

	s.writeEntity(w, http.StatusCreated, user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.updateUser(id, func(u *User) {
		if v, ok := f.str("first_name", "firstName"); ok {
			u.FirstName = v
		}

		if v, ok := f.str("last_name", "lastName"); ok {
			u.LastName = v
		}

		if v, ok := f.str("email"); ok {
			u.Email = v
		}

		if v, ok := f.str("phone"); ok {
			u.Phone = ptr.To(v)
		}
	})
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}

	s.writeEntity(w, http.StatusOK, user)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.store.deleteUser(id); err != nil {
		writeStoreError(w, err, "user")
		return
	}

	writeMessage(w, "user deleted")
}

func (s *Server) listHotels(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.store.listHotels())
}

func (s *Server) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	hotel, err := s.store.getHotel(id)
	if err != nil {
		writeStoreError(w, err, "hotel")
		return
	}

	s.writeEntity(w, http.StatusOK, hotel)
}

func (s *Server) createHotel(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, ok1 := f.str("name")
	address, ok2 := f.str("address")
	city, ok3 := f.str("city")
	country, ok4 := f.str("country")

	if !ok1 || !ok2 || !ok3 || !ok4 {
		writeError(w, http.StatusBadRequest, "name, address, city and country are required")
		return
	}

	hotel := Hotel{
		Name:    name,
		Address: address,
		City:    city,
		Country: country,
	}

	if rating, ok := f.num("rating"); ok {
		hotel.Rating = ptr.To(rating)
	}

	s.writeEntity(w, http.StatusCreated, s.store.createHotel(hotel))
}

func (s *Server) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hotel, err := s.store.updateHotel(id, func(h *Hotel) {
		if v, ok := f.str("name"); ok {
			h.Name = v
		}

		if v, ok := f.str("address"); ok {
			h.Address = v
		}

		if v, ok := f.str("city"); ok {
			h.City = v
		}

		if v, ok := f.str("country"); ok {
			h.Country = v
		}

		if v, ok := f.num("rating"); ok {
			h.Rating = ptr.To(v)
		}
	})
	if err != nil {
		writeStoreError(w, err, "hotel")
		return
	}

	s.writeEntity(w, http.StatusOK, hotel)
}

func (s *Server) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	if err := s.store.deleteHotel(id); err != nil {
		writeStoreError(w, err, "hotel")
		return
	}

	writeMessage(w, "hotel deleted")
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.store.listRooms(nil))
}

func (s *Server) hotelRooms(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	hotelID, ok := pathID(r, "hotelId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	if _, err := s.store.getHotel(hotelID); err != nil {
		writeStoreError(w, err, "hotel")
		return
	}

	writeList(w, s.store.listRooms(func(room Room) bool {
		if room.HotelID != hotelID {
			return false
		}

		return !availableOnly || ptr.Deref(room.IsAvailable, true)
	}))
}

func (s *Server) listRoomsByHotel(w http.ResponseWriter, r *http.Request) {
	s.hotelRooms(w, r, false)
}

func (s *Server) listAvailableRooms(w http.ResponseWriter, r *http.Request) {
	s.hotelRooms(w, r, true)
}

func (s *Server) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	room, err := s.store.getRoom(id)
	if err != nil {
		writeStoreError(w, err, "room")
		return
	}

	s.writeEntity(w, http.StatusOK, room)
}

func (s *Server) createRoom(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hotelID, ok1 := f.id("hotel_id", "hotelId")
	number, ok2 := f.str("room_number", "roomNumber")
	roomType, ok3 := f.str("room_type", "roomType")
	price, ok4 := f.num("price_per_night", "pricePerNight")

	if !ok1 || !ok2 || !ok3 || !ok4 || price < 0 {
		writeError(w, http.StatusBadRequest, "hotel_id, room_number, room_type and price_per_night are required")
		return
	}

	room := Room{
		HotelID:       hotelID,
		RoomNumber:    number,
		RoomType:      roomType,
		PricePerNight: price,
		Amenities:     f.strings("amenities"),
	}

	if available, ok := f.boolean("is_available", "isAvailable"); ok {
		room.IsAvailable = ptr.To(available)
	}

	room, err := s.store.createRoom(room)
	if err != nil {
		writeStoreError(w, err, "hotel")
		return
	}

	s.writeEntity(w, http.StatusCreated, room)
}

func (s *Server) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := s.store.updateRoom(id, func(room *Room) {
		if v, ok := f.id("hotel_id", "hotelId"); ok {
			room.HotelID = v
		}

		if v, ok := f.str("room_number", "roomNumber"); ok {
			room.RoomNumber = v
		}

		if v, ok := f.str("room_type", "roomType"); ok {
			room.RoomType = v
		}

		if v, ok := f.num("price_per_night", "pricePerNight"); ok {
			room.PricePerNight = v
		}

		if v, ok := f.boolean("is_available", "isAvailable"); ok {
			room.IsAvailable = ptr.To(v)
		}

		if _, ok := f["amenities"]; ok {
			room.Amenities = f.strings("amenities")
		}
	})
	if err != nil {
		writeStoreError(w, err, "room")
		return
	}

	s.writeEntity(w, http.StatusOK, room)
}

func (s *Server) updateRoomAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	available, ok := f.boolean("is_available", "isAvailable")
	if !ok {
		writeError(w, http.StatusBadRequest, "is_available must be a boolean")
		return
	}

	if _, err := s.store.updateRoom(id, func(room *Room) { room.IsAvailable = ptr.To(available) }); err != nil {
		writeStoreError(w, err, "room")
		return
	}

	writeMessage(w, "room availability updated")
}

func (s *Server) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	if err := s.store.deleteRoom(id); err != nil {
		writeStoreError(w, err, "room")
		return
	}

	writeMessage(w, "room deleted")
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.store.listBookings(nil))
}

func (s *Server) listBookingsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := s.store.getUser(userID); err != nil {
		writeStoreError(w, err, "user")
		return
	}

	writeList(w, s.store.listBookings(func(b Booking) bool { return b.UserID == userID }))
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := s.store.getBooking(id)
	if err != nil {
		writeStoreError(w, err, "booking")
		return
	}

	s.writeEntity(w, http.StatusOK, booking)
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, ok1 := f.id("userId", "user_id")
	roomID, ok2 := f.id("roomId", "room_id")
	checkIn, ok3 := f.str("check_in_date", "checkInDate")
	checkOut, ok4 := f.str("check_out_date", "checkOutDate")

	if !ok1 || !ok2 || !ok3 || !ok4 {
		writeError(w, http.StatusBadRequest, "user, room, check_in_date and check_out_date are required")
		return
	}

	// A hotel reference is optional but must match the room when present.
	var hotelID int64

	if _, present := f.lookup("hotelId", "hotel_id"); present {
		if hotelID, ok = f.id("hotelId", "hotel_id"); !ok {
			writeError(w, http.StatusBadRequest, "invalid hotel id")
			return
		}
	}

	booking, err := s.store.createBooking(Booking{
		UserID:       userID,
		RoomID:       roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	}, hotelID)
	if err != nil {
		writeStoreError(w, err, "booking")
		return
	}

	s.writeEntity(w, http.StatusCreated, booking)
}

func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := s.store.cancelBooking(id); err != nil {
		writeStoreError(w, err, "booking")
		return
	}

	writeMessage(w, "booking cancelled")
}

var bookingStatuses = []string{StatusConfirmed, StatusCancelled, StatusCompleted}

func (s *Server) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	f, ok := decodeFields(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, ok := f.str("status")
	if !ok || !slices.Contains(bookingStatuses, status) {
		writeError(w, http.StatusBadRequest, "status must be one of confirmed, cancelled or completed")
		return
	}

	if err := s.store.setBookingStatus(id, status); err != nil {
		writeStoreError(w, err, "booking")
		return
	}

	writeMessage(w, "booking status updated")
}

func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := s.store.deleteBooking(id); err != nil {
		writeStoreError(w, err, "booking")
		return
	}

	writeMessage(w, "booking deleted")
}
