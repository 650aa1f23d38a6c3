package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"maps"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	rand.Read(bytes)
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// Payload is a flat request body. No client-side validation is done; the
// service decides which fields are required.
type Payload map[string]any

// With returns a copy of the payload with key set.
func (p Payload) With(key string, value any) Payload {
	out := maps.Clone(p)
	if out == nil {
		out = Payload{}
	}

	out[key] = value

	return out
}

// Without returns a copy of the payload with key removed.
func (p Payload) Without(key string) Payload {
	out := maps.Clone(p)
	delete(out, key)

	return out
}

// Merge returns a copy of the payload with every key in other applied.
func (p Payload) Merge(other Payload) Payload {
	out := maps.Clone(p)
	if out == nil {
		out = Payload{}
	}

	maps.Copy(out, other)

	return out
}

// UserPayload returns a valid user. The email is unique per call because the
// service rejects duplicates with 409.
func UserPayload() Payload {
	return Payload{
		"first_name": "John",
		"last_name":  "Doe",
		"email":      fmt.Sprintf("johndoe+%s@example.com", GenerateTestID()),
		"phone":      "9876543210",
	}
}

func HotelPayload() Payload {
	return Payload{
		"name":    "Sunrise Inn",
		"address": "123 Sunrise Blvd",
		"city":    "Sunnytown",
		"state":   "CA",
		"country": "Sunnyland",
		"zipcode": "12345",
		"rating":  5,
	}
}

func RoomPayload(hotelID int64) Payload {
	return Payload{
		"room_number":     "505",
		"room_type":       "Deluxe",
		"price_per_night": 180.0,
		"hotel_id":        hotelID,
		"amenities":       []string{"Wi-Fi", "Air Conditioning", "TV", "Mini Bar", "Balcony"},
	}
}

const (
	DefaultCheckInDate  = "2025-04-10"
	DefaultCheckOutDate = "2025-04-12"
)

func BookingPayload(userID, hotelID, roomID int64) Payload {
	return Payload{
		"userId":         userID,
		"hotelId":        hotelID,
		"roomId":         roomID,
		"check_in_date":  DefaultCheckInDate,
		"check_out_date": DefaultCheckOutDate,
	}
}
