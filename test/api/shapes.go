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
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Shape is the documented layout of a response body.
//
// The booking service is not consistent: single entities come back bare while
// list endpoints wrap their items in {"data": [...]}. The shape for each
// operation is recorded explicitly in a ShapeRegistry rather than guessed from
// the body, so a change on the service side shows up as a failure.
type Shape int

const (
	// ShapeObject is a bare entity: {"id": 1, ...}.
	ShapeObject Shape = iota
	// ShapeEnvelopedObject is an entity wrapped in data: {"data": {"id": 1, ...}}.
	ShapeEnvelopedObject
	// ShapeEnvelope is a list wrapped in data: {"data": [...]}.
	ShapeEnvelope
	// ShapeBareList is a JSON array: [...].
	ShapeBareList
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeEnvelopedObject:
		return "enveloped-object"
	case ShapeEnvelope:
		return "envelope"
	case ShapeBareList:
		return "bare-list"
	}

	return fmt.Sprintf("shape(%d)", int(s))
}

// IsList reports whether the shape carries a collection.
func (s Shape) IsList() bool {
	return s == ShapeEnvelope || s == ShapeBareList
}

// Operation names an API call for shape lookup.
type Operation string

const (
	OpListUsers  Operation = "ListUsers"
	OpGetUser    Operation = "GetUser"
	OpCreateUser Operation = "CreateUser"
	OpUpdateUser Operation = "UpdateUser"

	OpListHotels  Operation = "ListHotels"
	OpGetHotel    Operation = "GetHotel"
	OpCreateHotel Operation = "CreateHotel"
	OpUpdateHotel Operation = "UpdateHotel"

	OpListRooms          Operation = "ListRooms"
	OpGetRoom            Operation = "GetRoom"
	OpCreateRoom         Operation = "CreateRoom"
	OpUpdateRoom         Operation = "UpdateRoom"
	OpListRoomsByHotel   Operation = "ListRoomsByHotel"
	OpListAvailableRooms Operation = "ListAvailableRooms"

	OpListBookings       Operation = "ListBookings"
	OpGetBooking         Operation = "GetBooking"
	OpCreateBooking      Operation = "CreateBooking"
	OpListBookingsByUser Operation = "ListBookingsByUser"
)

var entityOperations = []Operation{
	OpGetUser, OpCreateUser, OpUpdateUser,
	OpGetHotel, OpCreateHotel, OpUpdateHotel,
	OpGetRoom, OpCreateRoom, OpUpdateRoom,
	OpGetBooking, OpCreateBooking,
}

var listOperations = []Operation{
	OpListUsers, OpListHotels, OpListRooms, OpListRoomsByHotel,
	OpListAvailableRooms, OpListBookings, OpListBookingsByUser,
}

// CreateOperation maps a fixture role to the operation that creates it.
func CreateOperation(role Role) Operation {
	switch role {
	case RoleUser:
		return OpCreateUser
	case RoleHotel:
		return OpCreateHotel
	case RoleRoom:
		return OpCreateRoom
	case RoleBooking:
		return OpCreateBooking
	}

	return Operation("Create" + string(role))
}

// ShapeRegistry records the documented response shape of each operation.
type ShapeRegistry struct {
	shapes map[Operation]Shape
}

// DefaultShapeRegistry documents entity operations as bare objects and list
// operations as envelopes.
func DefaultShapeRegistry() *ShapeRegistry {
	r := &ShapeRegistry{
		shapes: map[Operation]Shape{},
	}

	for _, op := range entityOperations {
		r.shapes[op] = ShapeObject
	}

	for _, op := range listOperations {
		r.shapes[op] = ShapeEnvelope
	}

	return r
}

// ShapeRegistryFor applies configuration overrides to the default registry.
func ShapeRegistryFor(config *TestConfig) *ShapeRegistry {
	r := DefaultShapeRegistry()

	if config.EntityEnvelope {
		for _, op := range entityOperations {
			r.shapes[op] = ShapeEnvelopedObject
		}
	}

	return r
}

// Override changes the documented shape of one operation.
func (r *ShapeRegistry) Override(op Operation, shape Shape) *ShapeRegistry {
	r.shapes[op] = shape
	return r
}

// Shape returns the documented shape, defaulting to ShapeObject.
func (r *ShapeRegistry) Shape(op Operation) Shape {
	if shape, ok := r.shapes[op]; ok {
		return shape
	}

	return ShapeObject
}

var ErrShapeMismatch = errors.New("response shape mismatch")

func shapeError(resp *Response, shape Shape, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s (%s): %s", ErrShapeMismatch, resp.Method, resp.Path, shape, fmt.Sprintf(format, args...))
}

// DecodeEntity returns the entity object carried by the response.
func DecodeEntity(resp *Response, shape Shape) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, shapeError(resp, shape, "body is not JSON: %v", err)
	}

	object, ok := raw.(map[string]any)
	if !ok {
		return nil, shapeError(resp, shape, "body is %T, not an object", raw)
	}

	switch shape {
	case ShapeObject:
		return object, nil
	case ShapeEnvelopedObject:
		data, ok := object["data"]
		if !ok {
			return nil, shapeError(resp, shape, "missing data key")
		}

		entity, ok := data.(map[string]any)
		if !ok {
			return nil, shapeError(resp, shape, "data is %T, not an object", data)
		}

		return entity, nil
	case ShapeEnvelope, ShapeBareList:
	}

	return nil, shapeError(resp, shape, "not an entity shape")
}

// DecodeList returns the items carried by the response.
func DecodeList(resp *Response, shape Shape) ([]map[string]any, error) {
	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, shapeError(resp, shape, "body is not JSON: %v", err)
	}

	var items any

	switch shape {
	case ShapeEnvelope:
		object, ok := raw.(map[string]any)
		if !ok {
			return nil, shapeError(resp, shape, "body is %T, not an object", raw)
		}

		data, ok := object["data"]
		if !ok {
			return nil, shapeError(resp, shape, "missing data key")
		}

		items = data
	case ShapeBareList:
		items = raw
	case ShapeObject, ShapeEnvelopedObject:
		return nil, shapeError(resp, shape, "not a list shape")
	}

	list, ok := items.([]any)
	if !ok {
		return nil, shapeError(resp, shape, "items are %T, not a list", items)
	}

	out := make([]map[string]any, 0, len(list))

	for i, item := range list {
		object, ok := item.(map[string]any)
		if !ok {
			return nil, shapeError(resp, shape, "item %d is %T, not an object", i, item)
		}

		out = append(out, object)
	}

	return out, nil
}

// IDOf converts a decoded JSON id to an integer.
func IDOf(entity map[string]any) (int64, error) {
	value, ok := entity["id"]
	if !ok {
		return 0, fmt.Errorf("%w: missing id", ErrShapeMismatch)
	}

	number, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: id is %T, not a number", ErrShapeMismatch, value)
	}

	if number != math.Trunc(number) || number <= 0 {
		return 0, fmt.Errorf("%w: id %v is not a positive integer", ErrShapeMismatch, number)
	}

	return int64(number), nil
}

// ExtractID returns the identifier of the entity carried by the response.
func ExtractID(resp *Response, shape Shape) (int64, error) {
	entity, err := DecodeEntity(resp, shape)
	if err != nil {
		return 0, err
	}

	id, err := IDOf(entity)
	if err != nil {
		return 0, shapeError(resp, shape, "%v", err)
	}

	return id, nil
}
