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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"

	"github.com/rs/zerolog"
)

// SetupError is returned when a fixture step could not create its entity.
// It is an environment problem, so dependent specs are skipped rather than failed.
type SetupError struct {
	Step       Role
	StatusCode int
	Body       string
	Err        error
}

func (e *SetupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("setup step %s failed with status %d: %s", e.Step, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("setup step %s failed: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Entity is a created record, addressed by role and identifier.
type Entity struct {
	Role Role
	ID   int64
}

type setupOptions struct {
	withBooking bool
	user        Payload
	hotel       Payload
	room        Payload
}

type SetupOption func(*setupOptions)

// WithBooking extends the chain with a booking referencing the user, hotel and room.
func WithBooking() SetupOption {
	return func(o *setupOptions) {
		o.withBooking = true
	}
}

// WithUserPayload overrides fields of the default user.
func WithUserPayload(p Payload) SetupOption {
	return func(o *setupOptions) {
		o.user = o.user.Merge(p)
	}
}

func WithHotelPayload(p Payload) SetupOption {
	return func(o *setupOptions) {
		o.hotel = o.hotel.Merge(p)
	}
}

// WithRoomPayload overrides room fields; hotel_id is always taken from the context.
func WithRoomPayload(p Payload) SetupOption {
	return func(o *setupOptions) {
		o.room = o.room.Merge(p)
	}
}

type step struct {
	role    Role
	path    string
	payload func() (Payload, error)
}

// FixtureChain creates user, hotel, room and optionally booking in dependency
// order, and deletes whatever it created in reverse.
type FixtureChain struct {
	client  *APIClient
	context *TestContext
	shapes  *ShapeRegistry
	log     zerolog.Logger
	created []Entity
}

func NewFixtureChain(client *APIClient, tc *TestContext, shapes *ShapeRegistry) *FixtureChain {
	return &FixtureChain{
		client:  client,
		context: tc,
		shapes:  shapes,
		log:     client.Logger(),
	}
}

// Created returns the entities in creation order.
func (f *FixtureChain) Created() []Entity {
	out := make([]Entity, len(f.created))
	copy(out, f.created)

	return out
}

// Track records an entity for deletion with the rest of the chain. Specs use
// it for entities they create themselves; the test context is left untouched.
func (f *FixtureChain) Track(role Role, id int64) {
	f.created = append(f.created, Entity{Role: role, ID: id})
}

func (f *FixtureChain) steps(o *setupOptions) []step {
	endpoints := f.client.Endpoints()

	steps := []step{
		{
			role: RoleUser,
			path: endpoints.CreateUser(),
			payload: func() (Payload, error) {
				return o.user, nil
			},
		},
		{
			role: RoleHotel,
			path: endpoints.CreateHotel(),
			payload: func() (Payload, error) {
				return o.hotel, nil
			},
		},
		{
			role: RoleRoom,
			path: endpoints.CreateRoom(),
			payload: func() (Payload, error) {
				hotelID, err := f.context.Get(RoleHotel)
				if err != nil {
					return nil, err
				}

				return o.room.With("hotel_id", hotelID), nil
			},
		},
	}

	if o.withBooking {
		steps = append(steps, step{
			role: RoleBooking,
			path: endpoints.CreateBooking(),
			payload: func() (Payload, error) {
				if err := f.context.Require(RoleUser, RoleHotel, RoleRoom); err != nil {
					return nil, err
				}

				return BookingPayload(f.context.MustGet(RoleUser), f.context.MustGet(RoleHotel), f.context.MustGet(RoleRoom)), nil
			},
		})
	}

	return steps
}

// Setup runs each step once, in order, feeding identifiers forward through the
// test context. The first failure stops the chain and is returned as a
// *SetupError; entities created before it remain tracked for Teardown.
func (f *FixtureChain) Setup(ctx context.Context, opts ...SetupOption) error {
	o := &setupOptions{
		user:  UserPayload(),
		hotel: HotelPayload(),
		room:  RoomPayload(0).Without("hotel_id"),
	}

	for _, opt := range opts {
		opt(o)
	}

	for _, s := range f.steps(o) {
		payload, err := s.payload()
		if err != nil {
			return &SetupError{Step: s.role, Err: err}
		}

		f.log.Info().Str("step", string(s.role)).Msg("[Setup] creating fixture")

		resp, err := f.client.Do(ctx, http.MethodPost, s.path, payload)
		if err != nil {
			f.log.Error().Err(err).Str("step", string(s.role)).Msg("[Setup] request failed")
			return &SetupError{Step: s.role, Err: err}
		}

		if !resp.IsSuccess() {
			f.log.Error().Str("step", string(s.role)).Int("status", resp.StatusCode).Bytes("body", resp.Body).Msg("[Setup] unexpected status")

			return &SetupError{
				Step:       s.role,
				StatusCode: resp.StatusCode,
				Body:       string(resp.Body),
				Err:        CheckStatus(resp, http.StatusCreated),
			}
		}

		id, err := ExtractID(resp, f.shapes.Shape(CreateOperation(s.role)))
		if err != nil {
			return &SetupError{Step: s.role, StatusCode: resp.StatusCode, Body: string(resp.Body), Err: err}
		}

		f.context.Set(s.role, id)
		f.Track(s.role, id)

		f.log.Info().Str("step", string(s.role)).Int64(s.role.Key(), id).Msg("[Setup] fixture created")
	}

	return nil
}

// TeardownOutcome classifies a single cleanup deletion.
type TeardownOutcome string

const (
	TeardownDeleted TeardownOutcome = "deleted"
	TeardownGone    TeardownOutcome = "gone"
	TeardownFailed  TeardownOutcome = "failed"
)

type TeardownItem struct {
	Entity
	Path       string
	StatusCode int
	Outcome    TeardownOutcome
	Err        error
}

// TeardownReport lists every attempted deletion in the order attempted.
type TeardownReport struct {
	Items []TeardownItem
}

func (r TeardownReport) Order() []Role {
	roles := make([]Role, len(r.Items))
	for i, item := range r.Items {
		roles[i] = item.Role
	}

	return roles
}

func (r TeardownReport) Failed() []TeardownItem {
	var failed []TeardownItem

	for _, item := range r.Items {
		if item.Outcome == TeardownFailed {
			failed = append(failed, item)
		}
	}

	return failed
}

// Teardown deletes every tracked entity in reverse creation order. Each
// deletion is attempted exactly once and failures are only logged, so one
// missing entity never prevents cleanup of the others. A 404 means a spec
// already removed the entity. Calling Teardown again repeats the same list.
func (f *FixtureChain) Teardown(ctx context.Context) TeardownReport {
	report := TeardownReport{
		Items: make([]TeardownItem, 0, len(f.created)),
	}

	f.log.Info().Int("entities", len(f.created)).Msg("[Teardown] deleting fixtures")

	for i := len(f.created) - 1; i >= 0; i-- {
		entity := f.created[i]

		item := TeardownItem{
			Entity: entity,
			Path:   f.client.Endpoints().ResourcePath(entity.Role, entity.ID),
		}

		resp, err := f.client.DeleteResource(ctx, entity.Role, entity.ID)

		switch {
		case err != nil:
			item.Outcome = TeardownFailed
			item.Err = err
		case resp.StatusCode == http.StatusNotFound:
			item.StatusCode = resp.StatusCode
			item.Outcome = TeardownGone
		case resp.IsSuccess():
			item.StatusCode = resp.StatusCode
			item.Outcome = TeardownDeleted
		default:
			item.StatusCode = resp.StatusCode
			item.Outcome = TeardownFailed
			item.Err = CheckStatus(resp, http.StatusOK, http.StatusNoContent, http.StatusNotFound)
		}

		if item.Outcome == TeardownFailed {
			f.log.Warn().Err(item.Err).Str("role", string(entity.Role)).Int64("id", entity.ID).Msg("[Teardown] failed to delete fixture")
		} else {
			f.log.Info().Str("role", string(entity.Role)).Int64("id", entity.ID).Str("outcome", string(item.Outcome)).Msg("[Teardown] fixture removed")
		}

		report.Items = append(report.Items, item)
	}

	return report
}

// SetupChain runs the fixture chain for an ordered container. Cleanup is
// registered before setup so a partially built chain is still torn down, and
// a setup failure skips the container instead of failing it.
func SetupChain(ctx context.Context, client *APIClient, tc *TestContext, shapes *ShapeRegistry, opts ...SetupOption) *FixtureChain {
	return setupChain(ctx, client, tc, shapes, chainHooks{
		cleanup: func(fn func()) { DeferCleanup(fn) },
		skip:    func(message string) { Skip(message) },
	}, opts...)
}

// chainHooks are the Ginkgo calls SetupChain depends on.
type chainHooks struct {
	cleanup func(func())
	skip    func(string)
}

func setupChain(ctx context.Context, client *APIClient, tc *TestContext, shapes *ShapeRegistry, hooks chainHooks, opts ...SetupOption) *FixtureChain {
	chain := NewFixtureChain(client, tc, shapes)

	hooks.cleanup(func() {
		report := chain.Teardown(context.Background())

		for _, item := range report.Failed() {
			GinkgoWriter.Printf("Warning: failed to delete %s %d: %v\n", item.Role, item.ID, item.Err)
		}
	})

	if err := chain.Setup(ctx, opts...); err != nil {
		var setupErr *SetupError
		if errors.As(err, &setupErr) {
			GinkgoWriter.Printf("Fixture setup failed at %s (status=%d): %s\n", setupErr.Step, setupErr.StatusCode, setupErr.Body)
		}

		hooks.skip(fmt.Sprintf("fixture setup failed: %v", err))
	}

	return chain
}

// RequireRoles skips the current spec unless every role is present in the context.
func RequireRoles(tc *TestContext, roles ...Role) {
	if err := tc.Require(roles...); err != nil {
		Skip(err.Error())
	}
}
