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
	"errors"
	"fmt"
	"strings"
)

// Role names an entity created by the fixture chain.
type Role string

const (
	RoleUser    Role = "user"
	RoleHotel   Role = "hotel"
	RoleRoom    Role = "room"
	RoleBooking Role = "booking"
)

// Key is the context key as it appears in logs, e.g. "hotel_id".
func (r Role) Key() string {
	return string(r) + "_id"
}

var ErrMissingDependency = errors.New("missing dependency")

// TestContext maps entity roles to the identifiers the API assigned them.
// One instance is shared by the ordered specs of a single container. It is
// not safe for concurrent use.
type TestContext struct {
	ids   map[Role]int64
	order []Role
}

func NewTestContext() *TestContext {
	return &TestContext{
		ids: map[Role]int64{},
	}
}

func (c *TestContext) Set(role Role, id int64) {
	if _, ok := c.ids[role]; !ok {
		c.order = append(c.order, role)
	}

	c.ids[role] = id
}

// Get returns the identifier for role, or ErrMissingDependency if it was never set.
func (c *TestContext) Get(role Role) (int64, error) {
	id, ok := c.ids[role]
	if !ok {
		return 0, fmt.Errorf("%w: %s not set", ErrMissingDependency, role.Key())
	}

	return id, nil
}

func (c *TestContext) Has(role Role) bool {
	_, ok := c.ids[role]
	return ok
}

func (c *TestContext) Delete(role Role) {
	if _, ok := c.ids[role]; !ok {
		return
	}

	delete(c.ids, role)

	for i, r := range c.order {
		if r == role {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Roles returns the roles currently set, in the order they were first set.
func (c *TestContext) Roles() []Role {
	out := make([]Role, len(c.order))
	copy(out, c.order)

	return out
}

// Require checks all roles at once so the error names every missing dependency.
func (c *TestContext) Require(roles ...Role) error {
	var missing []string

	for _, role := range roles {
		if !c.Has(role) {
			missing = append(missing, role.Key())
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDependency, strings.Join(missing, ", "))
	}

	return nil
}

// MustGet is for use after Require has succeeded.
func (c *TestContext) MustGet(role Role) int64 {
	id, err := c.Get(role)
	if err != nil {
		panic(err)
	}

	return id
}
