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

// Package load simulates concurrent users issuing a weighted mix of API requests.
package load

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/pflag"

	"github.com/hotelbooking/booking-api-tests/test/api"
)

// Template is one kind of request a virtual user may issue. Body is
// evaluated per request so payloads can vary; nil sends no body.
type Template struct {
	Name   string
	Method string
	Path   string
	Body   func() any
	Weight int
}

// DefaultTemplates mixes reads and writes, weighted towards bookings.
// The fixed ids assume a seeded database.
func DefaultTemplates() []Template {
	return []Template{
		{
			Name:   "get_all_hotels",
			Method: http.MethodGet,
			Path:   "/hotels",
			Weight: 1,
		},
		{
			Name:   "create_hotel",
			Method: http.MethodPost,
			Path:   "/hotels",
			Body: func() any {
				return api.Payload{
					"name":    "Test Hotel",
					"address": "Test Address",
					"city":    "Test City",
					"country": "Test Country",
					"rating":  4,
				}
			},
			Weight: 2,
		},
		{
			Name:   "get_user",
			Method: http.MethodGet,
			Path:   "/users/1",
			Weight: 3,
		},
		{
			Name:   "create_user",
			Method: http.MethodPost,
			Path:   "/users",
			Body: func() any {
				return api.UserPayload().With("phone", "1234567890")
			},
			Weight: 4,
		},
		{
			Name:   "create_booking",
			Method: http.MethodPost,
			Path:   "/bookings",
			Body: func() any {
				return api.Payload{
					"user_id":        1,
					"room_id":        1,
					"check_in_date":  "2025-04-12",
					"check_out_date": "2025-04-15",
				}
			},
			Weight: 5,
		},
	}
}

// Config shapes the simulated traffic.
type Config struct {
	// Users is the number of concurrent virtual users.
	Users int
	// SpawnRate is how many users start per second; zero starts all at once.
	SpawnRate float64
	// Duration bounds the whole run.
	Duration time.Duration
	// MinWait and MaxWait bound the uniform think time between a user's requests.
	MinWait time.Duration
	MaxWait time.Duration
	// MaxRPS caps the combined request rate; zero is unlimited.
	MaxRPS float64
}

func DefaultConfig() Config {
	return Config{
		Users:     10,
		SpawnRate: 1,
		Duration:  time.Minute,
		MinWait:   time.Second,
		MaxWait:   5 * time.Second,
	}
}

// AddFlags binds the configuration to command line flags, using the
// current values as defaults.
func (c *Config) AddFlags(f *pflag.FlagSet) {
	f.IntVar(&c.Users, "users", c.Users, "Number of concurrent virtual users")
	f.Float64Var(&c.SpawnRate, "spawn-rate", c.SpawnRate, "Virtual users started per second, 0 starts all at once")
	f.DurationVar(&c.Duration, "duration", c.Duration, "Length of the run")
	f.DurationVar(&c.MinWait, "min-wait", c.MinWait, "Minimum think time between a user's requests")
	f.DurationVar(&c.MaxWait, "max-wait", c.MaxWait, "Maximum think time between a user's requests")
	f.Float64Var(&c.MaxRPS, "max-rps", c.MaxRPS, "Cap on combined requests per second, 0 is unlimited")
}

var ErrInvalidConfig = errors.New("invalid load configuration")

func (c Config) Validate() error {
	switch {
	case c.Users <= 0:
		return fmt.Errorf("%w: users must be positive", ErrInvalidConfig)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	case c.SpawnRate < 0 || c.MaxRPS < 0:
		return fmt.Errorf("%w: rates must not be negative", ErrInvalidConfig)
	case c.MinWait < 0 || c.MaxWait < c.MinWait:
		return fmt.Errorf("%w: wait bounds must satisfy 0 <= min <= max", ErrInvalidConfig)
	}

	return nil
}

func validateTemplates(templates []Template) error {
	if len(templates) == 0 {
		return fmt.Errorf("%w: no templates", ErrInvalidConfig)
	}

	for _, t := range templates {
		if t.Weight <= 0 {
			return fmt.Errorf("%w: template %s has weight %d", ErrInvalidConfig, t.Name, t.Weight)
		}
	}

	return nil
}
