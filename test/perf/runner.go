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

package perf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/booking-api-tests/pkg/observability"
	"github.com/hotelbooking/booking-api-tests/test/api"
)

const harnessName = "perf"

var (
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrSlowResponse      = errors.New("response slower than the ceiling")
)

// Requester issues a single request; *api.APIClient satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, body any) (*api.Response, error)
}

// Measurement is the outcome of one check. Err is nil when the check passed.
type Measurement struct {
	Check      Check
	StatusCode int
	Duration   time.Duration
	Response   *api.Response
	Err        error
}

func (m Measurement) Passed() bool {
	return m.Err == nil
}

// String renders the measurement as "[METHOD] path → status in 0.123s".
func (m Measurement) String() string {
	return fmt.Sprintf("[%s] %s → %d in %.3fs", m.Check.Method, m.Check.Path, m.StatusCode, m.Duration.Seconds())
}

type Report struct {
	Measurements []Measurement
}

func (r Report) Passed() bool {
	return len(r.Failures()) == 0
}

func (r Report) Failures() []Measurement {
	var failed []Measurement

	for _, m := range r.Measurements {
		if !m.Passed() {
			failed = append(failed, m)
		}
	}

	return failed
}

// Runner executes checks one after another against a response time ceiling.
// The ceiling is judged after the request completes; it never cancels one.
type Runner struct {
	requester Requester
	ceiling   time.Duration
	out       io.Writer
	log       zerolog.Logger
	metrics   *observability.Metrics
}

type Option func(*Runner)

// WithCeiling overrides api.DefaultMaxResponseTime.
func WithCeiling(d time.Duration) Option {
	return func(r *Runner) {
		r.ceiling = d
	}
}

// WithOutput prints one line per measurement to w.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func NewRunner(requester Requester, opts ...Option) *Runner {
	r := &Runner{
		requester: requester,
		ceiling:   api.DefaultMaxResponseTime,
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Measure runs one check. Only GET and POST are supported; anything else
// fails before a request is sent.
func (r *Runner) Measure(ctx context.Context, check Check) Measurement {
	m := Measurement{Check: check}

	if check.Method != http.MethodGet && check.Method != http.MethodPost {
		m.Err = fmt.Errorf("%w: %s", ErrUnsupportedMethod, check.Method)
		r.metrics.ObserveFailure(harnessName, check.Name, "method")

		return m
	}

	var body any
	if check.Method == http.MethodPost {
		body = check.Body
	}

	start := time.Now()
	resp, err := r.requester.Do(ctx, check.Method, check.Path, body)
	m.Duration = time.Since(start)

	if err != nil {
		m.Err = err
		r.metrics.ObserveRequest(harnessName, check.Name, check.Method, 0, m.Duration)
		r.metrics.ObserveFailure(harnessName, check.Name, observability.LabelErr(err))
		r.log.Error().Err(err).Str("check", check.Name).Msg("request failed")

		return m
	}

	m.StatusCode = resp.StatusCode
	m.Response = resp

	r.metrics.ObserveRequest(harnessName, check.Name, check.Method, resp.StatusCode, m.Duration)

	switch {
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		m.Err = api.CheckStatus(resp, http.StatusOK, http.StatusCreated)
		r.metrics.ObserveFailure(harnessName, check.Name, "status")
	case m.Duration > r.ceiling:
		m.Err = fmt.Errorf("%w: %s %s took %.3fs, ceiling %.3fs", ErrSlowResponse, check.Method, check.Path, m.Duration.Seconds(), r.ceiling.Seconds())
		r.metrics.ObserveFailure(harnessName, check.Name, "slow")
	}

	if m.Err != nil {
		r.log.Warn().Err(m.Err).Str("check", check.Name).Str("trace_id", resp.TraceID).Msg("check failed")
	}

	return m
}

// Run measures every check in order. A failing check does not stop the rest.
func (r *Runner) Run(ctx context.Context, checks []Check) Report {
	report := Report{
		Measurements: make([]Measurement, 0, len(checks)),
	}

	for _, check := range checks {
		m := r.Measure(ctx, check)

		if r.out != nil {
			fmt.Fprintln(r.out, m.String())
		}

		report.Measurements = append(report.Measurements, m)
	}

	return report
}
