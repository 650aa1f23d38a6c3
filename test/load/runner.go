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

package load

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hotelbooking/booking-api-tests/pkg/observability"
)

const harnessName = "load"

// Runner drives virtual users against a Requester. Users pick a template by
// weight, issue it once, then think for a random interval. They share nothing
// but the result collector, and no request is ever retried.
type Runner struct {
	requester Requester
	templates []Template
	config    Config
	log       zerolog.Logger
	metrics   *observability.Metrics
	limiter   *rate.Limiter
	total     int
}

type Option func(*Runner)

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

func NewRunner(requester Requester, templates []Template, config Config, opts ...Option) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := validateTemplates(templates); err != nil {
		return nil, err
	}

	r := &Runner{
		requester: requester,
		templates: templates,
		config:    config,
		log:       zerolog.Nop(),
	}

	for _, t := range templates {
		r.total += t.Weight
	}

	if config.MaxRPS > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.MaxRPS), 1)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run blocks until the configured duration elapses or ctx is cancelled; either
// way the requests completed so far are reported. Requests still in flight at
// the end are abandoned and not counted.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Duration)
	defer cancel()

	c := &collector{}
	start := time.Now()

	var spawnInterval time.Duration
	if r.config.SpawnRate > 0 {
		spawnInterval = time.Duration(float64(time.Second) / r.config.SpawnRate)
	}

	r.log.Info().Int("users", r.config.Users).Float64("spawn_rate", r.config.SpawnRate).Dur("duration", r.config.Duration).Msg("starting load run")

	group, groupCtx := errgroup.WithContext(ctx)

	for i := range r.config.Users {
		if i > 0 && !sleep(groupCtx, spawnInterval) {
			break
		}

		rng := rand.New(rand.NewPCG(uint64(i), uint64(time.Now().UnixNano())))

		group.Go(func() error {
			r.user(groupCtx, i, rng, c)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := c.result(r.templates, time.Since(start))

	r.log.Info().Int("requests", result.Requests).Int("failures", result.Failures).Float64("rps", result.Throughput).Msg("load run finished")

	return result, nil
}

func (r *Runner) user(ctx context.Context, id int, rng *rand.Rand, c *collector) {
	log := r.log.With().Int("user", id).Logger()

	log.Debug().Msg("virtual user started")

	for ctx.Err() == nil {
		t := r.pick(rng)

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return
			}
		}

		r.issue(ctx, log, t, c)

		if !sleep(ctx, r.think(rng)) {
			return
		}
	}
}

func (r *Runner) pick(rng *rand.Rand) Template {
	n := rng.IntN(r.total)

	for _, t := range r.templates {
		if n < t.Weight {
			return t
		}

		n -= t.Weight
	}

	return r.templates[len(r.templates)-1]
}

func (r *Runner) think(rng *rand.Rand) time.Duration {
	spread := r.config.MaxWait - r.config.MinWait
	if spread <= 0 {
		return r.config.MinWait
	}

	return r.config.MinWait + time.Duration(rng.Int64N(int64(spread)+1))
}

func (r *Runner) issue(ctx context.Context, log zerolog.Logger, t Template, c *collector) {
	var body any
	if t.Body != nil {
		body = t.Body()
	}

	start := time.Now()
	resp, err := r.requester.Do(ctx, t.Method, t.Path, body)
	latency := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return
		}

		log.Warn().Err(err).Str("template", t.Name).Msg("request failed")

		c.add(sample{template: t.Name, latency: latency, failed: true})
		r.metrics.ObserveRequest(harnessName, t.Name, t.Method, 0, latency)
		r.metrics.ObserveFailure(harnessName, t.Name, observability.LabelErr(err))

		return
	}

	failed := resp.StatusCode >= 400

	c.add(sample{template: t.Name, status: resp.StatusCode, latency: latency, failed: failed})
	r.metrics.ObserveRequest(harnessName, t.Name, t.Method, resp.StatusCode, latency)

	if failed {
		r.metrics.ObserveFailure(harnessName, t.Name, "status")
		log.Debug().Str("template", t.Name).Int("status", resp.StatusCode).Str("trace_id", resp.TraceID).Msg("request rejected")
	}
}

// sleep waits for d, returning false if ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
