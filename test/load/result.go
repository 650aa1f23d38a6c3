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
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"
)

type LatencyStats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
}

type TemplateStats struct {
	Requests int
	Failures int
}

// Result summarises a run. A request fails when no response arrived or the
// status was 400 or above.
type Result struct {
	Elapsed         time.Duration
	Requests        int
	Failures        int
	TransportErrors int
	Templates       map[string]TemplateStats
	Statuses        map[int]int
	Latency         LatencyStats
	// Throughput is completed requests per second of elapsed time.
	Throughput float64
}

func (r *Result) FailureRate() float64 {
	if r.Requests == 0 {
		return 0
	}

	return float64(r.Failures) / float64(r.Requests)
}

// TemplateNames returns the template names in a stable order for reporting.
func (r *Result) TemplateNames() []string {
	return slices.Sorted(maps.Keys(r.Templates))
}

// StatusCodes returns the observed status codes in ascending order.
func (r *Result) StatusCodes() []int {
	return slices.Sorted(maps.Keys(r.Statuses))
}

// WriteSummary prints the totals, latency distribution and per template counts.
func (r *Result) WriteSummary(w io.Writer) error {
	ms := func(d time.Duration) float64 {
		return float64(d) / float64(time.Millisecond)
	}

	lines := []string{
		fmt.Sprintf("elapsed %s, %d requests, %d failures (%.1f%%), %d transport errors, %.2f req/s",
			r.Elapsed.Round(time.Millisecond), r.Requests, r.Failures, 100*r.FailureRate(), r.TransportErrors, r.Throughput),
		fmt.Sprintf("latency ms: min %.1f, mean %.1f, p50 %.1f, p95 %.1f, p99 %.1f, max %.1f",
			ms(r.Latency.Min), ms(r.Latency.Mean), ms(r.Latency.P50), ms(r.Latency.P95), ms(r.Latency.P99), ms(r.Latency.Max)),
	}

	for _, name := range r.TemplateNames() {
		stats := r.Templates[name]
		lines = append(lines, fmt.Sprintf("  %-16s %6d requests %6d failures", name, stats.Requests, stats.Failures))
	}

	for _, code := range r.StatusCodes() {
		lines = append(lines, fmt.Sprintf("  status %d: %d", code, r.Statuses[code]))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

type sample struct {
	template string
	status   int
	latency  time.Duration
	failed   bool
}

// collector is the only state virtual users share.
type collector struct {
	lock    sync.Mutex
	samples []sample
}

func (c *collector) add(s sample) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.samples = append(c.samples, s)
}

func (c *collector) result(templates []Template, elapsed time.Duration) *Result {
	c.lock.Lock()
	defer c.lock.Unlock()

	result := &Result{
		Elapsed:   elapsed,
		Requests:  len(c.samples),
		Templates: make(map[string]TemplateStats, len(templates)),
		Statuses:  map[int]int{},
	}

	for _, t := range templates {
		result.Templates[t.Name] = TemplateStats{}
	}

	latencies := make([]time.Duration, 0, len(c.samples))

	for _, s := range c.samples {
		stats := result.Templates[s.template]
		stats.Requests++

		if s.failed {
			stats.Failures++
			result.Failures++
		}

		result.Templates[s.template] = stats

		if s.status == 0 {
			result.TransportErrors++
		} else {
			result.Statuses[s.status]++
		}

		latencies = append(latencies, s.latency)
	}

	result.Latency = latencyStats(latencies)

	if elapsed > 0 {
		result.Throughput = float64(result.Requests) / elapsed.Seconds()
	}

	return result
}

// latencyStats uses nearest-rank percentiles.
func latencyStats(latencies []time.Duration) LatencyStats {
	if len(latencies) == 0 {
		return LatencyStats{}
	}

	slices.SortFunc(latencies, cmp.Compare[time.Duration])

	var total time.Duration
	for _, l := range latencies {
		total += l
	}

	return LatencyStats{
		Min:  latencies[0],
		Max:  latencies[len(latencies)-1],
		Mean: total / time.Duration(len(latencies)),
		P50:  percentile(latencies, 0.50),
		P95:  percentile(latencies, 0.95),
		P99:  percentile(latencies, 0.99),
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
