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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/hotelbooking/booking-api-tests/pkg/constants"
	"github.com/hotelbooking/booking-api-tests/pkg/observability"
	"github.com/hotelbooking/booking-api-tests/test/api"
	"github.com/hotelbooking/booking-api-tests/test/perf"
)

func main() {
	var observabilityOptions observability.Options

	config := api.LoadEnvConfig()

	targets := perf.DefaultTargets()

	observabilityOptions.AddFlags(pflag.CommandLine)
	config.AddFlags(pflag.CommandLine)
	targets.AddFlags(pflag.CommandLine)

	pflag.Parse()

	if err := config.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := observabilityOptions.Logger(os.Stderr)
	logger.Info().Str("application", constants.Application).Str("version", constants.Version).Str("revision", constants.Revision).Msg("performance checks starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(constants.MetricsNamespace)
	observabilityOptions.StartMetrics(ctx, metrics, logger)

	client := api.NewAPIClientWithConfig(config, api.WithLogger(logger))

	runner := perf.NewRunner(client,
		perf.WithCeiling(config.MaxResponseTime),
		perf.WithOutput(os.Stdout),
		perf.WithLogger(logger),
		perf.WithMetrics(metrics),
	)

	report := runner.Run(ctx, perf.ChecksFor(targets))

	if failures := report.Failures(); len(failures) > 0 {
		fmt.Printf("%d of %d checks failed\n", len(failures), len(report.Measurements))
		os.Exit(1)
	}

	fmt.Printf("all %d checks passed\n", len(report.Measurements))
}
