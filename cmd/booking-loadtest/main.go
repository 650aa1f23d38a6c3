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
	"github.com/hotelbooking/booking-api-tests/test/load"
)

func main() {
	var observabilityOptions observability.Options

	config := api.LoadEnvConfig()

	loadConfig := load.DefaultConfig()

	observabilityOptions.AddFlags(pflag.CommandLine)
	config.AddFlags(pflag.CommandLine)
	loadConfig.AddFlags(pflag.CommandLine)

	pflag.Parse()

	if err := config.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := observabilityOptions.Logger(os.Stderr)
	logger.Info().Str("application", constants.Application).Str("version", constants.Version).Str("revision", constants.Revision).Msg("load test starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(constants.MetricsNamespace)
	observabilityOptions.StartMetrics(ctx, metrics, logger)

	client := api.NewAPIClientWithConfig(config, api.WithLogger(logger))

	runner, err := load.NewRunner(client, load.DefaultTemplates(), loadConfig, load.WithLogger(logger), load.WithMetrics(metrics))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger.Info().Str("base_url", config.BaseURL).Int("users", loadConfig.Users).Dur("duration", loadConfig.Duration).Msg("simulating users")

	result, err := runner.Run(ctx)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := result.WriteSummary(os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
