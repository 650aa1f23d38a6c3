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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/hotelbooking/booking-api-tests/pkg/constants"
	"github.com/hotelbooking/booking-api-tests/pkg/observability"
	"github.com/hotelbooking/booking-api-tests/test/fakeapi"
)

func main() {
	var (
		observabilityOptions observability.Options
		stubOptions          fakeapi.Options
		listen               string
	)

	observabilityOptions.AddFlags(pflag.CommandLine)
	stubOptions.AddFlags(pflag.CommandLine)
	pflag.StringVar(&listen, "listen", ":3000", "Address to serve the API on")

	pflag.Parse()

	logger := observabilityOptions.Logger(os.Stderr)
	logger.Info().Str("application", constants.Application).Str("version", constants.Version).Str("revision", constants.Revision).Msg("service starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(constants.MetricsNamespace)
	observabilityOptions.StartMetrics(ctx, metrics, logger)

	stubOptions.Logger = logger
	stubOptions.Metrics = metrics

	server := &http.Server{
		Addr:              listen,
		Handler:           fakeapi.New(stubOptions).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", listen).Bool("entity_envelope", stubOptions.EntityEnvelope).Msg("serving booking API stub")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Println(err)
		os.Exit(1)
	}
}
