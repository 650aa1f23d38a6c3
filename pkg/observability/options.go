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

package observability

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// Options are the logging and metrics flags shared by every command.
type Options struct {
	Debug       bool
	LogFormat   string
	MetricsAddr string
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
	f.StringVar(&o.LogFormat, "log-format", FormatConsole, "Log format, one of console or json")
	f.StringVar(&o.MetricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics on, disabled when empty")
}

func (o *Options) Logger(w io.Writer) zerolog.Logger {
	return NewLogger(w, o.Debug, o.LogFormat)
}

// StartMetrics serves m in the background when a metrics address is set.
// Serving errors are logged, the command carries on without metrics.
func (o *Options) StartMetrics(ctx context.Context, m *Metrics, log zerolog.Logger) {
	if o.MetricsAddr == "" || m == nil {
		return
	}

	go func() {
		if err := Serve(ctx, o.MetricsAddr, m, log); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}
