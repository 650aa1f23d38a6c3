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

package constants

import (
	"os"
	"path"
)

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = path.Base(os.Args[0])

	// Version is the application version set at link time with -ldflags -X.
	//nolint:gochecknoglobals
	Version string

	// Revision is the git revision set at link time with -ldflags -X.
	//nolint:gochecknoglobals
	Revision string
)

// MetricsNamespace prefixes every metric the commands expose.
const MetricsNamespace = "booking"
