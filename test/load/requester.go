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

	"github.com/hotelbooking/booking-api-tests/test/api"
)

//go:generate mockgen -source=requester.go -destination=mock/interfaces.go -package=mock

// Requester issues a single request; *api.APIClient satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, body any) (*api.Response, error)
}
