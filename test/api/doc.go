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

// Package api provides black-box test utilities for the Hotel Booking API.
//
// # Test Context and Fixture Chain
//
// Booking scenarios depend on a user, a hotel and a room existing first. The
// FixtureChain creates them in that order, storing each identifier in a
// TestContext that is passed explicitly to every spec. Specs declare the roles
// they need with RequireRoles, so a spec whose dependency could not be created
// is skipped instead of running against an undefined id.
//
// Teardown deletes tracked entities in reverse creation order. Every deletion
// is attempted once; 404 is expected when a spec already deleted the entity,
// and any other failure is logged without stopping the remaining deletions.
//
// # Response Shapes
//
// The service returns single entities bare and collections wrapped in a
// {"data": [...]} envelope. The ShapeRegistry records which layout each
// operation documents; set ENTITY_ENVELOPE=true when running against a
// deployment that wraps entities as well. Responses are additionally checked
// against the embedded OpenAPI description, and drift is logged so it can be
// raised with the API owner.
//
// # Separate Client Implementation
//
// The APIClient is hand written rather than generated so that it can return
// raw status codes and bodies for any outcome. It sends W3C trace context on
// every request; failures log the trace ID for correlation with service logs.
package api
