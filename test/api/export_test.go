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

package api

import "context"

// SetupChainWithHooks runs SetupChain with cleanup and skip captured by the caller.
func SetupChainWithHooks(ctx context.Context, client *APIClient, tc *TestContext, shapes *ShapeRegistry, cleanup func(func()), skip func(string), opts ...SetupOption) *FixtureChain {
	return setupChain(ctx, client, tc, shapes, chainHooks{cleanup: cleanup, skip: skip}, opts...)
}
