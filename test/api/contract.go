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

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi/booking.yaml
var bookingAPIDescription []byte

// contractHost is never contacted; it only gives the router an absolute URL to match.
const contractHost = "http://contract.invalid"

// ContractValidator checks responses against the published API description.
type ContractValidator struct {
	doc    *openapi3.T
	router routers.Router
}

func NewContractValidator() (*ContractValidator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(bookingAPIDescription)
	if err != nil {
		return nil, fmt.Errorf("loading API description: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating API description: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building API router: %w", err)
	}

	return &ContractValidator{
		doc:    doc,
		router: router,
	}, nil
}

// Documents reports whether the description has an operation for method and path.
func (v *ContractValidator) Documents(method, path string) bool {
	req, err := http.NewRequest(method, contractHost+path, nil)
	if err != nil {
		return false
	}

	_, _, err = v.router.FindRoute(req)

	return err == nil
}

// Validate returns an error if the response status is undocumented for the
// operation or the body does not match the documented schema.
func (v *ContractValidator) Validate(ctx context.Context, resp *Response) error {
	req, err := http.NewRequestWithContext(ctx, resp.Method, contractHost+resp.Path, nil)
	if err != nil {
		return fmt.Errorf("building contract request: %w", err)
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("%s %s is not documented: %w", resp.Method, resp.Path, err)
	}

	options := &openapi3filter.Options{
		IncludeResponseStatus: true,
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		},
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Options: options,
	}

	input.SetBodyBytes(resp.Body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%s %s returned %d: %w", resp.Method, resp.Path, resp.StatusCode, err)
	}

	return nil
}
