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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// ExpectStatus asserts the response status, printing the body and trace ID on failure.
func ExpectStatus(resp *Response, status int) {
	GinkgoHelper()

	Expect(resp).NotTo(BeNil())
	Expect(resp.StatusCode).To(Equal(status), "%s %s returned %d, body: %s (trace ID: %s)", resp.Method, resp.Path, resp.StatusCode, string(resp.Body), resp.TraceID)
}

// ExpectStatusIn asserts the response status is one of statuses.
func ExpectStatusIn(resp *Response, statuses ...int) {
	GinkgoHelper()

	Expect(resp).NotTo(BeNil())
	Expect(CheckStatus(resp, statuses...)).To(Succeed())
}

// ExpectEntity asserts the body holds a single entity with an id and returns it.
func ExpectEntity(resp *Response, shape Shape) map[string]any {
	GinkgoHelper()

	entity, err := DecodeEntity(resp, shape)
	Expect(err).NotTo(HaveOccurred())
	Expect(entity).To(HaveKey("id"))

	return entity
}

// ExpectEntityID asserts the entity's id equals id.
func ExpectEntityID(resp *Response, shape Shape, id int64) {
	GinkgoHelper()

	entity := ExpectEntity(resp, shape)
	Expect(entity["id"]).To(BeNumerically("==", id))
}

// ExpectList asserts the body holds a list of entities, each with an id.
func ExpectList(resp *Response, shape Shape) []map[string]any {
	GinkgoHelper()

	items, err := DecodeList(resp, shape)
	Expect(err).NotTo(HaveOccurred())

	for _, item := range items {
		Expect(item).To(HaveKey("id"))
	}

	return items
}

// ExpectField asserts an entity field equals the value that was sent.
// Numbers are compared by value since JSON decodes them as float64.
func ExpectField(resp *Response, shape Shape, key string, value any) {
	GinkgoHelper()

	entity := ExpectEntity(resp, shape)
	Expect(entity).To(HaveKey(key))

	switch value.(type) {
	case int, int32, int64, float32, float64:
		Expect(entity[key]).To(BeNumerically("==", value))
	default:
		Expect(entity[key]).To(Equal(value))
	}
}

// ExtractIDOrFail is ExtractID for use inside specs.
func ExtractIDOrFail(resp *Response, shape Shape) int64 {
	GinkgoHelper()

	id, err := ExtractID(resp, shape)
	Expect(err).NotTo(HaveOccurred())

	return id
}
