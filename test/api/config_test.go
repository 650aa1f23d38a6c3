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

//nolint:revive // dot imports are standard for Ginkgo/Gomega test code
package api_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/hotelbooking/booking-api-tests/test/api"
)

// setenv sets key for the current spec and restores the previous value afterwards.
// Setting an empty value also stops a developer's .env file from supplying one.
func setenv(key, value string) {
	previous, existed := os.LookupEnv(key)

	Expect(os.Setenv(key, value)).To(Succeed())

	DeferCleanup(func() {
		if existed {
			_ = os.Setenv(key, previous)
			return
		}

		_ = os.Unsetenv(key)
	})
}

var configKeys = []string{
	"API_BASE_URL",
	"API_AUTH_TOKEN",
	"REQUEST_TIMEOUT",
	"MAX_RESPONSE_TIME",
	"ENTITY_ENVELOPE",
	"VALIDATE_CONTRACT",
	"SKIP_INTEGRATION",
	"DEBUG_LOGGING",
	"LOG_REQUESTS",
	"LOG_RESPONSES",
	"LOG_FORMAT",
}

var _ = Describe("Configuration", func() {
	BeforeEach(func() {
		for _, key := range configKeys {
			setenv(key, "")
		}
	})

	It("applies defaults", func() {
		config, err := api.LoadTestConfig()
		Expect(err).NotTo(HaveOccurred())

		Expect(config.BaseURL).To(Equal(api.DefaultBaseURL))
		Expect(config.RequestTimeout).To(Equal(30 * time.Second))
		Expect(config.MaxResponseTime).To(Equal(2 * time.Second))
		Expect(config.ValidateContract).To(BeTrue())
		Expect(config.EntityEnvelope).To(BeFalse())
		Expect(config.SkipIntegration).To(BeFalse())
		Expect(config.LogFormat).To(Equal("console"))
	})

	It("reads overrides from the environment", func() {
		setenv("API_BASE_URL", "https://staging.example.com/api/")
		setenv("API_AUTH_TOKEN", "token")
		setenv("REQUEST_TIMEOUT", "5s")
		setenv("MAX_RESPONSE_TIME", "500ms")
		setenv("ENTITY_ENVELOPE", "true")
		setenv("VALIDATE_CONTRACT", "false")

		config, err := api.LoadTestConfig()
		Expect(err).NotTo(HaveOccurred())

		Expect(config.BaseURL).To(Equal("https://staging.example.com/api"))
		Expect(config.AuthToken).To(Equal("token"))
		Expect(config.RequestTimeout).To(Equal(5 * time.Second))
		Expect(config.MaxResponseTime).To(Equal(500 * time.Millisecond))
		Expect(config.EntityEnvelope).To(BeTrue())
		Expect(config.ValidateContract).To(BeFalse())
	})

	It("ignores malformed values", func() {
		setenv("REQUEST_TIMEOUT", "soon")
		setenv("SKIP_INTEGRATION", "maybe")

		config, err := api.LoadTestConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(config.RequestTimeout).To(Equal(30 * time.Second))
		Expect(config.SkipIntegration).To(BeFalse())
	})

	DescribeTable("rejects base URLs that are not absolute http(s)",
		func(raw string) {
			setenv("API_BASE_URL", raw)

			_, err := api.LoadTestConfig()
			Expect(err).To(HaveOccurred())
		},
		Entry("relative", "/api"),
		Entry("other scheme", "ftp://example.com/api"),
		Entry("no host", "http:///api"),
	)

	It("lets flags override the environment", func() {
		setenv("API_BASE_URL", "https://staging.example.com/api")

		config, err := api.LoadTestConfig()
		Expect(err).NotTo(HaveOccurred())

		f := pflag.NewFlagSet("cli", pflag.ContinueOnError)
		config.AddFlags(f)

		Expect(f.Parse(nil)).To(Succeed())
		Expect(config.BaseURL).To(Equal("https://staging.example.com/api"))

		Expect(f.Parse([]string{"--base-url=http://localhost:4000/api/", "--max-response-time=1s"})).To(Succeed())
		Expect(config.Validate()).To(Succeed())
		Expect(config.BaseURL).To(Equal("http://localhost:4000/api"))
		Expect(config.MaxResponseTime).To(Equal(time.Second))

		Expect(f.Parse([]string{"--base-url=localhost"})).To(Succeed())
		Expect(config.Validate()).To(HaveOccurred())
	})

	It("lets a flag replace an invalid base URL from the environment", func() {
		setenv("API_BASE_URL", "localhost:3000")

		_, err := api.LoadTestConfig()
		Expect(err).To(HaveOccurred())

		config := api.LoadEnvConfig()
		Expect(config.BaseURL).To(Equal("localhost:3000"))

		f := pflag.NewFlagSet("cli", pflag.ContinueOnError)
		config.AddFlags(f)

		Expect(f.Parse([]string{"--base-url=http://localhost:3000/api"})).To(Succeed())
		Expect(config.Validate()).To(Succeed())
		Expect(config.BaseURL).To(Equal("http://localhost:3000/api"))
	})

	It("reports an invalid environment base URL once flags are parsed", func() {
		setenv("API_BASE_URL", "localhost:3000")

		config := api.LoadEnvConfig()

		f := pflag.NewFlagSet("cli", pflag.ContinueOnError)
		config.AddFlags(f)

		Expect(f.Parse(nil)).To(Succeed())
		Expect(config.Validate()).To(HaveOccurred())
	})
})
