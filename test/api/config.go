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
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	// DefaultBaseURL is where the booking service listens in a local checkout.
	DefaultBaseURL = "http://localhost:3000/api"

	// DefaultMaxResponseTime is the per-request ceiling used by the performance checks.
	DefaultMaxResponseTime = 2 * time.Second
)

type TestConfig struct {
	BaseURL          string
	AuthToken        string
	RequestTimeout   time.Duration
	MaxResponseTime  time.Duration
	EntityEnvelope   bool
	ValidateContract bool
	SkipIntegration  bool
	DebugLogging     bool
	LogRequests      bool
	LogResponses     bool
	LogFormat        string
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if the base URL is not an absolute http(s) URL.
func LoadTestConfig() (*TestConfig, error) {
	config := LoadEnvConfig()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnvConfig reads the same settings as LoadTestConfig without validating
// them. Commands use it so flags can replace a bad value before Validate runs.
func LoadEnvConfig() *TestConfig {
	loadEnvFile()

	return &TestConfig{
		BaseURL:          getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		AuthToken:        os.Getenv("API_AUTH_TOKEN"),
		RequestTimeout:   getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxResponseTime:  getDurationWithDefault("MAX_RESPONSE_TIME", DefaultMaxResponseTime),
		EntityEnvelope:   getBoolWithDefault("ENTITY_ENVELOPE", false),
		ValidateContract: getBoolWithDefault("VALIDATE_CONTRACT", true),
		SkipIntegration:  getBoolWithDefault("SKIP_INTEGRATION", false),
		DebugLogging:     getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:      getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:     getBoolWithDefault("LOG_RESPONSES", false),
		LogFormat:        getStringWithDefault("LOG_FORMAT", "console"),
	}
}

// AddFlags lets a command override the connection settings, defaulting to
// whatever the environment provided.
func (c *TestConfig) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&c.BaseURL, "base-url", c.BaseURL, "Base URL of the booking API, including the /api prefix")
	f.StringVar(&c.AuthToken, "auth-token", c.AuthToken, "Bearer token sent with every request")
	f.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "Per request timeout")
	f.DurationVar(&c.MaxResponseTime, "max-response-time", c.MaxResponseTime, "Response time ceiling for performance checks")
}

// Validate checks the base URL and normalises away any trailing slash.
func (c *TestConfig) Validate() error {
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	return nil
}

func getStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		".env",          // From the repository root (CLIs)
		"../.env",       // From test/api
		"../../.env",    // From test/api/suites
		"../../../.env", // From test/contracts/consumer/booking
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", raw, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: must be an absolute http(s) URL", raw)
	}

	return nil
}
