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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/rs/zerolog"
)

var (
	// ErrTransport wraps failures where no HTTP response was received.
	ErrTransport = errors.New("transport failure")

	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// StatusError describes a response whose status was not one of those expected.
type StatusError struct {
	Method   string
	Path     string
	Expected []int
	Actual   int
	Body     string
	TraceID  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: expected %v, got %d, body: %s (trace ID: %s)", e.Method, e.Path, e.Expected, e.Actual, e.Body, e.TraceID)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
	// Duration runs from sending the request until the whole body was read.
	Duration time.Duration
	TraceID  string
}

// JSON decodes the body into an untyped value.
func (r *Response) JSON() (any, error) {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, fmt.Errorf("unmarshaling %s %s response: %w", r.Method, r.Path, err)
	}

	return v, nil
}

// Decode decodes the body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("unmarshaling %s %s response: %w", r.Method, r.Path, err)
	}

	return nil
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CheckStatus returns a StatusError unless the response status is one of statuses.
func CheckStatus(resp *Response, statuses ...int) error {
	if slices.Contains(statuses, resp.StatusCode) {
		return nil
	}

	return &StatusError{
		Method:   resp.Method,
		Path:     resp.Path,
		Expected: statuses,
		Actual:   resp.StatusCode,
		Body:     string(resp.Body),
		TraceID:  resp.TraceID,
	}
}

type APIClient struct {
	baseURL   string
	client    *http.Client
	authToken string
	config    *TestConfig
	endpoints *Endpoints
	log       zerolog.Logger
	contract  *ContractValidator
}

type ClientOption func(*APIClient)

// WithLogger replaces the default logger, which writes to the ginkgo writer.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *APIClient) {
		c.log = log
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *APIClient) {
		c.client = client
	}
}

// WithContractValidator checks every response against the API description
// and logs any drift.
func WithContractValidator(v *ContractValidator) ClientOption {
	return func(c *APIClient) {
		c.contract = v
	}
}

func NewAPIClientWithConfig(config *TestConfig, opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		authToken: config.AuthToken,
		config:    config,
		endpoints: NewEndpoints(),
		log:       zerolog.New(zerolog.ConsoleWriter{Out: ginkgo.GinkgoWriter, NoColor: true}).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

func (c *APIClient) Config() *TestConfig {
	return c.config
}

func (c *APIClient) Logger() zerolog.Logger {
	return c.log
}

// generateTraceID creates a new W3C trace ID.
// Every request gets its own so a failure can be found in the service logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func encodeBody(body any) (io.Reader, error) {
	switch t := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(t), nil
	case json.RawMessage:
		return bytes.NewReader(t), nil
	case string:
		return strings.NewReader(t), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return bytes.NewReader(data), nil
}

// Do issues a single request. Only transport failures are returned as errors;
// any HTTP status, including 4xx and 5xx, is a valid Response for the caller
// to assert on. Requests are never retried.
func (c *APIClient) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Dur("duration", duration).Str("trace_id", traceID).Msg("http request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	duration = time.Since(start)

	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("trace_id", traceID).Msg("reading response body")
		return nil, fmt.Errorf("%w: reading %s %s response body: %w", ErrTransport, method, path, err)
	}

	out := &Response{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   duration,
		TraceID:    traceID,
	}

	level := zerolog.DebugLevel
	if c.config.LogRequests {
		level = zerolog.InfoLevel
	}

	c.log.WithLevel(level).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Dur("duration", duration).Str("trace_id", traceID).Msg("request")

	if c.config.LogResponses && len(respBody) > 0 {
		c.log.Info().Str("method", method).Str("path", path).RawJSON("body", jsonOrString(respBody)).Msg("response body")
	}

	if c.contract != nil {
		if err := c.contract.Validate(ctx, out); err != nil {
			c.log.Warn().Err(err).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("trace_id", traceID).Msg("response does not match the published API description; report to the API owner")
		}
	}

	return out, nil
}

// jsonOrString keeps log lines valid JSON when a body is plain text.
func jsonOrString(body []byte) []byte {
	if json.Valid(body) {
		return body
	}

	quoted, _ := json.Marshal(string(body))

	return quoted
}

// Users.
func (c *APIClient) ListUsers(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.ListUsers(), nil)
}

func (c *APIClient) GetUser(ctx context.Context, userID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.User(userID), nil)
}

func (c *APIClient) CreateUser(ctx context.Context, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPost, c.endpoints.CreateUser(), payload)
}

func (c *APIClient) UpdateUser(ctx context.Context, userID int64, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPut, c.endpoints.User(userID), payload)
}

func (c *APIClient) DeleteUser(ctx context.Context, userID int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, c.endpoints.User(userID), nil)
}

// Hotels.
func (c *APIClient) ListHotels(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.ListHotels(), nil)
}

func (c *APIClient) GetHotel(ctx context.Context, hotelID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.Hotel(hotelID), nil)
}

func (c *APIClient) CreateHotel(ctx context.Context, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPost, c.endpoints.CreateHotel(), payload)
}

func (c *APIClient) UpdateHotel(ctx context.Context, hotelID int64, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPut, c.endpoints.Hotel(hotelID), payload)
}

func (c *APIClient) DeleteHotel(ctx context.Context, hotelID int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, c.endpoints.Hotel(hotelID), nil)
}

// Rooms.
func (c *APIClient) ListRooms(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.ListRooms(), nil)
}

func (c *APIClient) GetRoom(ctx context.Context, roomID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.Room(roomID), nil)
}

func (c *APIClient) CreateRoom(ctx context.Context, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPost, c.endpoints.CreateRoom(), payload)
}

func (c *APIClient) UpdateRoom(ctx context.Context, roomID int64, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPut, c.endpoints.Room(roomID), payload)
}

func (c *APIClient) UpdateRoomAvailability(ctx context.Context, roomID int64, available bool) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, c.endpoints.RoomAvailability(roomID), Payload{"is_available": available})
}

func (c *APIClient) DeleteRoom(ctx context.Context, roomID int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, c.endpoints.Room(roomID), nil)
}

func (c *APIClient) ListRoomsByHotel(ctx context.Context, hotelID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.RoomsByHotel(hotelID), nil)
}

func (c *APIClient) ListAvailableRooms(ctx context.Context, hotelID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.AvailableRoomsByHotel(hotelID), nil)
}

// Bookings.
func (c *APIClient) ListBookings(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.ListBookings(), nil)
}

func (c *APIClient) GetBooking(ctx context.Context, bookingID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.Booking(bookingID), nil)
}

func (c *APIClient) CreateBooking(ctx context.Context, payload Payload) (*Response, error) {
	return c.Do(ctx, http.MethodPost, c.endpoints.CreateBooking(), payload)
}

func (c *APIClient) CancelBooking(ctx context.Context, bookingID int64) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, c.endpoints.CancelBooking(bookingID), nil)
}

func (c *APIClient) UpdateBookingStatus(ctx context.Context, bookingID int64, status string) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, c.endpoints.BookingStatus(bookingID), Payload{"status": status})
}

func (c *APIClient) DeleteBooking(ctx context.Context, bookingID int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, c.endpoints.Booking(bookingID), nil)
}

func (c *APIClient) ListBookingsByUser(ctx context.Context, userID int64) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.endpoints.BookingsByUser(userID), nil)
}

// DeleteResource deletes the entity a role refers to.
func (c *APIClient) DeleteResource(ctx context.Context, role Role, id int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, c.endpoints.ResourcePath(role, id), nil)
}
