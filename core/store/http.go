// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"codeberg.org/shuttle/shuttle/core/audit"
	"codeberg.org/shuttle/shuttle/core/idgen"
)

const userAgent = "shuttle-compiler"

var (
	errAPIResponseError = errors.New("blob server returned an error")
	errBaseURLInvalid   = errors.New("store baseURL must be an absolute http(s) URL")
)

// APIError is returned when the blob server answers with a status other than
// 200 or 404.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	StatusCode int

	// Message is taken from the JSON error body if there is one, else the
	// status text.
	Message string

	Err error
}

func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	b.WriteString(fmt.Sprintf(" (status code: %d)", e.StatusCode))

	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPOptions configures [NewHTTP].
type HTTPOptions struct {
	// BaseURL is the server root; blobs live at
	// <BaseURL>/<project>/raw/<revision>/<path>.
	BaseURL string
	// Token is sent as a bearer token when set.
	Token string
	// RequestsPerSecond limits the request rate. Zero disables the limit.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	// Client overrides the HTTP client, which is mostly useful in tests.
	Client *http.Client
}

// HTTP fetches blobs from a git forge style raw file endpoint.
type HTTP struct {
	base    *url.URL
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTP returns an HTTP store for opts.
func NewHTTP(opts HTTPOptions) (*HTTP, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", errBaseURLInvalid, opts.BaseURL)
	}

	base.Path = strings.TrimSuffix(base.Path, "/")

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := max(opts.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &HTTP{base: base, token: opts.Token, client: client, limiter: limiter}, nil
}

// URL returns the address of a blob.
func (s *HTTP) URL(project, revision, rel string) string {
	elems := append([]string{project, "raw", revision}, strings.Split(rel, "/")...)

	return s.base.JoinPath(elems...).String()
}

func (s *HTTP) Fetch(ctx context.Context, project, revision, path string) (_ []byte, err error) {
	rel, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	span := audit.Span{
		Backend:   audit.FromHTTP,
		RequestID: idgen.Make(),
		Project:   project,
		Revision:  revision,
		Path:      rel,
		URL:       s.URL(project, revision, rel),
	}

	ctx = span.Begin(ctx)
	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, span.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", span.RequestID)

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Size = len(body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	default:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			Err:        errAPIResponseError,
		}
	}
}

// errorMessage extracts a message from a JSON error body, falling back to
// the status text.
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)

		for _, field := range []string{"message", "error.message", "error"} {
			if v := result.Get(field); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}

	if message := http.StatusText(status); message != "" {
		return message
	}

	return "An unknown server error occurred"
}
