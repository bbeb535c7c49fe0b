// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package simapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/sirseer-scout/internal/apierror"
	"github.com/sirseerhq/sirseer-scout/pkg/version"
)

// maxResponseBytes caps a single response body.
const maxResponseBytes = 16 << 20

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	Header  string
	Key     string
	Timeout time.Duration
	Delay   time.Duration

	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	delay     time.Duration
	inspector apierror.Inspector
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewHTTPClient creates a client that authenticates every request with the
// shared key and pauses opts.Delay after each successful response.
func NewHTTPClient(opts Options) *HTTPClient {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Transport: &authTransport{
				header: opts.Header,
				key:    opts.Key,
				base:   base,
			},
		},
		timeout:   opts.Timeout,
		delay:     opts.Delay,
		inspector: apierror.NewInspector(),
		sleep:     sleepContext,
	}
}

// ListURL returns {base}/list/{path}.
func (c *HTTPClient) ListURL(path Path) string {
	return c.baseURL + "/list/" + url.PathEscape(path.String())
}

// GetURL returns {base}/get/{endpoint}.
func (c *HTTPClient) GetURL(endpoint string) string {
	return c.baseURL + "/get/" + url.PathEscape(endpoint)
}

// List implements Client.
func (c *HTTPClient) List(ctx context.Context, path Path) (*Listing, bool) {
	var listing Listing
	if _, ok := c.fetch(ctx, c.ListURL(path), &listing); !ok {
		return nil, false
	}
	return &listing, true
}

// Get implements Client.
func (c *HTTPClient) Get(ctx context.Context, endpoint string) (*Reading, bool) {
	var head struct {
		Result string `json:"Result"`
	}
	raw, ok := c.fetch(ctx, c.GetURL(endpoint), &head)
	if !ok {
		return nil, false
	}
	return &Reading{Result: head.Result, Raw: raw}, true
}

// fetch issues one GET, decodes the body into v and returns the raw body.
// Any failure is logged and reported as ok == false.
func (c *HTTPClient) fetch(ctx context.Context, rawURL string, v interface{}) (json.RawMessage, bool) {
	body, err := c.do(ctx, rawURL)
	if err == nil {
		if jsonErr := json.Unmarshal(body, v); jsonErr != nil {
			err = &apierror.DecodeError{Err: jsonErr}
		}
	}
	if err != nil {
		entry := logrus.WithFields(logrus.Fields{
			"url":  rawURL,
			"kind": c.inspector.Classify(err),
		})
		if c.inspector.IsAuthError(err) {
			entry.Warnf("request rejected, check the api key: %v", err)
		} else {
			entry.Warnf("request failed: %v", err)
		}
		return nil, false
	}

	// Pace the next request; a cancelled wait still returns the data.
	if sleepErr := c.sleep(ctx, c.delay); sleepErr != nil {
		logrus.WithField("url", rawURL).Debugf("rate limit delay interrupted: %v", sleepErr)
	}
	return json.RawMessage(body), true
}

func (c *HTTPClient) do(ctx context.Context, rawURL string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &apierror.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// authTransport adds the shared API key and a User-Agent to every request.
type authTransport struct {
	header string
	key    string
	base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set(t.header, t.key)
	clone.Header.Set("User-Agent", fmt.Sprintf("sirseer-scout/%s", version.Version))
	return t.base.RoundTrip(clone)
}
