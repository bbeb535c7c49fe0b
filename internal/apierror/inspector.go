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

package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind is a coarse failure category used as a log field.
type Kind string

const (
	KindTimeout  Kind = "timeout"
	KindCanceled Kind = "canceled"
	KindNetwork  Kind = "network"
	KindAuth     Kind = "auth"
	KindStatus   Kind = "status"
	KindDecode   Kind = "decode"
	KindUnknown  Kind = "unknown"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("unexpected status %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// IsAuthError reports whether the status is an authentication failure.
func (e *StatusError) IsAuthError() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// DecodeError is returned when a response body is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "failed to decode response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Inspector classifies errors returned by the transport.
type Inspector interface {
	// IsTimeout returns true if the request exceeded its deadline.
	IsTimeout(err error) bool

	// IsNetworkError returns true if the request never got a response.
	IsNetworkError(err error) bool

	// IsAuthError returns true if the API rejected the credential.
	IsAuthError(err error) bool

	// Classify returns the Kind of err.
	Classify(err error) Kind
}

// SimErrorInspector implements Inspector for the simulation API transport.
type SimErrorInspector struct{}

// NewInspector creates a new SimErrorInspector.
func NewInspector() Inspector {
	return &SimErrorInspector{}
}

// IsTimeout checks the error chain for deadline errors, then falls back to
// the error text.
func (i *SimErrorInspector) IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsNetworkError checks if the error is a connectivity problem.
func (i *SimErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "eof") ||
		strings.Contains(errStr, "network is unreachable")
}

// IsAuthError checks for a 401/403 StatusError in the chain.
func (i *SimErrorInspector) IsAuthError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.IsAuthError()
}

// Classify returns the most specific Kind that matches err.
func (i *SimErrorInspector) Classify(err error) Kind {
	var statusErr *StatusError
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case i.IsTimeout(err):
		return KindTimeout
	case i.IsAuthError(err):
		return KindAuth
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &decodeErr):
		return KindDecode
	case i.IsNetworkError(err):
		return KindNetwork
	default:
		return KindUnknown
	}
}
