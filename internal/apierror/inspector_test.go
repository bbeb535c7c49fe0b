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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o wait" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestInspector_Classify(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "context deadline",
			err:  fmt.Errorf("get: %w", context.DeadlineExceeded),
			want: KindTimeout,
		},
		{
			name: "net timeout",
			err:  &net.OpError{Op: "read", Net: "tcp", Err: timeoutErr{}},
			want: KindTimeout,
		},
		{
			name: "canceled",
			err:  fmt.Errorf("get: %w", context.Canceled),
			want: KindCanceled,
		},
		{
			name: "unauthorized",
			err:  fmt.Errorf("list: %w", &StatusError{Code: 401}),
			want: KindAuth,
		},
		{
			name: "forbidden",
			err:  &StatusError{Code: 403, Body: "bad key"},
			want: KindAuth,
		},
		{
			name: "server error",
			err:  &StatusError{Code: 500},
			want: KindStatus,
		},
		{
			name: "decode",
			err:  &DecodeError{Err: &json.SyntaxError{Offset: 3}},
			want: KindDecode,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:8111: connect: connection refused"),
			want: KindNetwork,
		},
		{
			name: "op error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("boom")},
			want: KindNetwork,
		},
		{
			name: "something else",
			err:  errors.New("something went wrong"),
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		err  *StatusError
		want string
	}{
		{&StatusError{Code: 404}, "unexpected status 404 Not Found"},
		{&StatusError{Code: 500, Body: "sim paused"}, "unexpected status 500 Internal Server Error: sim paused"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := fmt.Errorf("get: %w", &DecodeError{Err: inner})
	if !errors.Is(err, inner) {
		t.Error("DecodeError should unwrap to the underlying error")
	}
}
