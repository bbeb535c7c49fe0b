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

package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Disabled(t *testing.T) {
	var buf bytes.Buffer
	r := New(false, &buf, "A")

	if _, ok := r.(Nop); !ok {
		t.Fatalf("New(false) = %T, want Nop", r)
	}
	r.Request("A.B")
	r.Finish()
	if buf.Len() != 0 {
		t.Errorf("disabled reporter wrote %q", buf.String())
	}
}

func TestSpinner_WritesPath(t *testing.T) {
	var buf bytes.Buffer
	r := New(true, &buf, "A")

	if _, ok := r.(*Spinner); !ok {
		t.Fatalf("New(true) = %T, want *Spinner", r)
	}
	r.Request("A.B")
	r.Request("A.B.C")

	if !strings.Contains(buf.String(), "A.B") {
		t.Errorf("spinner output %q does not mention the current path", buf.String())
	}
	r.Finish()
}
