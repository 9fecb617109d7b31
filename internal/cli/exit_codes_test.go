// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

func TestExitError(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with cause",
			err:  NewFailure("search provider stopped", errors.New("bus gone")),
			want: "search provider stopped: bus gone",
		},
		{
			name: "without cause",
			err:  &ExitError{Code: ExitFailure, Message: "failed"},
			want: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, ExitFailure, tt.err.Code)
		})
	}
}

func TestReportError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		code := reportError(&buf, errors.New("boom"))
		assert.Equal(t, ExitFailure, code)
		assert.Equal(t, "Error: boom\n", buf.String())
	})

	t.Run("custom code", func(t *testing.T) {
		var buf bytes.Buffer
		code := reportError(&buf, &ExitError{Code: 7, Message: "odd"})
		assert.Equal(t, 7, code)
	})

	t.Run("suggestion from chain", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewFailure("manifests do not match", &providererrors.ValidationError{
			Field:      "manifests",
			Message:    "manifest missing",
			Suggestion: "regenerate them",
		})
		reportError(&buf, err)
		assert.Contains(t, buf.String(), "Error: manifests do not match")
		assert.Contains(t, buf.String(), "Suggestion: regenerate them")
	})
}

func TestHandleExitError_Nil(t *testing.T) {
	// Must return without exiting.
	HandleExitError(nil)
}
