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
	"errors"
	"fmt"
	"io"
	"os"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewFailure creates an error that exits with ExitFailure
func NewFailure(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitFailure,
		Message: msg,
		Cause:   cause,
	}
}

// HandleExitError prints err and exits with its code. It returns if err is
// nil.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stderr, err))
}

// reportError prints err and any suggestion found in its chain, and returns
// the exit code for it.
func reportError(w io.Writer, err error) int {
	code := ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, "Error:", msg)
	}

	var validationErr *providererrors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", validationErr.Suggestion)
	}
	return code
}
