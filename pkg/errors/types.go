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

package errors

import (
	"fmt"
)

// IoError reports that a file could not be opened or read.
type IoError struct {
	// Path is the file that was attempted
	Path string

	// Op is the operation that failed, such as "open" or "query".
	// Default: read
	Op string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *IoError) Error() string {
	op := e.Op
	if op == "" {
		op = "read"
	}
	return fmt.Sprintf("failed to %s %s: %v", op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *IoError) Unwrap() error {
	return e.Cause
}

// ParseError reports a structured document that is malformed as a whole.
type ParseError struct {
	// Path is the document location, empty when parsing from a plain reader
	Path string

	// Cause is the decoder error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to parse document: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ItemExtractionError reports a single history URL that cannot become an item.
// It only ever affects that one item.
type ItemExtractionError struct {
	URL    string
	Reason string
}

// Error implements the error interface.
func (e *ItemExtractionError) Error() string {
	return fmt.Sprintf("failed to extract workspace name from URL %q: %s", e.URL, e.Reason)
}

// RegistrationError reports that a provider object could not be exported.
type RegistrationError struct {
	// DesktopID identifies the provider being registered
	DesktopID string

	// Path is the object path the provider was exported at
	Path string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register provider %s at %s: %v", e.DesktopID, e.Path, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *RegistrationError) Unwrap() error {
	return e.Cause
}

// ConnectionError reports a failure to connect to the session bus.
type ConnectionError struct {
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to session bus: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NameAcquisitionError reports that the well-known bus name was not acquired.
type NameAcquisitionError struct {
	// Name is the requested bus name
	Name string

	// Reason describes the bus reply when no error was returned
	Reason string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *NameAcquisitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to acquire bus name %s: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("failed to acquire bus name %s: %s", e.Name, e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *NameAcquisitionError) Unwrap() error {
	return e.Cause
}

// DispatchError reports that handling one bus message failed.
type DispatchError struct {
	Path      string
	Interface string
	Member    string

	// Cause is the error returned (or panic recovered) by the handler
	Cause error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch %s.%s on %s: %v", e.Interface, e.Member, e.Path, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// ValidationError represents invalid static data, such as a provider table
// or manifest that does not satisfy its invariants.
type ValidationError struct {
	// Field identifies which input failed validation
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "result", "application")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents configuration problems.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "log.level")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
