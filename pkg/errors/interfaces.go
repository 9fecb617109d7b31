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

// ErrorClassifier defines methods for programmatic error handling.
//
// Every failure in the service is classified exactly once: fatal errors
// stop the process at startup, everything else is handled where it occurs.
// Nothing is retried.
type ErrorClassifier interface {
	error

	// ErrorType returns a string identifying the error category.
	// Examples: "io", "parse", "registration", "dispatch"
	ErrorType() string

	// IsFatal returns true if the error must terminate the service.
	IsFatal() bool
}

func (e *IoError) ErrorType() string              { return "io" }
func (e *IoError) IsFatal() bool                  { return false }
func (e *ParseError) ErrorType() string           { return "parse" }
func (e *ParseError) IsFatal() bool               { return false }
func (e *ItemExtractionError) ErrorType() string  { return "item_extraction" }
func (e *ItemExtractionError) IsFatal() bool      { return false }
func (e *RegistrationError) ErrorType() string    { return "registration" }
func (e *RegistrationError) IsFatal() bool        { return true }
func (e *ConnectionError) ErrorType() string      { return "connection" }
func (e *ConnectionError) IsFatal() bool          { return true }
func (e *NameAcquisitionError) ErrorType() string { return "name_acquisition" }
func (e *NameAcquisitionError) IsFatal() bool     { return true }
func (e *DispatchError) ErrorType() string        { return "dispatch" }
func (e *DispatchError) IsFatal() bool            { return false }
func (e *ValidationError) ErrorType() string      { return "validation" }
func (e *ValidationError) IsFatal() bool          { return true }
func (e *NotFoundError) ErrorType() string        { return "not_found" }
func (e *NotFoundError) IsFatal() bool            { return false }
func (e *ConfigError) ErrorType() string          { return "config" }
func (e *ConfigError) IsFatal() bool              { return true }
