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
	"errors"
)

// As finds the first error in err's tree that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsFatal reports whether err, or any error it wraps, is classified as fatal.
// Unclassified errors are not fatal.
func IsFatal(err error) bool {
	var classified ErrorClassifier
	if errors.As(err, &classified) {
		return classified.IsFatal()
	}
	return false
}

// TypeOf returns the ErrorType of the first classified error in err's tree,
// or "unknown".
func TypeOf(err error) string {
	var classified ErrorClassifier
	if errors.As(err, &classified) {
		return classified.ErrorType()
	}
	return "unknown"
}
