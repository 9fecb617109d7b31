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

// Package recent defines recently used items and the sources that find them.
package recent

import (
	"sort"
	"strings"
)

// Item is a recently used file system item, such as a workspace folder.
type Item struct {
	// Name is the human readable name shown in search results.
	Name string

	// Path is the URL of the item, passed to the application on activation.
	Path string
}

// IDMap maps result identifiers to items.
type IDMap map[string]Item

// IDs returns the identifiers in the map in sorted order.
func (m IDMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Source finds the current recent items of one application.
//
// Implementations read their backing store on every call; callers must not
// expect results to be cached between calls.
type Source interface {
	FindRecentItems() (IDMap, error)
}

// ItemID returns the identifier of the item at path for the given
// application. The namespace keeps identifiers from different services
// apart, and the application ID keeps two editors sharing a URL apart.
func ItemID(namespace, appID, path string) string {
	return strings.Join([]string{namespace, appID, path}, "-")
}
