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

package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "code-search-provider"

// ConfigDir returns the service's own configuration directory.
// Respects XDG_CONFIG_HOME. The directory is not created; the service only
// ever reads from it.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the full path to the default config file.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
