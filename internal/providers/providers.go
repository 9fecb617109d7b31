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

// Package providers holds the static table of editor variants the service
// exposes search providers for.
package providers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// BusName is the well-known name requested on the session bus.
const BusName = "dev.tombee.SearchProvider.Code"

// ObjectPathPrefix is prepended to every relative object path.
const ObjectPathPrefix = "/dev/tombee/SearchProvider/Code/"

// Definition describes one search provider to expose from this service.
type Definition struct {
	// Label is a human readable label for this provider.
	Label string

	// DesktopID is the ID (that is, the filename) of the desktop file of the
	// corresponding app.
	DesktopID string

	// RelativePath is the object path below ObjectPathPrefix.
	RelativePath string

	// ConfigDirname is the app's directory below the user config root.
	ConfigDirname string
}

// ObjectPath returns the full object path of this provider.
func (d Definition) ObjectPath() dbus.ObjectPath {
	return dbus.ObjectPath(ObjectPathPrefix + d.RelativePath)
}

// All lists the known search providers.
//
// Every definition needs a manifest in providers/ referring to the same
// desktop ID and object path. Object paths must be unique per desktop ID so
// that activating a result always launches the right application.
var All = []Definition{
	{
		Label:         "Code OSS (Arch Linux)",
		DesktopID:     "code-oss.desktop",
		RelativePath:  "arch/codeoss",
		ConfigDirname: "Code - OSS",
	},
	// The binary AUR package: https://aur.archlinux.org/packages/visual-studio-code-bin/
	{
		Label:         "Visual Studio Code (AUR package)",
		DesktopID:     "visual-studio-code.desktop",
		RelativePath:  "aur/visualstudiocode",
		ConfigDirname: "Code",
	},
	// Microsoft's .deb and .rpm packages.
	{
		Label:         "Visual Studio Code (Official package)",
		DesktopID:     "code.desktop",
		RelativePath:  "official/code",
		ConfigDirname: "Code",
	},
	{
		Label:         "Visual Studio Code Insiders",
		DesktopID:     "code-insiders.desktop",
		RelativePath:  "official/codeinsiders",
		ConfigDirname: "Code - Insiders",
	},
	{
		Label:         "VSCodium",
		DesktopID:     "codium.desktop",
		RelativePath:  "vscodium/codium",
		ConfigDirname: "VSCodium",
	},
}

// Check verifies the structural invariants of a provider table: valid
// object paths, unique desktop IDs and unique object paths.
func Check(defs []Definition) error {
	var problems []string
	desktopIDs := make(map[string]string, len(defs))
	paths := make(map[dbus.ObjectPath]string, len(defs))

	for _, def := range defs {
		if def.DesktopID == "" {
			problems = append(problems, fmt.Sprintf("%q has no desktop ID", def.Label))
		}
		if def.ConfigDirname == "" {
			problems = append(problems, fmt.Sprintf("%q has no config directory", def.Label))
		}
		path := def.ObjectPath()
		if !path.IsValid() {
			problems = append(problems, fmt.Sprintf("%q has invalid object path %s", def.Label, path))
		}
		if other, ok := desktopIDs[def.DesktopID]; ok {
			problems = append(problems, fmt.Sprintf("desktop ID %s used by both %q and %q", def.DesktopID, other, def.Label))
		}
		if other, ok := paths[path]; ok {
			problems = append(problems, fmt.Sprintf("object path %s used by both %q and %q", path, other, def.Label))
		}
		desktopIDs[def.DesktopID] = def.Label
		paths[path] = def.Label
	}

	if len(problems) > 0 {
		return &providererrors.ValidationError{
			Field:      "providers",
			Message:    strings.Join(problems, "; "),
			Suggestion: "give every provider its own desktop ID and relative object path",
		}
	}
	return nil
}

// Labels returns the labels of defs, sorted.
func Labels(defs []Definition) []string {
	labels := make([]string, 0, len(defs))
	for _, def := range defs {
		labels = append(labels, def.Label)
	}
	sort.Strings(labels)
	return labels
}
