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

// Package manifest renders and verifies the GNOME Shell search provider
// manifests shipped with the service. Manifests are packaging artifacts;
// the running service never reads them.
package manifest

import (
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/ini.v1"

	"github.com/tombee/code-search-provider/internal/providers"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

const (
	// Section is the key file group GNOME Shell reads.
	Section = "Shell Search Provider"

	// Version is the search provider interface version this service implements.
	Version = "2"

	// Pattern matches manifest files in a directory.
	Pattern = "*.ini"
)

func init() {
	// Key files use Key=Value without padding around the delimiter.
	ini.PrettyFormat = false
}

// Manifest is the content of one search provider manifest.
type Manifest struct {
	// File is the name the manifest was loaded from or should be written to.
	File string

	DesktopID  string
	ObjectPath string
	BusName    string
	Version    string
}

// Filename returns the manifest file name for def.
func Filename(def providers.Definition) string {
	return providers.BusName + "." + strings.ReplaceAll(def.RelativePath, "/", "-") + ".ini"
}

// Render returns the manifest for def.
func Render(def providers.Definition) Manifest {
	return Manifest{
		File:       Filename(def),
		DesktopID:  def.DesktopID,
		ObjectPath: string(def.ObjectPath()),
		BusName:    providers.BusName,
		Version:    Version,
	}
}

// WriteTo writes m in key file format.
func (m Manifest) WriteTo(w io.Writer) (int64, error) {
	f := ini.Empty()
	sec, err := f.NewSection(Section)
	if err != nil {
		return 0, err
	}
	for _, kv := range [][2]string{
		{"DesktopId", m.DesktopID},
		{"BusName", m.BusName},
		{"ObjectPath", m.ObjectPath},
		{"Version", m.Version},
	} {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return 0, err
		}
	}
	return f.WriteTo(w)
}

// Parse reads a manifest from data. Every key is required.
func Parse(name string, data []byte) (Manifest, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return Manifest{}, &providererrors.ParseError{Path: name, Cause: err}
	}
	sec, err := f.GetSection(Section)
	if err != nil {
		return Manifest{}, &providererrors.ParseError{Path: name, Cause: err}
	}

	m := Manifest{File: name}
	for key, dst := range map[string]*string{
		"DesktopId":  &m.DesktopID,
		"ObjectPath": &m.ObjectPath,
		"BusName":    &m.BusName,
		"Version":    &m.Version,
	} {
		if !sec.HasKey(key) {
			return Manifest{}, &providererrors.ParseError{Path: name, Cause: fmt.Errorf("%s missing", key)}
		}
		*dst = sec.Key(key).String()
	}
	return m, nil
}

// LoadDir parses every manifest in fsys, sorted by file name.
func LoadDir(fsys fs.FS) ([]Manifest, error) {
	names, err := doublestar.Glob(fsys, Pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	manifests := make([]Manifest, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &providererrors.IoError{Path: name, Cause: err}
		}
		m, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Verify checks that there is exactly one manifest per definition, that
// each manifest matches its definition, and that no manifest is left over.
func Verify(defs []providers.Definition, manifests []Manifest) error {
	var problems []string
	byDesktopID := make(map[string][]Manifest, len(manifests))
	for _, m := range manifests {
		byDesktopID[m.DesktopID] = append(byDesktopID[m.DesktopID], m)
	}

	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.DesktopID] = true
		found := byDesktopID[def.DesktopID]
		switch {
		case len(found) == 0:
			problems = append(problems, fmt.Sprintf("manifest missing for provider %q with desktop ID %s", def.Label, def.DesktopID))
			continue
		case len(found) > 1:
			problems = append(problems, fmt.Sprintf("%d manifests for desktop ID %s", len(found), def.DesktopID))
		}

		want := Render(def)
		got := found[0]
		if got.ObjectPath != want.ObjectPath {
			problems = append(problems, fmt.Sprintf("%s: object path %s, want %s", got.File, got.ObjectPath, want.ObjectPath))
		}
		if got.BusName != want.BusName {
			problems = append(problems, fmt.Sprintf("%s: bus name %s, want %s", got.File, got.BusName, want.BusName))
		}
		if got.Version != want.Version {
			problems = append(problems, fmt.Sprintf("%s: version %s, want %s", got.File, got.Version, want.Version))
		}
	}

	for _, m := range manifests {
		if !known[m.DesktopID] {
			problems = append(problems, fmt.Sprintf("%s: no provider for desktop ID %s", m.File, m.DesktopID))
		}
	}

	if len(problems) > 0 {
		return &providererrors.ValidationError{
			Field:      "manifests",
			Message:    strings.Join(problems, "; "),
			Suggestion: "regenerate the manifests with 'code-search-provider manifests generate'",
		}
	}
	return nil
}
