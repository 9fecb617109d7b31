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

// Package appinfo looks up installed desktop applications and launches them.
package appinfo

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"

	"github.com/tombee/code-search-provider/internal/log"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// desktopEntrySection is the main group of a desktop file.
const desktopEntrySection = "Desktop Entry"

// App is an installed desktop application.
type App struct {
	// ID is the desktop file ID, such as "code.desktop".
	ID string

	Name string
	Icon string
	Exec string

	// Path is the location of the desktop file.
	Path string

	// Logger receives the exit status of launched processes.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Finder locates desktop files below the applications/ directory of a list
// of data directories. Earlier directories take precedence.
type Finder struct {
	Dirs   []string
	Logger *slog.Logger
}

// NewFinder returns a Finder over $XDG_DATA_HOME and $XDG_DATA_DIRS.
func NewFinder(logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	dirs := append([]string{xdg.DataHome}, xdg.DataDirs...)
	return &Finder{Dirs: dirs, Logger: log.WithComponent(logger, "appinfo")}
}

// Lookup returns the installed application with the given desktop ID.
//
// The first desktop file found for the ID decides: a hidden or unreadable
// file means the application counts as not installed, even if a directory
// later in the search path has a usable one.
func (f *Finder) Lookup(desktopID string) (*App, bool) {
	for _, dir := range f.Dirs {
		for _, rel := range candidatePaths(desktopID) {
			path := filepath.Join(dir, "applications", rel)
			if _, err := os.Stat(path); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					f.Logger.Debug("cannot stat desktop file", log.String(log.PathKey, path), log.Error(err))
				}
				continue
			}

			app, hidden, err := readDesktopFile(desktopID, path)
			if err != nil {
				f.Logger.Warn("ignoring unreadable desktop file", log.String(log.PathKey, path), log.Error(err))
				return nil, false
			}
			if hidden {
				f.Logger.Debug("desktop file is hidden", log.String(log.PathKey, path))
				return nil, false
			}
			app.Logger = f.Logger
			return app, true
		}
	}
	return nil, false
}

// candidatePaths returns the relative paths a desktop ID may live at.
// A dash in the ID may stand for a subdirectory, so "kde-foo.desktop" can
// be "kde-foo.desktop" or "kde/foo.desktop".
func candidatePaths(desktopID string) []string {
	paths := []string{desktopID}
	prefix, rest := "", desktopID
	for {
		i := strings.IndexByte(rest, '-')
		if i <= 0 {
			return paths
		}
		prefix = filepath.Join(prefix, rest[:i])
		rest = rest[i+1:]
		paths = append(paths, filepath.Join(prefix, rest))
	}
}

func readDesktopFile(desktopID, path string) (*App, bool, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return nil, false, &providererrors.ParseError{Path: path, Cause: err}
	}
	sec, err := f.GetSection(desktopEntrySection)
	if err != nil {
		return nil, false, &providererrors.ParseError{Path: path, Cause: err}
	}

	app := &App{
		ID:   desktopID,
		Name: sec.Key("Name").String(),
		Icon: sec.Key("Icon").String(),
		Exec: sec.Key("Exec").String(),
		Path: path,
	}
	return app, sec.Key("Hidden").MustBool(false), nil
}
