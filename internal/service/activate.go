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

package service

import (
	"log/slog"
	"path/filepath"

	"github.com/godbus/dbus/v5"

	"github.com/tombee/code-search-provider/internal/appinfo"
	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/providers"
	"github.com/tombee/code-search-provider/internal/searchprovider"
	"github.com/tombee/code-search-provider/internal/vscode"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

const introspectableInterface = "org.freedesktop.DBus.Introspectable"

// AppLookup finds installed applications by desktop ID.
type AppLookup interface {
	Lookup(desktopID string) (*appinfo.App, bool)
}

// Exporter makes objects callable on the bus.
type Exporter interface {
	Export(path dbus.ObjectPath, iface string, obj interface{}) error
}

// Registered is a provider that was exported for an installed application.
type Registered struct {
	Definition providers.Definition
	App        *appinfo.App

	// ConfigDir is the editor configuration directory the provider reads.
	ConfigDir string
}

// Activate exports a search provider for every definition whose
// application is installed. Definitions for missing applications are
// skipped. The first export failure aborts activation.
func Activate(defs []providers.Definition, configRoot string, apps AppLookup, exporter Exporter, logger *slog.Logger) ([]Registered, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var registered []Registered
	for _, def := range defs {
		plog := log.WithProvider(logger, def.DesktopID)

		app, ok := apps.Lookup(def.DesktopID)
		if !ok {
			plog.Debug("application not installed, skipping provider")
			continue
		}

		configDir := filepath.Join(configRoot, def.ConfigDirname)
		source := vscode.NewWorkspacesSource(app.ID, configDir, logger)
		provider := searchprovider.New(app, app.Icon, source, plog)

		path := def.ObjectPath()
		if err := exporter.Export(path, searchprovider.Interface, provider); err != nil {
			return registered, &providererrors.RegistrationError{DesktopID: def.DesktopID, Path: string(path), Cause: err}
		}
		if err := exporter.Export(path, introspectableInterface, searchprovider.Introspectable()); err != nil {
			return registered, &providererrors.RegistrationError{DesktopID: def.DesktopID, Path: string(path), Cause: err}
		}

		plog.Info("registered search provider",
			log.String(log.ObjectPathKey, string(path)),
			log.String(log.PathKey, configDir))
		registered = append(registered, Registered{Definition: def, App: app, ConfigDir: configDir})
	}
	return registered, nil
}
