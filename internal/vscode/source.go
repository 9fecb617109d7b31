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

package vscode

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/recent"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// IDNamespace prefixes every result identifier handed to the shell.
const IDNamespace = "code-search-provider"

// WorkspacesSource finds the recent workspaces of one VS Code variant.
type WorkspacesSource struct {
	// AppID is the desktop ID of the owning application.
	AppID string

	// ConfigDir is the application's configuration directory.
	ConfigDir string

	Logger *slog.Logger
}

// NewWorkspacesSource returns a source reading from configDir on behalf of appID.
func NewWorkspacesSource(appID, configDir string, logger *slog.Logger) *WorkspacesSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspacesSource{
		AppID:     appID,
		ConfigDir: configDir,
		Logger:    log.WithProvider(logger, appID),
	}
}

// FindRecentItems reads the history fresh and returns one item per
// workspace URL. URLs without a usable name are logged and skipped.
func (s *WorkspacesSource) FindRecentItems() (recent.IDMap, error) {
	s.Logger.Info("finding recent workspaces", log.String(log.PathKey, s.ConfigDir))

	storage, err := ReadStorageFromDir(s.ConfigDir)
	if err != nil {
		return nil, err
	}
	urls := storage.WorkspaceURLs()

	dbPath := filepath.Join(s.ConfigDir, StateDBPath)
	dbURLs, err := ReadStateDB(dbPath)
	if err != nil {
		// storage.json alone still answers the query.
		s.Logger.Warn("ignoring state database", log.String(log.PathKey, dbPath), log.Error(err))
	}
	urls = append(urls, dbURLs...)

	items := make(recent.IDMap, len(urls))
	for _, url := range urls {
		item, err := RecentItem(url)
		if err != nil {
			s.Logger.Warn("skipping workspace", log.Error(err))
			continue
		}
		items[recent.ItemID(IDNamespace, s.AppID, item.Path)] = item
	}

	s.Logger.Info("found recent workspaces", log.Int("count", len(items)))
	return items, nil
}

// RecentItem converts a workspace URL into an item named after the last
// path segment of the URL.
func RecentItem(url string) (recent.Item, error) {
	idx := strings.LastIndexByte(url, '/')
	name := url[idx+1:]
	if name == "" {
		return recent.Item{}, &providererrors.ItemExtractionError{URL: url, Reason: "no final path segment"}
	}
	return recent.Item{Name: name, Path: url}, nil
}
