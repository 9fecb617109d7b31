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

// Package vscode reads the recently opened workspaces of VS Code and its
// variants.
package vscode

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// StorageFilename is the name of the history file inside a config directory.
const StorageFilename = "storage.json"

// OpenedPathsEntry is one entry of the recently opened list.
type OpenedPathsEntry struct {
	FolderURI *string `json:"folderUri,omitempty"`
	FileURI   *string `json:"fileUri,omitempty"`
}

// OpenedPathsList holds the recently opened paths in both known layouts.
type OpenedPathsList struct {
	// Workspaces3 is the flat folder list written up to Code 1.54.
	Workspaces3 []string `json:"workspaces3,omitempty"`

	// Entries is the list written from Code 1.55 on.
	Entries []OpenedPathsEntry `json:"entries,omitempty"`
}

// Storage is the subset of storage.json this service cares about.
type Storage struct {
	OpenedPathsList *OpenedPathsList `json:"openedPathsList,omitempty"`
}

// ReadStorage decodes a storage document from r.
func ReadStorage(r io.Reader) (*Storage, error) {
	var storage Storage
	if err := json.NewDecoder(r).Decode(&storage); err != nil {
		return nil, &providererrors.ParseError{Cause: err}
	}
	return &storage, nil
}

// ReadStorageFromDir reads the storage.json file in configDir.
func ReadStorageFromDir(configDir string) (*Storage, error) {
	path := filepath.Join(configDir, StorageFilename)

	f, err := os.Open(path)
	if err != nil {
		return nil, &providererrors.IoError{Path: path, Op: "open", Cause: err}
	}
	defer f.Close()

	storage, err := ReadStorage(f)
	if err != nil {
		var parseErr *providererrors.ParseError
		if providererrors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return storage, nil
}

// WorkspaceURLs returns the folder URLs of all current entries in order,
// followed by the legacy folder list. Entries without a folder URL are
// skipped. Duplicates are kept.
func (s *Storage) WorkspaceURLs() []string {
	if s == nil || s.OpenedPathsList == nil {
		return []string{}
	}
	return s.OpenedPathsList.folderURLs()
}

func (l *OpenedPathsList) folderURLs() []string {
	urls := make([]string, 0, len(l.Entries)+len(l.Workspaces3))
	for _, entry := range l.Entries {
		if entry.FolderURI != nil {
			urls = append(urls, *entry.FolderURI)
		}
	}
	return append(urls, l.Workspaces3...)
}
