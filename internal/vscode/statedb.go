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
	"database/sql"
	"encoding/json"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// StateDBPath is the location of the global state database relative to a
// config directory. Code 1.64 and later keep the recently opened list here.
var StateDBPath = filepath.Join("User", "globalStorage", "state.vscdb")

// recentlyOpenedKey is the ItemTable key holding the recently opened list.
const recentlyOpenedKey = "history.recentlyOpenedPathsList"

// ReadStateDB returns the folder URLs from the recently opened list in the
// state database at path. A missing database yields no URLs.
func ReadStateDB(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &providererrors.IoError{Path: path, Op: "stat", Cause: err}
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &providererrors.IoError{Path: path, Op: "open", Cause: err}
	}
	defer db.Close()

	var value []byte
	err = db.QueryRow(`SELECT value FROM ItemTable WHERE key = ?`, recentlyOpenedKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &providererrors.IoError{Path: path, Op: "query", Cause: err}
	}

	var list OpenedPathsList
	if err := json.Unmarshal(value, &list); err != nil {
		return nil, &providererrors.ParseError{Path: path, Cause: err}
	}
	return list.folderURLs(), nil
}
