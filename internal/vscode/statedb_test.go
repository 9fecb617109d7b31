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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// writeStateDB creates a state database the way Code lays it out. An empty
// value leaves the recently opened key unset.
func writeStateDB(t *testing.T, configDir, value string) string {
	t.Helper()
	path := filepath.Join(configDir, StateDBPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE ItemTable (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO ItemTable (key, value) VALUES (?, ?)`, "workbench.panel.height", "300")
	require.NoError(t, err)
	if value != "" {
		_, err = db.Exec(`INSERT INTO ItemTable (key, value) VALUES (?, ?)`, recentlyOpenedKey, value)
		require.NoError(t, err)
	}
	return path
}

func TestReadStateDB(t *testing.T) {
	t.Run("missing database yields nothing", func(t *testing.T) {
		urls, err := ReadStateDB(filepath.Join(t.TempDir(), StateDBPath))
		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("missing key yields nothing", func(t *testing.T) {
		path := writeStateDB(t, t.TempDir(), "")

		urls, err := ReadStateDB(path)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("reads folder entries", func(t *testing.T) {
		path := writeStateDB(t, t.TempDir(), `{"entries": [
			{"folderUri": "file:///home/foo/mdcat"},
			{"fileUri": "file:///home/foo/notes.md"},
			{"folderUri": "file:///home/foo/sbctl"}
		]}`)

		urls, err := ReadStateDB(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"file:///home/foo/mdcat", "file:///home/foo/sbctl"}, urls)
	})

	t.Run("config dir with spaces", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "Code - OSS")
		path := writeStateDB(t, dir, `{"entries": [{"folderUri": "file:///home/foo/x"}]}`)

		urls, err := ReadStateDB(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"file:///home/foo/x"}, urls)
	})

	t.Run("malformed value is a parse error", func(t *testing.T) {
		path := writeStateDB(t, t.TempDir(), `{"entries": [`)

		_, err := ReadStateDB(path)
		var parseErr *providererrors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, path, parseErr.Path)
	})

	t.Run("not a database is an io error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.vscdb")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a sqlite database\n", 64)), 0600))

		_, err := ReadStateDB(path)
		var ioErr *providererrors.IoError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, path, ioErr.Path)
	})
}
