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
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/recent"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

func writeStorage(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StorageFilename), []byte(doc), 0600))
	return dir
}

func TestWorkspacesSource_LegacyLayout(t *testing.T) {
	dir := writeStorage(t, `{"openedPathsList": {"workspaces3": ["file:///home/foo/mdcat", "file:///home/foo/sbctl"]}}`)
	source := NewWorkspacesSource("code.desktop", dir, log.Discard())

	items, err := source.FindRecentItems()
	require.NoError(t, err)

	assert.Equal(t, recent.IDMap{
		"code-search-provider-code.desktop-file:///home/foo/mdcat": {Name: "mdcat", Path: "file:///home/foo/mdcat"},
		"code-search-provider-code.desktop-file:///home/foo/sbctl": {Name: "sbctl", Path: "file:///home/foo/sbctl"},
	}, items)
}

func TestWorkspacesSource_FileEntriesExcluded(t *testing.T) {
	dir := writeStorage(t, `{"openedPathsList": {"entries": [{"folderUri": "file:///home/foo/x"}, {"fileUri": "file:///home/foo/y"}]}}`)
	source := NewWorkspacesSource("code.desktop", dir, log.Discard())

	items, err := source.FindRecentItems()
	require.NoError(t, err)

	require.Len(t, items, 1)
	for _, item := range items {
		assert.Equal(t, "x", item.Name)
		assert.Equal(t, "file:///home/foo/x", item.Path)
	}
}

func TestWorkspacesSource_SkipsUnnamedURLs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	dir := writeStorage(t, `{"openedPathsList": {"workspaces3": ["file:///home/foo/", "", "file:///home/foo/kept"]}}`)
	source := NewWorkspacesSource("code.desktop", dir, logger)

	items, err := source.FindRecentItems()
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Contains(t, items, "code-search-provider-code.desktop-file:///home/foo/kept")
	assert.Contains(t, buf.String(), "skipping workspace")
	assert.Contains(t, buf.String(), "provider=code.desktop")
}

func TestWorkspacesSource_IDsStableAndDistinctPerApp(t *testing.T) {
	dir := writeStorage(t, `{"openedPathsList": {"workspaces3": ["file:///home/foo/shared"]}}`)
	code := NewWorkspacesSource("code.desktop", dir, log.Discard())
	codium := NewWorkspacesSource("codium.desktop", dir, log.Discard())

	first, err := code.FindRecentItems()
	require.NoError(t, err)
	second, err := code.FindRecentItems()
	require.NoError(t, err)
	other, err := codium.FindRecentItems()
	require.NoError(t, err)

	assert.Equal(t, first.IDs(), second.IDs())
	assert.NotEqual(t, first.IDs(), other.IDs())
}

func TestWorkspacesSource_IncludesStateDB(t *testing.T) {
	dir := writeStorage(t, `{"openedPathsList": {"workspaces3": ["file:///home/foo/legacy"]}}`)
	writeStateDB(t, dir, `{"entries": [{"folderUri": "file:///home/foo/modern"}]}`)
	source := NewWorkspacesSource("code.desktop", dir, log.Discard())

	items, err := source.FindRecentItems()
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, id := range items.IDs() {
		names = append(names, items[id].Name)
	}
	assert.ElementsMatch(t, []string{"legacy", "modern"}, names)
}

func TestWorkspacesSource_BrokenStateDBIsIgnored(t *testing.T) {
	dir := writeStorage(t, `{"openedPathsList": {"entries": [{"folderUri": "file:///home/foo/x"}, {"fileUri": "file:///home/foo/y"}]}}`)
	dbPath := filepath.Join(dir, StateDBPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0700))
	require.NoError(t, os.WriteFile(dbPath, bytes.Repeat([]byte("not a database "), 100), 0600))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	source := NewWorkspacesSource("code.desktop", dir, logger)

	items, err := source.FindRecentItems()
	require.NoError(t, err)
	assert.Equal(t, recent.IDMap{
		recent.ItemID(IDNamespace, "code.desktop", "file:///home/foo/x"): {Name: "x", Path: "file:///home/foo/x"},
	}, items)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "ignoring state database")
	assert.Contains(t, out, "provider=code.desktop")
	assert.Contains(t, out, dbPath)
}

func TestWorkspacesSource_ReadErrors(t *testing.T) {
	t.Run("missing storage", func(t *testing.T) {
		source := NewWorkspacesSource("code.desktop", t.TempDir(), log.Discard())

		_, err := source.FindRecentItems()
		var ioErr *providererrors.IoError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("malformed storage", func(t *testing.T) {
		source := NewWorkspacesSource("code.desktop", writeStorage(t, "{"), log.Discard())

		_, err := source.FindRecentItems()
		var parseErr *providererrors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestRecentItem(t *testing.T) {
	tests := []struct {
		url      string
		wantName string
		wantErr  bool
	}{
		{url: "file:///home/foo/mdcat", wantName: "mdcat"},
		{url: "file:///home/foo//gnome-shell", wantName: "gnome-shell"},
		{url: "vscode-remote://ssh-remote+host/srv/app", wantName: "app"},
		{url: "plain", wantName: "plain"},
		{url: "file:///home/foo/", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			item, err := RecentItem(tt.url)
			if tt.wantErr {
				var extractErr *providererrors.ItemExtractionError
				assert.ErrorAs(t, err, &extractErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, item.Name)
			assert.Equal(t, tt.url, item.Path)
		})
	}
}
