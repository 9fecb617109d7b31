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

package appinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/code-search-provider/internal/log"
)

const codeDesktopFile = `[Desktop Entry]
Name=Visual Studio Code
Comment=Code Editing. Redefined.
GenericName=Text Editor
Exec=/usr/share/code/code --unity-launch %F
Icon=vscode
Type=Application
StartupNotify=false
StartupWMClass=Code
Categories=TextEditor;Development;IDE;
MimeType=text/plain;inode/directory;application/x-code-workspace;
Actions=new-empty-window;
Keywords=vscode;

[Desktop Action new-empty-window]
Name=New Empty Window
Name[de]=Neues leeres Fenster
Exec=/usr/share/code/code --new-window %F
Icon=vscode
`

func writeDesktopFile(t *testing.T, dataDir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dataDir, "applications", rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFinder_Lookup(t *testing.T) {
	dataDir := t.TempDir()
	path := writeDesktopFile(t, dataDir, "code.desktop", codeDesktopFile)
	finder := &Finder{Dirs: []string{dataDir}, Logger: log.Discard()}

	app, ok := finder.Lookup("code.desktop")
	require.True(t, ok)

	assert.Equal(t, "code.desktop", app.ID)
	assert.Equal(t, "Visual Studio Code", app.Name)
	assert.Equal(t, "vscode", app.Icon)
	assert.Equal(t, "/usr/share/code/code --unity-launch %F", app.Exec)
	assert.Equal(t, path, app.Path)
	assert.Same(t, finder.Logger, app.Logger)
}

func TestFinder_LookupMissing(t *testing.T) {
	finder := &Finder{Dirs: []string{t.TempDir(), filepath.Join(t.TempDir(), "absent")}, Logger: log.Discard()}

	app, ok := finder.Lookup("code.desktop")
	assert.False(t, ok)
	assert.Nil(t, app)
}

func TestFinder_Precedence(t *testing.T) {
	home := t.TempDir()
	system := t.TempDir()
	writeDesktopFile(t, home, "code.desktop", "[Desktop Entry]\nName=Patched Code\nExec=code %F\n")
	writeDesktopFile(t, system, "code.desktop", codeDesktopFile)

	finder := &Finder{Dirs: []string{home, system}, Logger: log.Discard()}

	app, ok := finder.Lookup("code.desktop")
	require.True(t, ok)
	assert.Equal(t, "Patched Code", app.Name)
}

func TestFinder_HiddenMasksLaterDirs(t *testing.T) {
	home := t.TempDir()
	system := t.TempDir()
	writeDesktopFile(t, home, "code.desktop", "[Desktop Entry]\nName=Code\nHidden=true\n")
	writeDesktopFile(t, system, "code.desktop", codeDesktopFile)

	finder := &Finder{Dirs: []string{home, system}, Logger: log.Discard()}

	_, ok := finder.Lookup("code.desktop")
	assert.False(t, ok)
}

func TestFinder_BrokenDesktopFile(t *testing.T) {
	dataDir := t.TempDir()
	writeDesktopFile(t, dataDir, "code.desktop", "Name=No group here\n")
	finder := &Finder{Dirs: []string{dataDir}, Logger: log.Discard()}

	_, ok := finder.Lookup("code.desktop")
	assert.False(t, ok)
}

func TestFinder_SubdirectoryPrefix(t *testing.T) {
	dataDir := t.TempDir()
	writeDesktopFile(t, dataDir, filepath.Join("vendor", "code.desktop"), codeDesktopFile)
	finder := &Finder{Dirs: []string{dataDir}, Logger: log.Discard()}

	app, ok := finder.Lookup("vendor-code.desktop")
	require.True(t, ok)
	assert.Equal(t, "vendor-code.desktop", app.ID)
}

func TestCandidatePaths(t *testing.T) {
	assert.Equal(t, []string{"code.desktop"}, candidatePaths("code.desktop"))
	assert.Equal(t,
		[]string{"code-oss.desktop", filepath.Join("code", "oss.desktop")},
		candidatePaths("code-oss.desktop"))
	assert.Equal(t,
		[]string{"a-b-c.desktop", filepath.Join("a", "b-c.desktop"), filepath.Join("a", "b", "c.desktop")},
		candidatePaths("a-b-c.desktop"))
}

func TestNewFinder_UsesXDGDirs(t *testing.T) {
	finder := NewFinder(nil)
	assert.NotEmpty(t, finder.Dirs)
}
