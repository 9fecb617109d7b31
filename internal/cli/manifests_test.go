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

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/code-search-provider/internal/providers"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

func TestManifestsGenerateThenVerify(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "providers")

	out, err := execute(t, "manifests", "generate", dir)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(providers.All))

	out, err = execute(t, "manifests", "verify", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "5 manifests match the provider table")
}

func TestManifestsVerify_Mismatch(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "manifests", "generate", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, entries[0].Name())))

	_, err = execute(t, "manifests", "verify", dir)
	require.Error(t, err)

	var validationErr *providererrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Message, "manifest missing")
}

func TestManifestsVerify_MissingDir(t *testing.T) {
	_, err := execute(t, "manifests", "verify", filepath.Join(t.TempDir(), "nope"))
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitFailure, exitErr.Code)
}

func TestManifestsVerify_ShippedManifests(t *testing.T) {
	_, err := execute(t, "manifests", "verify", "../../providers")
	assert.NoError(t, err)
}

func TestManifestsRequiresDir(t *testing.T) {
	_, err := execute(t, "manifests", "generate")
	assert.Error(t, err)
}

func TestManifestsGenerate_UsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o600))
	t.Setenv("LOG_FORMAT", "")

	dir := filepath.Join(t.TempDir(), "providers")
	_, err := execute(t, "--config", path, "manifests", "generate", dir)
	require.Error(t, err)

	var cfgErr *providererrors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.NoDirExists(t, dir)
}
