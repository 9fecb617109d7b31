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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/code-search-provider/internal/config"
	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/manifest"
	"github.com/tombee/code-search-provider/internal/providers"
)

// NewManifestsCommand creates the manifests command group
func NewManifestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifests",
		Short: "Generate or verify search provider manifests",
		Long: `GNOME Shell discovers search providers through key files installed in
/usr/share/gnome-shell/search-providers. One manifest is shipped per
provider in the built-in provider table.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate DIR",
		Short: "Write one manifest per provider into DIR",
		Args:  cobra.ExactArgs(1),
		RunE:  runManifestsGenerate,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "verify DIR",
		Short: "Check the manifests in DIR against the provider table",
		Args:  cobra.ExactArgs(1),
		RunE:  runManifestsVerify,
	})

	return cmd
}

func runManifestsGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return NewFailure("failed to load config", err)
	}
	logger := log.WithComponent(newLogger(cfg, cmd.ErrOrStderr()), "manifests")

	paths, err := manifest.Generate(args[0], providers.All)
	if err != nil {
		return NewFailure("failed to generate manifests", err)
	}
	for _, path := range paths {
		logger.Debug("wrote manifest", log.String(log.PathKey, path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func runManifestsVerify(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if _, err := os.Stat(dir); err != nil {
		return NewFailure("cannot read manifest directory", err)
	}

	manifests, err := manifest.LoadDir(os.DirFS(dir))
	if err != nil {
		return NewFailure("failed to load manifests", err)
	}
	if err := manifest.Verify(providers.All, manifests); err != nil {
		return NewFailure(fmt.Sprintf("manifests in %s do not match the provider table", dir), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d manifests match the provider table\n", len(manifests))
	return nil
}
