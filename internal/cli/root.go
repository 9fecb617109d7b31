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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/code-search-provider/internal/appinfo"
	"github.com/tombee/code-search-provider/internal/bus"
	"github.com/tombee/code-search-provider/internal/config"
	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/providers"
	"github.com/tombee/code-search-provider/internal/service"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// NewRootCommand creates the root Cobra command
func NewRootCommand() *cobra.Command {
	var listProviders bool

	cmd := &cobra.Command{
		Use:   "code-search-provider",
		Short: "GNOME Shell search provider for recent VS Code workspaces",
		Long: `code-search-provider adds the recently opened workspaces of Visual Studio
Code and its builds (Code - OSS, Code - Insiders, VSCodium) to the GNOME
Shell search.

Without arguments it runs the search provider service on the session bus
until it receives SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		RunE: func(cmd *cobra.Command, args []string) error {
			if listProviders {
				return runListProviders(cmd)
			}
			return runService(cmd)
		},
	}

	cmd.Flags().BoolVar(&listProviders, "providers", false, "List all known providers and exit")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default: ~/.config/code-search-provider/config.yaml)")

	cmd.AddCommand(NewManifestsCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// runListProviders prints the label of every provider, sorted.
func runListProviders(cmd *cobra.Command) error {
	for _, label := range providers.Labels(providers.All) {
		fmt.Fprintln(cmd.OutOrStdout(), label)
	}
	return nil
}

func runService(cmd *cobra.Command) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return NewFailure("failed to load config", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	if err := providers.Check(providers.All); err != nil {
		logger.Error("invalid provider table", log.Error(err))
		return NewFailure("invalid provider table", err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	rt := &service.Runtime{
		Connector: func(ctx context.Context) (service.Bus, error) {
			conn, err := bus.Connect(ctx, logger)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		Signals:    signals,
		Apps:       appinfo.NewFinder(logger),
		Providers:  providers.All,
		ConfigRoot: cfg.ConfigRoot,
		Logger:     logger,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := rt.Run(ctx); err != nil {
		logStopError(logger, err)
		return NewFailure("search provider stopped", err)
	}
	return nil
}

// logStopError logs the error that ended the service. Fatal errors come
// from startup or from losing the bus; anything else is unexpected.
func logStopError(logger *slog.Logger, err error) {
	attrs := []any{
		slog.String("error_type", providererrors.TypeOf(err)),
		log.Error(err),
	}
	if providererrors.IsFatal(err) {
		logger.Error("fatal error, exiting", attrs...)
		return
	}
	logger.Error("search provider stopped unexpectedly", attrs...)
}

func newLogger(cfg *config.Config, output io.Writer) *slog.Logger {
	level := cfg.Log.Level
	if verboseFlag {
		level = "debug"
	}
	return log.New(&log.Config{
		Level:     level,
		Format:    log.Format(cfg.Log.Format),
		Output:    output,
		AddSource: cfg.Log.AddSource,
	})
}
