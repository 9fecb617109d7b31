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
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
	"syscall"

	"github.com/kballard/go-shellquote"

	"github.com/tombee/code-search-provider/internal/log"
)

// keyFileEscapes undoes the string escapes of the desktop file format,
// which apply before the Exec quoting rules.
var keyFileEscapes = strings.NewReplacer(`\s`, " ", `\n`, "\n", `\t`, "\t", `\r`, "\r", `\\`, `\`)

// CommandLine returns the argument vector for launching the application
// with uris, expanding the field codes of the Exec key.
func (a *App) CommandLine(uris []string) ([]string, error) {
	if a.Exec == "" {
		return nil, fmt.Errorf("desktop file %s has no Exec key", a.Path)
	}
	words, err := shellquote.Split(keyFileEscapes.Replace(a.Exec))
	if err != nil {
		return nil, fmt.Errorf("invalid Exec key in %s: %w", a.Path, err)
	}

	files := localPaths(uris)
	var args []string
	for _, word := range words {
		switch word {
		case "%U":
			args = append(args, uris...)
			continue
		case "%F":
			args = append(args, files...)
			continue
		case "%i":
			if a.Icon != "" {
				args = append(args, "--icon", a.Icon)
			}
			continue
		}
		expanded := a.expandInline(word, uris, files)
		if expanded == "" && word != "" {
			// The word consisted of field codes without a value.
			continue
		}
		args = append(args, expanded)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("the Exec key in %s expands to nothing", a.Path)
	}
	return args, nil
}

// expandInline replaces the single-valued field codes inside word.
func (a *App) expandInline(word string, uris, files []string) string {
	var b strings.Builder
	for i := 0; i < len(word); i++ {
		if word[i] != '%' || i == len(word)-1 {
			b.WriteByte(word[i])
			continue
		}
		i++
		switch word[i] {
		case '%':
			b.WriteByte('%')
		case 'u':
			if len(uris) > 0 {
				b.WriteString(uris[0])
			}
		case 'f':
			if len(files) > 0 {
				b.WriteString(files[0])
			}
		case 'c':
			b.WriteString(a.Name)
		case 'k':
			b.WriteString(a.Path)
		default:
			// Deprecated and unknown field codes are dropped.
		}
	}
	return b.String()
}

// localPaths returns the file system paths of the file:// URIs in uris.
func localPaths(uris []string) []string {
	var paths []string
	for _, uri := range uris {
		u, err := url.Parse(uri)
		if err != nil || u.Scheme != "file" {
			continue
		}
		paths = append(paths, u.Path)
	}
	return paths
}

// Launch starts the application with uris, detached from this process.
func (a *App) Launch(uris []string) error {
	args, err := a.CommandLine(uris)
	if err != nil {
		return err
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", a.ID, err)
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pid := cmd.Process.Pid
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("application exited with error",
				log.String("desktop_id", a.ID), log.Int("pid", pid), log.Error(err))
			return
		}
		logger.Debug("application exited", log.String("desktop_id", a.ID), log.Int("pid", pid))
	}()
	return nil
}
