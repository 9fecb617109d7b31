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

// Package searchprovider implements the org.gnome.Shell.SearchProvider2
// interface over a source of recent items.
package searchprovider

import (
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/recent"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// Interface is the D-Bus interface name implemented by Provider.
const Interface = "org.gnome.Shell.SearchProvider2"

// Launcher starts the application a provider belongs to.
type Launcher interface {
	Launch(uris []string) error
}

// Provider answers search provider calls for one application.
//
// It holds no state between calls: every call reads the source afresh.
type Provider struct {
	icon     string
	home     string
	launcher Launcher
	source   recent.Source
	logger   *slog.Logger
}

// New returns a provider serving items from source and launching them with
// launcher. icon is the serialized icon shown next to results.
func New(launcher Launcher, icon string, source recent.Source, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	home, _ := os.UserHomeDir()
	return &Provider{
		icon:     icon,
		home:     home,
		launcher: launcher,
		source:   source,
		logger:   logger,
	}
}

// GetInitialResultSet returns the IDs of all items matching terms, best
// match first.
func (p *Provider) GetInitialResultSet(terms []string) ([]string, error) {
	p.logger.Debug("searching", slog.Any("terms", terms))
	items, err := p.source.FindRecentItems()
	if err != nil {
		return nil, err
	}
	return Match(items, terms), nil
}

// GetSubsearchResultSet refines a previous result set with new terms.
func (p *Provider) GetSubsearchResultSet(previousResults []string, terms []string) ([]string, error) {
	p.logger.Debug("refining search", slog.Any("terms", terms), log.Int("previous", len(previousResults)))
	items, err := p.source.FindRecentItems()
	if err != nil {
		return nil, err
	}

	candidates := make(recent.IDMap, len(previousResults))
	for _, id := range previousResults {
		if item, ok := items[id]; ok {
			candidates[id] = item
		}
	}
	return Match(candidates, terms), nil
}

// GetResultMetas describes the given results. Unknown IDs are skipped.
func (p *Provider) GetResultMetas(identifiers []string) ([]map[string]dbus.Variant, error) {
	items, err := p.source.FindRecentItems()
	if err != nil {
		return nil, err
	}

	metas := make([]map[string]dbus.Variant, 0, len(identifiers))
	for _, id := range identifiers {
		item, ok := items[id]
		if !ok {
			p.logger.Debug("no metadata for unknown result", slog.String("id", id))
			continue
		}
		meta := map[string]dbus.Variant{
			"id":          dbus.MakeVariant(id),
			"name":        dbus.MakeVariant(item.Name),
			"description": dbus.MakeVariant(p.describe(item.Path)),
		}
		if p.icon != "" {
			meta["gicon"] = dbus.MakeVariant(p.icon)
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// ActivateResult opens the result's workspace in the application.
func (p *Provider) ActivateResult(identifier string, terms []string, timestamp uint32) error {
	items, err := p.source.FindRecentItems()
	if err != nil {
		return err
	}
	item, ok := items[identifier]
	if !ok {
		return &providererrors.NotFoundError{Resource: "result", ID: identifier}
	}

	p.logger.Info("launching workspace", log.String(log.PathKey, item.Path))
	return p.launcher.Launch([]string{item.Path})
}

// LaunchSearch starts the application without opening a workspace.
func (p *Provider) LaunchSearch(terms []string, timestamp uint32) error {
	p.logger.Info("launching application")
	return p.launcher.Launch(nil)
}

// describe turns a workspace URL into the text shown below its name.
// Local folders are shown as paths, with ~ for the home directory.
func (p *Provider) describe(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return rawURL
	}
	path := u.Path
	if p.home != "" && (path == p.home || strings.HasPrefix(path, p.home+"/")) {
		return "~" + strings.TrimPrefix(path, p.home)
	}
	return path
}

// Match returns the IDs of the items matching all terms, ordered by score,
// then name, then ID.
//
// A term matches an item if the item's name or URL contains it, ignoring
// case. A term found in the name counts more than one found only in the URL.
func Match(items recent.IDMap, terms []string) []string {
	lowered := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			lowered = append(lowered, term)
		}
	}

	type scored struct {
		id    string
		name  string
		score int
	}
	var matches []scored
	for _, id := range items.IDs() {
		item := items[id]
		if score, ok := Score(item, lowered); ok {
			matches = append(matches, scored{id: id, name: item.Name, score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id < b.id
	})

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.id
	}
	return ids
}

// Score rates item against lowercase terms. It reports false if any term
// is found in neither the name nor the URL.
func Score(item recent.Item, terms []string) (int, bool) {
	name := strings.ToLower(item.Name)
	path := strings.ToLower(item.Path)

	score := 0
	for _, term := range terms {
		switch {
		case strings.Contains(name, term):
			score += 10
		case strings.Contains(path, term):
			score++
		default:
			return 0, false
		}
	}
	return score, true
}
