// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog loads and indexes the JSON package manifests that live
// under a workspace's recipes directory.
package catalog

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/workspace"
)

// Package is an immutable catalog record. Identity is Name, compared
// case-insensitively.
type Package struct {
	Name           string
	URL            string
	DownloadMethod string
	License        string
	Description    string
	Tags           []string

	Version string
	DVCSTag string
	Web     string
}

// rawPackage mirrors the on-disk JSON shape from spec §6.
type rawPackage struct {
	Name        *string  `json:"name"`
	URL         *string  `json:"url"`
	Method      *string  `json:"method"`
	License     *string  `json:"license"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Version     string   `json:"version,omitempty"`
	DVCSTag     string   `json:"dvcs-tag,omitempty"`
	Web         string   `json:"web,omitempty"`
}

// Refresher runs the workspace's catalog-refresh script. It is the one-shot
// fallback used when a scan turns up no manifest shards.
type Refresher interface {
	Refresh(ws *workspace.Workspace) error
}

// Catalog is an ordered, name-deduplicated collection of packages.
type Catalog struct {
	byName map[string]Package
	order  []string
}

// Len returns the number of distinct packages in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// All returns the packages in scan order (first-seen-per-name).
func (c *Catalog) All() []Package {
	out := make([]Package, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.byName[n])
	}
	return out
}

// Lookup finds a package by case-insensitive name.
func (c *Catalog) Lookup(name string) (Package, bool) {
	p, ok := c.byName[strings.ToLower(name)]
	return p, ok
}

func newCatalog() *Catalog {
	return &Catalog{byName: make(map[string]Package)}
}

func (c *Catalog) add(p Package) {
	key := strings.ToLower(p.Name)
	if _, exists := c.byName[key]; exists {
		// First occurrence wins; scan order already gave earlier files
		// lexical precedence. This is the one deduplication spec §7
		// explicitly says is never reported.
		return
	}
	c.byName[key] = p
	c.order = append(c.order, key)
}

// Load scans <workspace>/<recipes_dir>/packages/*.json, decodes every
// manifest shard and merges them into a single Catalog. If the scan yields
// no packages and r is non-nil, it invokes r once and scans exactly once
// more, returning that result as is. Load keeps no state between calls.
func Load(ws *workspace.Workspace, r Refresher) (*Catalog, error) {
	cat, err := loadOnce(ws)
	if err != nil {
		return nil, err
	}
	if cat.Len() > 0 || r == nil {
		return cat, nil
	}

	if err := r.Refresh(ws); err != nil {
		return nil, errors.Wrap(err, "refreshing empty catalog")
	}
	return loadOnce(ws)
}

func loadOnce(ws *workspace.Workspace) (*Catalog, error) {
	matches, err := filepath.Glob(filepath.Join(ws.PackagesDir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "scanning packages directory")
	}
	sort.Strings(matches)

	cat := newCatalog()
	for _, f := range matches {
		if err := decodeShard(cat, f); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func decodeShard(cat *Catalog, path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var raws []rawPackage
	if err := json.Unmarshal(b, &raws); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}

	for _, raw := range raws {
		p, err := toPackage(raw, path)
		if err != nil {
			return err
		}
		cat.add(p)
	}
	return nil
}

func toPackage(raw rawPackage, file string) (Package, error) {
	required := []struct {
		field string
		val   *string
	}{
		{"name", raw.Name},
		{"url", raw.URL},
		{"method", raw.Method},
		{"license", raw.License},
		{"description", raw.Description},
	}
	for _, r := range required {
		if r.val == nil {
			return Package{}, fmt.Errorf("catalog %s: missing required field %q", file, r.field)
		}
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	return Package{
		Name:           *raw.Name,
		URL:            *raw.URL,
		DownloadMethod: *raw.Method,
		License:        *raw.License,
		Description:    *raw.Description,
		Tags:           tags,
		Version:        raw.Version,
		DVCSTag:        raw.DVCSTag,
		Web:            raw.Web,
	}, nil
}

// FromURL synthesizes a minimal Package for a bare URL reference, naming it
// after the URL's filename component (spec §4.4).
func FromURL(url string) Package {
	name := strings.TrimSuffix(path.Base(strings.TrimRight(url, "/")), ".git")
	return Package{
		Name:           name,
		URL:            url,
		DownloadMethod: "git",
		Tags:           []string{},
	}
}
