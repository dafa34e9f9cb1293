// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workspace locates a nawabs workspace on disk and carries the
// run-wide configuration threaded through every other package.
package workspace

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/theckman/go-flock"
	yaml "gopkg.in/yaml.v2"
)

// RecipesDirName is the reserved subdirectory holding the catalog, recipes
// and refresh script for a workspace.
const RecipesDirName = ".nawabs"

// InstallPolicy controls how the cloner places a recursively discovered
// dependency that isn't already present in the workspace.
type InstallPolicy int

const (
	// PolicyNormal lets the placement logic in internal/cloner decide
	// (workspace root, deps dir, or an interactive prompt).
	PolicyNormal InstallPolicy = iota
	// PolicyNone forbids installing any dependency; encountering one is a
	// fatal PolicyViolation.
	PolicyNone
	// PolicyOnly restricts acquisition to the single package named on the
	// command line; nothing else may be cloned.
	PolicyOnly
	// PolicyAsk always prompts before installing, even when a non-prompting
	// placement would otherwise be chosen.
	PolicyAsk
)

// Workspace is a directory tree containing a RecipesDirName subdirectory.
type Workspace struct {
	Root        string
	RecipesDir  string
	PackagesDir string
	RecipesPath string
}

// Config is the run-wide configuration threaded through catalog loading,
// ranking, cloning, assembly and tinkering.
type Config struct {
	WS *Workspace

	DepsDir        string // optional; empty means "no dedicated deps dir"
	PreferHTTPS    bool
	RecipesEnabled bool
	Interactive    bool
	InstallPolicy  InstallPolicy
	CompilerExe    string

	// Overrides holds the workspace's nawabs.yml pins, if any, consulted by
	// the cloner ahead of a catalog lookup (supplemented feature: workspace
	// override file).
	Overrides []Override

	// ForeignDeps accumulates every foreign_deps entry surfaced by any
	// project's info across the run, in first-seen order.
	ForeignDeps []string
}

// FindOverride returns the override pinning name, if any, matched
// case-insensitively.
func (c *Config) FindOverride(name string) (Override, bool) {
	for _, o := range c.Overrides {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}
	return Override{}, false
}

// AddForeignDeps appends deps not already present, preserving order.
func (c *Config) AddForeignDeps(deps []string) {
	seen := make(map[string]struct{}, len(c.ForeignDeps))
	for _, d := range c.ForeignDeps {
		seen[d] = struct{}{}
	}
	for _, d := range deps {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		c.ForeignDeps = append(c.ForeignDeps, d)
	}
}

// Discover walks upward from startDir until it finds a directory containing
// RecipesDirName, mirroring golang-dep's manifest-search convention.
func Discover(startDir string) (*Workspace, error) {
	from := startDir
	for {
		rd := filepath.Join(from, RecipesDirName)
		if fi, err := os.Stat(rd); err == nil && fi.IsDir() {
			return newWorkspace(from), nil
		} else if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "checking %s", rd)
		}

		parent := filepath.Dir(from)
		if parent == from {
			return nil, errors.New("no enclosing nawabs workspace found")
		}
		from = parent
	}
}

func newWorkspace(root string) *Workspace {
	rd := filepath.Join(root, RecipesDirName)
	return &Workspace{
		Root:        root,
		RecipesDir:  rd,
		PackagesDir: filepath.Join(rd, "packages"),
		RecipesPath: filepath.Join(rd, "recipes"),
	}
}

// Init scaffolds a fresh workspace rooted at root.
func Init(root string) (*Workspace, error) {
	ws := newWorkspace(root)
	for _, dir := range []string{ws.RecipesDir, ws.PackagesDir, ws.RecipesPath, filepath.Join(ws.RecipesDir, "config")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", dir)
		}
	}
	return ws, nil
}

// Override is a single workspace-pinned package entry read from nawabs.yml,
// letting a user fix a package's URL or branch ahead of catalog resolution.
type Override struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
}

// LoadOverrides reads the optional nawabs.yml at the workspace root. A
// missing file is not an error; it yields a nil slice.
func LoadOverrides(ws *Workspace) ([]Override, error) {
	p := filepath.Join(ws.Root, "nawabs.yml")
	b, err := ioutil.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", p)
	}

	var raw struct {
		Overrides []Override `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", p)
	}
	return raw.Overrides, nil
}

// Lock is an advisory, workspace-wide mutual exclusion lock. The refresh
// command takes it; clone, catalog load and recipe writes run without it.
// It exists because
// spec-level concurrent runs against one workspace are explicitly
// unsupported; taking the lock turns an accidental second run into a clear
// failure instead of a silent race.
type Lock struct {
	fl *flock.Flock
}

// NewLock returns (but does not acquire) the advisory lock for ws.
func NewLock(ws *Workspace) *Lock {
	return &Lock{fl: flock.NewFlock(filepath.Join(ws.RecipesDir, "lock"))}
}

// TryAcquire attempts to take the lock without blocking.
func (l *Lock) TryAcquire() (bool, error) {
	locked, err := l.fl.TryLock()
	if err != nil {
		return false, errors.Wrap(err, "acquiring workspace lock")
	}
	return locked, nil
}

// Release drops the lock if held.
func (l *Lock) Release() error {
	if !l.fl.Locked() {
		return nil
	}
	return l.fl.Unlock()
}

// IsGroupingFolder reports whether name is a grouping-folder basename per
// spec §4.3: any non-empty basename ending in "_", excluding the recipes
// directory itself.
func IsGroupingFolder(name string) bool {
	return name != "" && name != RecipesDirName && strings.HasSuffix(name, "_")
}
