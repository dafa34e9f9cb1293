// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package locate implements the project locator: finding a previously
// cloned project inside a workspace by a convention-based directory layout.
package locate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/workspace"
)

// Project is a materialized checkout on disk.
type Project struct {
	Name   string // directory basename
	Subdir string // absolute path to the parent directory
}

// Path returns the project's full path (spec §3: "subdir / name").
func (p Project) Path() string {
	return filepath.Join(p.Subdir, p.Name)
}

// Find walks immediate subdirectories of root looking for a case-insensitive
// Unicode match on name. The recipes directory is skipped. Directories whose
// basename ends in "_" are grouping folders: all immediate non-grouping
// matches at a given level are considered before recursing into any
// grouping folder at that level, so a project directly under root takes
// precedence over one nested inside a grouping folder (spec §4.3, §8
// scenario 6).
func Find(root string, name string) (*Project, error) {
	return findIn(root, name)
}

func findIn(dir string, name string) (*Project, error) {
	entries, err := readSubdirs(dir)
	if err != nil {
		return nil, err
	}

	var groupDirs []string
	for _, base := range entries {
		if base == workspace.RecipesDirName {
			continue
		}
		if workspace.IsGroupingFolder(base) {
			groupDirs = append(groupDirs, base)
			continue
		}
		if strings.EqualFold(base, name) {
			return &Project{Name: base, Subdir: dir}, nil
		}
	}

	for _, base := range groupDirs {
		found, err := findIn(filepath.Join(dir, base), name)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}

	return nil, nil
}

// WalkProjects visits every project directory reachable from root: all
// immediate non-grouping subdirectories, then recursively everything inside
// grouping folders. Used by update-everything (spec §4.5) where every
// checkout in the workspace needs visiting, not just the first match.
func WalkProjects(root string, fn func(p Project) error) error {
	return walkIn(root, fn)
}

func walkIn(dir string, fn func(p Project) error) error {
	entries, err := readSubdirs(dir)
	if err != nil {
		return err
	}

	var groupDirs []string
	for _, base := range entries {
		if base == workspace.RecipesDirName {
			continue
		}
		if workspace.IsGroupingFolder(base) {
			groupDirs = append(groupDirs, base)
			continue
		}
		if err := fn(Project{Name: base, Subdir: dir}); err != nil {
			return err
		}
	}

	for _, base := range groupDirs {
		if err := walkIn(filepath.Join(dir, base), fn); err != nil {
			return err
		}
	}
	return nil
}

// readSubdirs returns the basenames of dir's immediate subdirectories, in
// sorted order for deterministic traversal.
func readSubdirs(dir string) ([]string, error) {
	entries, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var out []string
	for _, de := range entries {
		if de.IsDir() {
			out = append(out, de.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
