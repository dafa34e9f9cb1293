// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assemble builds the deterministic compiler command line for a
// package by walking its declared requirements and appending --path:
// entries for each resolved dependency (spec §4.6).
package assemble

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/catalog"
	"github.com/planetis-m/nawabs/internal/cloner"
	"github.com/planetis-m/nawabs/internal/locate"
	"github.com/planetis-m/nawabs/internal/workspace"
)

// maxDepth mirrors internal/cloner's recursion bound (spec §4.6).
const maxDepth = 10

// ErrRecursionBound is returned once depth exceeds maxDepth.
var ErrRecursionBound = errors.New("unbounded recursion")

// defaultBackend is used when a project's info doesn't specify one.
const defaultBackend = "c"

// NoDefaultPathFlag disables the compiler's built-in package-path
// discovery so only explicitly assembled --path: entries are considered.
const NoDefaultPathFlag = "--noNimblePath"

// MainFileFinder locates a project's main source file.
type MainFileFinder interface {
	FindMainFile(projectPath string) (string, error)
}

// BuildCmd assembles the command line to build pkg, recursing through its
// requirements tree in pre-order. It returns the full command string and
// the ordered list of resolved dependency paths appended along the way
// (duplicates permitted here; the tinker loop deduplicates on insertion).
func BuildCmd(cfg *workspace.Config, cat *catalog.Catalog, info cloner.InfoReader, mff MainFileFinder, pkg catalog.Package) (string, []string, error) {
	proj, err := locate.Find(cfg.WS.Root, pkg.Name)
	if err != nil {
		return "", nil, err
	}
	if proj == nil {
		return "", nil, errors.Errorf("project for %s not found in workspace", pkg.Name)
	}

	pinfo, err := info.ReadInfo(proj.Path())
	if err != nil {
		return "", nil, errors.Wrapf(err, "reading project info for %s", pkg.Name)
	}

	backend := pinfo.Backend
	if backend == "" {
		backend = defaultBackend
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s %s", backend, NoDefaultPathFlag)

	var paths []string
	for _, req := range pinfo.Requires {
		if err := walkRequirement(cfg, cat, info, req, 1, &b, &paths); err != nil {
			return "", nil, err
		}
	}

	mainFile, err := mff.FindMainFile(proj.Path())
	if err != nil {
		return "", nil, errors.Wrapf(err, "locating main file for %s", pkg.Name)
	}
	if mainFile == "" {
		return "", nil, errors.Errorf("no main source file found for %s", pkg.Name)
	}
	fmt.Fprintf(&b, " %s", mainFile)

	return b.String(), paths, nil
}

func walkRequirement(cfg *workspace.Config, cat *catalog.Catalog, info cloner.InfoReader, ref string, depth int, b *strings.Builder, paths *[]string) error {
	if depth > maxDepth {
		return ErrRecursionBound
	}

	pkg, err := lookup(cat, ref)
	if err != nil {
		return err
	}

	proj, err := locate.Find(cfg.WS.Root, pkg.Name)
	if err != nil {
		return err
	}
	if proj == nil {
		return errors.Errorf("dependency %s not found in workspace", pkg.Name)
	}

	depPath := proj.Path()
	fmt.Fprintf(b, " --path:%q", depPath)
	*paths = append(*paths, depPath)

	pinfo, err := info.ReadInfo(depPath)
	if err != nil {
		return errors.Wrapf(err, "reading project info for %s", pkg.Name)
	}
	for _, req := range pinfo.Requires {
		if err := walkRequirement(cfg, cat, info, req, depth+1, b, paths); err != nil {
			return err
		}
	}
	return nil
}

func lookup(cat *catalog.Catalog, ref string) (catalog.Package, error) {
	pkg, ok := cat.Lookup(ref)
	if !ok {
		return catalog.Package{}, errors.Errorf("unresolved package %q", ref)
	}
	return pkg, nil
}
