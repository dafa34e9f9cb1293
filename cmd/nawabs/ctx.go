// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/catalog"
	"github.com/planetis-m/nawabs/internal/refresh"
	"github.com/planetis-m/nawabs/internal/workspace"
)

// ctx carries everything a subcommand needs beyond its own flags: the
// discovered workspace (absent for init, which creates one) and the run-wide
// Config. The catalog is not kept here: commands that consult it load it
// through loadCatalog.
type ctx struct {
	ws  *workspace.Workspace
	cfg *workspace.Config
}

// globalFlags holds the flags every subcommand shares, parsed before the
// subcommand's own flag set (golang-dep's main.go folds -v in the same way).
type globalFlags struct {
	workspaceDir   string
	nimExe         string
	cloneUsingHTTPS bool
	noRecipes      bool
}

// newCtx discovers the enclosing workspace (unless skipDiscovery, used by
// init) and builds a Config from the parsed global flags.
func newCtx(gf globalFlags, skipDiscovery bool) (*ctx, error) {
	var ws *workspace.Workspace
	if !skipDiscovery {
		start := gf.workspaceDir
		if start == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, "getting working directory")
			}
			start = wd
		}
		found, err := workspace.Discover(start)
		if err != nil {
			return nil, err
		}
		ws = found
		vlogf("workspace root: %s", ws.Root)
	}

	var overrides []workspace.Override
	if ws != nil {
		o, err := workspace.LoadOverrides(ws)
		if err != nil {
			return nil, err
		}
		overrides = o
	}

	nimExe := gf.nimExe
	if nimExe == "" {
		nimExe = "nim"
	}

	cfg := &workspace.Config{
		WS:             ws,
		PreferHTTPS:    gf.cloneUsingHTTPS,
		RecipesEnabled: !gf.noRecipes,
		Interactive:    true,
		InstallPolicy:  workspace.PolicyNormal,
		CompilerExe:    nimExe,
		Overrides:      overrides,
	}

	return &ctx{ws: ws, cfg: cfg}, nil
}

// loadCatalog loads c.ws's catalog, refreshing once via the workspace's
// refresh script if it comes back empty (spec §4.1).
func (c *ctx) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(c.ws, refresh.Shell{})
}

// printForeignDeps prints the Config's accumulated foreign-dependency
// summary, if any were surfaced during the run (supplemented feature #3).
func printForeignDeps(cfg *workspace.Config) {
	if len(cfg.ForeignDeps) == 0 {
		return
	}
	logf("this project declares the following foreign (non-nawabs) dependencies:")
	for _, d := range cfg.ForeignDeps {
		logf("  %s", d)
	}
}
