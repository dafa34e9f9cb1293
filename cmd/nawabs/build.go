// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/assemble"
	"github.com/planetis-m/nawabs/internal/locate"
	"github.com/planetis-m/nawabs/internal/prompt"
	"github.com/planetis-m/nawabs/internal/recipe"
	"github.com/planetis-m/nawabs/internal/tinker"
)

const buildShortHelp = `Assemble and run a build, falling back to the resolver`
const buildLongHelp = `
<backend> <name>: assemble the build command for name using backend (e.g.
"c", "cpp", "js") and run it. If a recipe already exists for name, its
captured command replays directly; otherwise the tinkering resolver grows
the search path until compilation succeeds.
`

// buildCommand is not registered under a fixed name in the dispatch table:
// any first argument that doesn't match a known subcommand is treated as
// a backend name and routed through runBackend (spec §6's "<backend> <name>").
type buildCommand struct{}

func (cmd *buildCommand) Name() string      { return "<backend>" }
func (cmd *buildCommand) Args() string      { return "<name> [compiler args...]" }
func (cmd *buildCommand) ShortHelp() string { return buildShortHelp }
func (cmd *buildCommand) LongHelp() string  { return buildLongHelp }
func (cmd *buildCommand) Hidden() bool      { return true }
func (cmd *buildCommand) Register(fs *flag.FlagSet) {}
func (cmd *buildCommand) Run(args []string) error {
	return errors.New("<backend> is dispatched by name, not invoked directly")
}

func (cmd *buildCommand) runBackend(backend string, args []string) error {
	if len(args) < 1 {
		return errors.Errorf("usage: nawabs %s <name> [compiler args...]", backend)
	}
	name, compilerArgs := args[0], args[1:]

	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}

	proj, err := locate.Find(c.ws.Root, name)
	if err != nil {
		return err
	}
	if proj == nil {
		return errors.Errorf("project %s not found in workspace", name)
	}

	if r, err := recipe.Read(c.ws.RecipesPath, name); err == nil {
		return runRecipe(c, r, compilerArgs)
	} else if !errors.Is(err, recipe.ErrNoRecipe) {
		return err
	}

	return forceTinker(c, backend, proj, compilerArgs)
}

// runRecipe replays a captured command line exactly (spec §4.8's replay).
func runRecipe(c *ctx, r *recipe.Recipe, extraArgs []string) error {
	if len(extraArgs) > 0 {
		logf("extra args ignored on recipe replay: %s", strings.Join(extraArgs, " "))
	}
	return (shellReplay{}).Run(c.ws.Root, r.Command)
}

// forceTinker builds the initial command for proj under backend and runs
// the resolver loop on it, the shared path for both "<backend> <name>"
// (when no recipe exists) and "tinker <backend> <name>" (forced).
func forceTinker(c *ctx, backend string, proj *locate.Project, compilerArgs []string) error {
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	mainFile, err := (defaultMainFileFinder{}).FindMainFile(proj.Path())
	if err != nil {
		return err
	}
	if mainFile == "" {
		return errors.Errorf("no main source file found for %s", proj.Name)
	}

	args := make([]string, 0, 2+len(compilerArgs)+1)
	args = append(args, backend, assemble.NoDefaultPathFlag)
	args = append(args, compilerArgs...)
	args = append(args, mainFile)

	p := prompt.Stdin{In: os.Stdin, Out: os.Stderr}
	if err := tinker.Tinker(c.cfg, cat, defaultInfoReader{}, p, defaultCompiler{}, proj, args); err != nil {
		return err
	}
	printForeignDeps(c.cfg)
	return nil
}
