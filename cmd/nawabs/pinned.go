// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/recipe"
)

const pinnedShortHelp = `Replay a recipe without pulling updates first`
const pinnedLongHelp = `
pinned <name>: replay name's captured recipe command exactly as written,
without touching the VCS checkout. Fails with "no recipe found" if name has
never completed a successful tinker run.
`

type pinnedCommand struct{}

func (cmd *pinnedCommand) Name() string      { return "pinned" }
func (cmd *pinnedCommand) Args() string      { return "<name>" }
func (cmd *pinnedCommand) ShortHelp() string { return pinnedShortHelp }
func (cmd *pinnedCommand) LongHelp() string  { return pinnedLongHelp }
func (cmd *pinnedCommand) Hidden() bool      { return false }
func (cmd *pinnedCommand) Register(fs *flag.FlagSet) {}

func (cmd *pinnedCommand) Run(args []string) error {
	if len(args) != 1 {
		return errors.New("pinned requires exactly one project name")
	}

	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}

	rec, err := recipe.Read(c.ws.RecipesPath, args[0])
	if err != nil {
		return err
	}
	return (shellReplay{}).Run(c.ws.Root, rec.Command)
}
