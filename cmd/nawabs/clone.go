// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/cloner"
	"github.com/planetis-m/nawabs/internal/prompt"
)

const cloneShortHelp = `Acquire a single package at the workspace root`
const cloneLongHelp = `
Clone name (a catalog entry or a bare VCS URL) and every package its project
info declares as a requirement, applying the workspace's placement policy.
`

type cloneCommand struct{}

func (cmd *cloneCommand) Name() string      { return "clone" }
func (cmd *cloneCommand) Args() string      { return "<name>" }
func (cmd *cloneCommand) ShortHelp() string { return cloneShortHelp }
func (cmd *cloneCommand) LongHelp() string  { return cloneLongHelp }
func (cmd *cloneCommand) Hidden() bool      { return false }
func (cmd *cloneCommand) Register(fs *flag.FlagSet) {}

func (cmd *cloneCommand) Run(args []string) error {
	if len(args) != 1 {
		return errors.New("clone requires exactly one package name or URL")
	}

	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	p := prompt.Stdin{In: os.Stdin, Out: os.Stderr}
	already, err := cloner.CloneRec(c.cfg, cat, defaultInfoReader{}, p, args[0], 0)
	if err != nil {
		return err
	}
	if already {
		logf("%s already present", args[0])
	} else {
		logf("cloned %s", args[0])
	}
	printForeignDeps(c.cfg)
	return nil
}
