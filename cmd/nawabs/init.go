// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/workspace"
)

const initShortHelp = `Create workspace scaffolding in the current (or given) directory`
const initLongHelp = `
Create a new nawabs workspace: a .nawabs directory holding the package
catalog, recipes, and the refresh script location. If root isn't specified,
use the current directory.
`

type initCommand struct{}

func (cmd *initCommand) Name() string      { return "init" }
func (cmd *initCommand) Args() string      { return "[root]" }
func (cmd *initCommand) ShortHelp() string { return initShortHelp }
func (cmd *initCommand) LongHelp() string  { return initLongHelp }
func (cmd *initCommand) Hidden() bool      { return false }
func (cmd *initCommand) Register(fs *flag.FlagSet) {}

func (cmd *initCommand) Run(args []string) error {
	if len(args) > 1 {
		return errors.Errorf("too many args (%d)", len(args))
	}

	root := gflags.workspaceDir
	if len(args) == 1 {
		root = args[0]
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "getting working directory")
		}
		root = wd
	}

	if existing, err := workspace.Discover(root); err == nil {
		return errors.Errorf("%s is already inside workspace %s", root, existing.Root)
	}

	ws, err := workspace.Init(root)
	if err != nil {
		return err
	}
	logf("initialized workspace at %s", ws.Root)
	return nil
}
