// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/locate"
)

const tinkerShortHelp = `Force the resolver, ignoring any existing recipe`
const tinkerLongHelp = `
tinker <backend> <name>: run the tinkering resolver against name under
backend even if a recipe already exists for it, overwriting that recipe
on success.
`

type tinkerCommand struct{}

func (cmd *tinkerCommand) Name() string      { return "tinker" }
func (cmd *tinkerCommand) Args() string      { return "<backend> <name> [compiler args...]" }
func (cmd *tinkerCommand) ShortHelp() string { return tinkerShortHelp }
func (cmd *tinkerCommand) LongHelp() string  { return tinkerLongHelp }
func (cmd *tinkerCommand) Hidden() bool      { return false }
func (cmd *tinkerCommand) Register(fs *flag.FlagSet) {}

func (cmd *tinkerCommand) Run(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: nawabs tinker <backend> <name> [compiler args...]")
	}
	backend, name, extra := args[0], args[1], args[2:]

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

	return forceTinker(c, backend, proj, extra)
}
