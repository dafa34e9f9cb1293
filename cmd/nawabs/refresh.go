// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/refresh"
	"github.com/planetis-m/nawabs/internal/workspace"
)

const refreshShortHelp = `Re-run the catalog root script`
const refreshLongHelp = `
Re-run config/roots.nims inside the current workspace, regenerating the
catalog's package manifest shards.
`

type refreshCommand struct{}

func (cmd *refreshCommand) Name() string      { return "refresh" }
func (cmd *refreshCommand) Args() string      { return "" }
func (cmd *refreshCommand) ShortHelp() string { return refreshShortHelp }
func (cmd *refreshCommand) LongHelp() string  { return refreshLongHelp }
func (cmd *refreshCommand) Hidden() bool      { return false }
func (cmd *refreshCommand) Register(fs *flag.FlagSet) {}

func (cmd *refreshCommand) Run(args []string) error {
	if len(args) > 0 {
		return errors.Errorf("too many args (%d)", len(args))
	}

	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}

	lock := workspace.NewLock(c.ws)
	locked, err := lock.TryAcquire()
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("another nawabs invocation holds the workspace lock")
	}
	defer lock.Release()

	if err := (refresh.Shell{}).Refresh(c.ws); err != nil {
		return err
	}
	logf("catalog refreshed")
	return nil
}
