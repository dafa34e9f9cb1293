// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/locate"
	"github.com/planetis-m/nawabs/internal/prompt"
	"github.com/planetis-m/nawabs/internal/recipe"
	"github.com/planetis-m/nawabs/internal/vcsadapt"
	"github.com/planetis-m/nawabs/internal/workspace"
)

const updateShortHelp = `Pull the latest changes, then replay a project's recipe`
const updateLongHelp = `
update <name>: pull the latest changes for every project reachable from the
workspace root (or just name, with -project), then replay name's recipe.
Under -ask, each project's update is confirmed individually.
`

type updateCommand struct {
	project bool
	ask     bool
}

func (cmd *updateCommand) Name() string      { return "update" }
func (cmd *updateCommand) Args() string      { return "<name>" }
func (cmd *updateCommand) ShortHelp() string { return updateShortHelp }
func (cmd *updateCommand) LongHelp() string  { return updateLongHelp }
func (cmd *updateCommand) Hidden() bool      { return false }

func (cmd *updateCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.project, "project", false, "only pull name's own checkout, not the whole workspace")
	fs.BoolVar(&cmd.ask, "ask", false, "confirm before updating each project")
}

func (cmd *updateCommand) Run(args []string) error {
	if len(args) != 1 {
		return errors.New("update requires exactly one project name")
	}
	name := args[0]

	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}
	if cmd.ask {
		c.cfg.InstallPolicy = workspace.PolicyAsk
	}

	var confirm vcsadapt.ConfirmFn
	if cmd.ask {
		p := prompt.Stdin{In: os.Stdin, Out: os.Stderr}
		confirm = func(project string) (bool, error) {
			ans, err := p.Ask("update "+project+"? (y/n)", nil)
			if err != nil {
				return false, err
			}
			return ans == "y" || ans == "yes", nil
		}
	}

	if cmd.project {
		proj, err := locate.Find(c.ws.Root, name)
		if err != nil {
			return err
		}
		if proj == nil {
			return errors.Errorf("project %s not found in workspace", name)
		}
		pull := true
		if confirm != nil {
			if pull, err = confirm(proj.Name); err != nil {
				return err
			}
		}
		if pull {
			r, err := vcsadapt.Open(proj.Path())
			if err != nil {
				return err
			}
			if err := vcsadapt.Update(r); err != nil {
				return err
			}
		}
	} else if err := vcsadapt.UpdateEverything(c.ws.Root, confirm); err != nil {
		return err
	}

	rec, err := recipe.Read(c.ws.RecipesPath, name)
	if err != nil {
		return err
	}
	return (shellReplay{}).Run(c.ws.Root, rec.Command)
}
