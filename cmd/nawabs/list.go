// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"strings"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/catalog"
)

const listShortHelp = `List every package in the catalog`
const listLongHelp = `
List every package in the catalog, one per line. With -tags, only packages
carrying a tag containing the given substring (case-insensitive) are listed.
`

type listCommand struct {
	tag string
}

func (cmd *listCommand) Name() string      { return "list" }
func (cmd *listCommand) Args() string      { return "" }
func (cmd *listCommand) ShortHelp() string { return listShortHelp }
func (cmd *listCommand) LongHelp() string  { return listLongHelp }
func (cmd *listCommand) Hidden() bool      { return false }

func (cmd *listCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.tag, "tags", "", "only list packages carrying this tag")
}

func (cmd *listCommand) Run(args []string) error {
	if len(args) > 0 {
		return errors.Errorf("too many args (%d)", len(args))
	}

	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	if cmd.tag == "" {
		printAll(cat)
		return nil
	}

	for _, p := range cat.All() {
		if hasMatchingTag(p, cmd.tag) {
			printPackage(p)
		}
	}
	return nil
}

func hasMatchingTag(p catalog.Package, tag string) bool {
	lt := strings.ToLower(tag)
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), lt) {
			return true
		}
	}
	return false
}
