// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"github.com/planetis-m/nawabs/internal/catalog"
	"github.com/planetis-m/nawabs/internal/rank"
)

const searchShortHelp = `Search the catalog for packages matching terms`
const searchLongHelp = `
Search the catalog for packages whose name or tags match any of the given
terms, printed in candidate-ranker order: exact name matches first, then
substring matches, then tag matches. With no terms, every catalog entry is
printed (equivalent to "list").
`

type searchCommand struct{}

func (cmd *searchCommand) Name() string      { return "search" }
func (cmd *searchCommand) Args() string      { return "[terms...]" }
func (cmd *searchCommand) ShortHelp() string { return searchShortHelp }
func (cmd *searchCommand) LongHelp() string  { return searchLongHelp }
func (cmd *searchCommand) Hidden() bool      { return false }
func (cmd *searchCommand) Register(fs *flag.FlagSet) {}

func (cmd *searchCommand) Run(args []string) error {
	c, err := newCtx(gflags, false)
	if err != nil {
		return err
	}
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printAll(cat)
		return nil
	}

	candidates := rank.Rank(cat.All(), args)
	for _, bucket := range candidates {
		for _, p := range bucket {
			printPackage(p)
		}
	}
	return nil
}

func printAll(cat *catalog.Catalog) {
	for _, p := range cat.All() {
		printPackage(p)
	}
}

func printPackage(p catalog.Package) {
	fmt.Printf("%-24s %s\n", p.Name, p.URL)
}
