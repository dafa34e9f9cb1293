// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

const version = "0.1.0"

var (
	verbose = flag.Bool("v", false, "enable verbose logging")

	gflags globalFlags
)

type command interface {
	Name() string           // "foobar"
	Args() string           // "<baz> [quux...]"
	ShortHelp() string      // "Foo the first bar"
	LongHelp() string       // "Foo the first bar meeting the following conditions..."
	Register(*flag.FlagSet) // command-specific flags
	Hidden() bool           // indicates whether the command should be hidden from help output
	Run([]string) error
}

func main() {
	fs := flag.NewFlagSet("nawabs", flag.ContinueOnError)
	fs.StringVar(&gflags.workspaceDir, "workspace", "", "workspace root (default: discovered from cwd)")
	fs.StringVar(&gflags.nimExe, "nimExe", "", "compiler executable (default: nim)")
	fs.BoolVar(&gflags.cloneUsingHTTPS, "cloneUsingHttps", false, "rewrite git:// clone URLs to https://")
	fs.BoolVar(&gflags.noRecipes, "norecipes", false, "do not write a recipe on a successful build")
	fs.BoolVar(verbose, "v", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print the version and exit")

	args := os.Args[1:]
	split := splitGlobalArgs(args)

	if err := fs.Parse(split.global); err != nil {
		os.Exit(1)
	}
	if *showVersion {
		fmt.Println("nawabs", version)
		return
	}

	commands := []command{
		&initCommand{},
		&refreshCommand{},
		&searchCommand{},
		&listCommand{},
		&cloneCommand{},
		&tinkerCommand{},
		&updateCommand{},
		&pinnedCommand{},
	}

	usage := func() {
		fmt.Fprintln(os.Stderr, "Usage: nawabs [flags] <command> [args...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr)
		w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
		for _, c := range commands {
			if !c.Hidden() {
				fmt.Fprintf(w, "\t%s\t%s\n", c.Name(), c.ShortHelp())
			}
		}
		w.Flush()
		fmt.Fprintln(os.Stderr, "\t<backend> <name>\tassemble and build name with backend, falling back to tinker")
		fmt.Fprintln(os.Stderr)
	}

	if len(split.rest) == 0 || isHelpArg(split.rest[0]) {
		usage()
		os.Exit(1)
	}

	name := split.rest[0]
	for _, c := range commands {
		if c.Name() == name {
			cfs := flag.NewFlagSet(name, flag.ExitOnError)
			c.Register(cfs)
			resetUsage(cfs, c.Name(), c.Args(), c.LongHelp())

			if err := cfs.Parse(split.rest[1:]); err != nil {
				cfs.Usage()
				os.Exit(1)
			}
			if err := c.Run(cfs.Args()); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Not a known subcommand name: spec §6 treats it as a backend name
	// (buildCommand dispatches on whatever the first arg is).
	bc := &buildCommand{}
	cfs := flag.NewFlagSet(name, flag.ExitOnError)
	bc.Register(cfs)
	resetUsage(cfs, bc.Name(), bc.Args(), bc.LongHelp())
	if err := cfs.Parse(split.rest[1:]); err != nil {
		cfs.Usage()
		os.Exit(1)
	}
	if err := bc.runBackend(name, cfs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// splitGlobalArgs separates leading global flags (before the subcommand
// name) from the subcommand name and its own args, since the stdlib flag
// package stops parsing at the first non-flag argument.
type argSplit struct {
	global []string
	rest   []string
}

func splitGlobalArgs(args []string) argSplit {
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			return argSplit{global: args[:i], rest: args[i:]}
		}
	}
	return argSplit{global: args, rest: nil}
}

func isHelpArg(a string) bool {
	return strings.ToLower(a) == "-h" || strings.ToLower(a) == "--help" || strings.ToLower(a) == "help"
}

func resetUsage(fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags   bool
		flagBlock  bytes.Buffer
		flagWriter = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		defValue := f.DefValue
		if defValue == "" {
			defValue = "<none>"
		}
		fmt.Fprintf(flagWriter, "\t-%s\t%s (default: %s)\n", f.Name, f.Usage, defValue)
	})
	flagWriter.Flush()
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nawabs %s %s\n", name, args)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, strings.TrimSpace(longHelp))
		fmt.Fprintln(os.Stderr)
		if hasFlags {
			fmt.Fprintln(os.Stderr, "Flags:")
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, flagBlock.String())
		}
	}
}

func logf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "nawabs: "+format+"\n", args...)
}

func vlogf(format string, args ...interface{}) {
	if !*verbose {
		return
	}
	logf(format, args...)
}
