// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recipe persists and replays the exact command line and search
// path captured from a successful tinker run (spec §4.8), using the same
// sticky-error TOML-query idiom golang-dep's toml.go applies to its
// manifest/lock files.
package recipe

import (
	"io/ioutil"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// LastCommandKey is the reserved key a successful tinker run writes its
// final command line under, independent of the per-project recipe file
// (spec §4.7 step 2: "a fixed reserved key").
const LastCommandKey = "last_command"

// Recipe is a persisted (command, path-list) pair keyed by project name.
type Recipe struct {
	ProjectName string
	Command     string
	Path        []string
}

// PathFor returns the deterministic recipe file path for a project name.
func PathFor(recipesDir, projectName string) string {
	return filepath.Join(recipesDir, projectName+".toml")
}

// ErrNoRecipe is returned by Read when no recipe file exists.
var ErrNoRecipe = errors.New("no recipe found")

// Write persists r at PathFor(recipesDir, r.ProjectName).
func Write(recipesDir string, r Recipe) error {
	if err := os.MkdirAll(recipesDir, 0755); err != nil {
		return errors.Wrapf(err, "creating recipes dir %s", recipesDir)
	}

	tree, err := toml.TreeFromMap(map[string]interface{}{
		"command": r.Command,
		"path":    toInterfaceSlice(r.Path),
	})
	if err != nil {
		return errors.Wrap(err, "building recipe document")
	}

	out := PathFor(recipesDir, r.ProjectName)
	if err := ioutil.WriteFile(out, []byte(tree.String()), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	return nil
}

// Read loads the recipe for projectName, or ErrNoRecipe if absent.
func Read(recipesDir, projectName string) (*Recipe, error) {
	p := PathFor(recipesDir, projectName)
	b, err := ioutil.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecipe
		}
		return nil, errors.Wrapf(err, "reading %s", p)
	}

	tree, err := toml.LoadBytes(b)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", p)
	}

	mapper := &mapper{tree: tree}
	r := &Recipe{
		ProjectName: projectName,
		Command:     mapper.readString("command"),
		Path:        mapper.readStringList("path"),
	}
	if mapper.err != nil {
		return nil, mapper.err
	}
	return r, nil
}

// mapper carries a sticky error across a sequence of reads, matching
// golang-dep's tomlMapper convention: once one read fails, every
// subsequent read is a no-op and the first error wins.
type mapper struct {
	tree *toml.Tree
	err  error
}

func (m *mapper) readString(key string) string {
	if m.err != nil {
		return ""
	}
	v := m.tree.Get(key)
	if v == nil {
		m.err = errors.Errorf("missing key %q", key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		m.err = errors.Errorf("key %q should be a string, got %T", key, v)
		return ""
	}
	return s
}

func (m *mapper) readStringList(key string) []string {
	if m.err != nil {
		return nil
	}
	v := m.tree.Get(key)
	if v == nil {
		return nil
	}
	list, ok := v.([]interface{})
	if !ok {
		m.err = errors.Errorf("key %q should be a list, got %T", key, v)
		return nil
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			m.err = errors.Errorf("key %q item %d should be a string, got %T", key, i, item)
			return nil
		}
		out[i] = s
	}
	return out
}

func toInterfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// WriteLastCommand records cmd under LastCommandKey in the workspace-level
// key/value file at path. Nothing in this module reads the file back; replay
// runs the per-project recipe's Command.
func WriteLastCommand(path, cmd string) error {
	tree, err := toml.TreeFromMap(map[string]interface{}{LastCommandKey: cmd})
	if err != nil {
		return errors.Wrap(err, "building last-command document")
	}
	if err := ioutil.WriteFile(path, []byte(tree.String()), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
