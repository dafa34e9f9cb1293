// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"errors"
	"testing"
)

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()

	r := Recipe{
		ProjectName: "foo",
		Command:     "nim c --noNimblePath --path:/x/libA/src main.nim",
		Path:        []string{"/x/libA/src"},
	}

	if err := Write(dir, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(dir, "foo")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Command != r.Command {
		t.Fatalf("got command %q, want %q", got.Command, r.Command)
	}
	if len(got.Path) != 1 || got.Path[0] != r.Path[0] {
		t.Fatalf("got path %v, want %v", got.Path, r.Path)
	}
}

func TestReadMissingRecipe(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(dir, "nope")
	if !errors.Is(err, ErrNoRecipe) {
		t.Fatalf("got %v, want ErrNoRecipe", err)
	}
}

func TestWriteLastCommand(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/last_command.toml"

	if err := WriteLastCommand(path, "nim c main.nim"); err != nil {
		t.Fatalf("WriteLastCommand: %v", err)
	}
}
