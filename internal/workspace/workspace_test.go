// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workspace

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestInitAndDiscover(t *testing.T) {
	root := t.TempDir()

	ws, err := Init(root)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if ws.Root != root {
		t.Fatalf("got root %q, want %q", ws.Root, root)
	}

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if found.Root != root {
		t.Fatalf("Discover found %q, want %q", found.Root, root)
	}
}

func TestDiscoverNotFound(t *testing.T) {
	root := t.TempDir()
	if _, err := Discover(root); err == nil {
		t.Fatal("expected an error for a directory outside any workspace")
	}
}

func TestIsGroupingFolder(t *testing.T) {
	cases := map[string]bool{
		"foo_":         true,
		"foo":          false,
		"":             false,
		RecipesDirName: false,
		"_":            true,
	}
	for name, want := range cases {
		if got := IsGroupingFolder(name); got != want {
			t.Errorf("IsGroupingFolder(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestConfigAddForeignDeps(t *testing.T) {
	var cfg Config
	cfg.AddForeignDeps([]string{"libssl", "libz"})
	cfg.AddForeignDeps([]string{"libz", "libpng"})

	want := []string{"libssl", "libz", "libpng"}
	if len(cfg.ForeignDeps) != len(want) {
		t.Fatalf("got %v, want %v", cfg.ForeignDeps, want)
	}
	for i, w := range want {
		if cfg.ForeignDeps[i] != w {
			t.Fatalf("got %v, want %v", cfg.ForeignDeps, want)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	root := t.TempDir()
	ws := newWorkspace(root)

	doc := []byte("overrides:\n  - name: foo\n    url: https://example.com/foo\n    branch: dev\n")
	if err := ioutil.WriteFile(filepath.Join(root, "nawabs.yml"), doc, 0644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadOverrides(ws)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if len(overrides) != 1 || overrides[0].Name != "foo" || overrides[0].Branch != "dev" {
		t.Fatalf("got %+v", overrides)
	}
}

func TestLoadOverridesMissingFileIsNotAnError(t *testing.T) {
	ws := newWorkspace(t.TempDir())
	overrides, err := LoadOverrides(ws)
	if err != nil {
		t.Fatalf("expected no error for a missing nawabs.yml, got %v", err)
	}
	if overrides != nil {
		t.Fatalf("expected nil overrides, got %v", overrides)
	}
}

func TestFindOverride(t *testing.T) {
	cfg := Config{Overrides: []Override{{Name: "Foo", URL: "u", Branch: "b"}}}

	if o, ok := cfg.FindOverride("foo"); !ok || o.Branch != "b" {
		t.Fatalf("expected case-insensitive match, got %+v, %v", o, ok)
	}
	if _, ok := cfg.FindOverride("bar"); ok {
		t.Fatal("expected no match for bar")
	}
}

func TestLock(t *testing.T) {
	ws := newWorkspace(t.TempDir())
	if err := os.MkdirAll(ws.RecipesDir, 0755); err != nil {
		t.Fatal(err)
	}

	l := NewLock(ws)
	locked, err := l.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	if !locked {
		t.Fatal("expected to acquire an uncontended lock")
	}

	l2 := NewLock(ws)
	locked2, err := l2.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire (second): %v", err)
	}
	if locked2 {
		t.Fatal("expected the second lock attempt to fail while the first is held")
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}
