// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locate

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindDirectMatchWinsOverGroupingFolder(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "libs_/foo", "foo")

	p, err := Find(root, "foo")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p == nil {
		t.Fatal("expected to find foo")
	}
	if p.Subdir != root {
		t.Fatalf("expected the direct match under root to win, got subdir %q", p.Subdir)
	}
}

func TestFindRecursesIntoGroupingFolders(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "libs_/foo")

	p, err := Find(root, "foo")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p == nil {
		t.Fatal("expected to find foo nested in libs_")
	}
	want := filepath.Join(root, "libs_")
	if p.Subdir != want {
		t.Fatalf("got subdir %q, want %q", p.Subdir, want)
	}
	if p.Path() != filepath.Join(want, "foo") {
		t.Fatalf("Path() = %q", p.Path())
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "Foo")

	p, err := Find(root, "foo")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p == nil || p.Name != "Foo" {
		t.Fatalf("got %v", p)
	}
}

func TestFindNotFound(t *testing.T) {
	root := t.TempDir()
	p, err := Find(root, "nope")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil, got %v", p)
	}
}

func TestWalkProjectsVisitsEverything(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a", "b", "grp_/c", "grp_/d")

	var got []string
	err := WalkProjects(root, func(p Project) error {
		got = append(got, p.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkProjects: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %v, want 4 entries", got)
	}
}
