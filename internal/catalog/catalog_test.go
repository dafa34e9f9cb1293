// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/planetis-m/nawabs/internal/workspace"
)

func writeShard(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	ws, err := workspace.Init(root)
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestLoadDecodesAndDedups(t *testing.T) {
	ws := newTestWorkspace(t)

	writeShard(t, ws.PackagesDir, "a.json", `[
		{"name":"foo","url":"git://h/foo","method":"git","license":"MIT","description":"d","tags":["net"]},
		{"name":"bar","url":"git://h/bar","method":"git","license":"MIT","description":"d2","tags":[]}
	]`)
	writeShard(t, ws.PackagesDir, "b.json", `[
		{"name":"Foo","url":"git://h/other-foo","method":"git","license":"MIT","description":"d3","tags":[]}
	]`)

	cat, err := Load(ws, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("got %d packages, want 2", cat.Len())
	}

	p, ok := cat.Lookup("foo")
	if !ok {
		t.Fatal("expected to find foo")
	}
	if p.URL != "git://h/foo" {
		t.Fatalf("expected first-seen shard to win, got URL %q", p.URL)
	}
}

func TestLoadMissingRequiredFieldIsFatal(t *testing.T) {
	ws := newTestWorkspace(t)
	writeShard(t, ws.PackagesDir, "a.json", `[{"name":"foo","url":"git://h/foo"}]`)

	if _, err := Load(ws, nil); err == nil {
		t.Fatal("expected an error for a record missing required fields")
	}
}

func TestLoadTriggersRefreshOnceWhenEmpty(t *testing.T) {
	ws := newTestWorkspace(t)

	r := &refreshOnce{ws: ws}
	cat, err := Load(ws, r)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", r.calls)
	}
	if cat.Len() != 1 {
		t.Fatalf("got %d packages after refresh, want 1", cat.Len())
	}
}

type refreshOnce struct {
	ws    *workspace.Workspace
	calls int
}

func (r *refreshOnce) Refresh(ws *workspace.Workspace) error {
	r.calls++
	return ioutil.WriteFile(filepath.Join(ws.PackagesDir, "generated.json"), []byte(`[
		{"name":"foo","url":"git://h/foo","method":"git","license":"MIT","description":"d","tags":[]}
	]`), 0644)
}

func TestFromURL(t *testing.T) {
	cases := map[string]string{
		"https://github.com/u/repo.git": "repo",
		"https://github.com/u/repo":     "repo",
		"https://github.com/u/repo/":    "repo",
	}
	for url, want := range cases {
		p := FromURL(url)
		if p.Name != want {
			t.Errorf("FromURL(%q).Name = %q, want %q", url, p.Name, want)
		}
		if p.Tags == nil {
			t.Errorf("FromURL(%q).Tags should never be nil", url)
		}
	}
}
