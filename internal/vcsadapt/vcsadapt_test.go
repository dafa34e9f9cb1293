// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcsadapt

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeURLRewritesGitToHTTPS(t *testing.T) {
	got := NormalizeURL("git://github.com/foo/bar", true)
	want := "https://github.com/foo/bar"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeURLLeavesGitAloneWithoutPreferHTTPS(t *testing.T) {
	got := NormalizeURL("git://github.com/foo/bar", false)
	want := "git://github.com/foo/bar"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeURLTrimsGithubTrailingSlash(t *testing.T) {
	got := NormalizeURL("https://github.com/foo/bar/", false)
	want := "https://github.com/foo/bar"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBackoffGrowsLinearly(t *testing.T) {
	if backoff(0) != 200*time.Millisecond {
		t.Fatalf("got %v for attempt 0", backoff(0))
	}
	if backoff(2) != 600*time.Millisecond {
		t.Fatalf("got %v for attempt 2", backoff(2))
	}
}

type fakeRepo struct {
	clean       bool
	cleanErr    error
	updateErrs  []error
	updateCalls int
	method      Method
}

func (f *fakeRepo) Method() Method { return f.method }
func (f *fakeRepo) Get() error     { return nil }

func (f *fakeRepo) Update() error {
	i := f.updateCalls
	f.updateCalls++
	if i < len(f.updateErrs) {
		return f.updateErrs[i]
	}
	return nil
}

func (f *fakeRepo) IsClean() (bool, error)            { return f.clean, f.cleanErr }
func (f *fakeRepo) UpdateVersion(version string) error { return nil }

func TestUpdateRefusesDirtyWorkingTree(t *testing.T) {
	r := &fakeRepo{clean: false}
	err := Update(r)
	if err == nil {
		t.Fatal("expected an error for a dirty working tree")
	}
	if r.updateCalls != 0 {
		t.Fatalf("expected Update() never called on a dirty tree, got %d calls", r.updateCalls)
	}
}

func TestUpdateRetriesTransientFailures(t *testing.T) {
	r := &fakeRepo{clean: true, updateErrs: []error{errors.New("transient"), errors.New("transient")}}
	if err := Update(r); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.updateCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", r.updateCalls)
	}
}

func TestUpdateGivesUpAfterMaxRetries(t *testing.T) {
	persistent := errors.New("persistent failure")
	r := &fakeRepo{clean: true, updateErrs: []error{persistent, persistent, persistent}}
	err := Update(r)
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
}

func TestUpdateEverythingEmptyWorkspace(t *testing.T) {
	root := t.TempDir()
	calls := 0
	confirm := func(project string) (bool, error) {
		calls++
		return false, nil
	}
	if err := UpdateEverything(root, confirm); err != nil {
		t.Fatalf("UpdateEverything: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no projects to walk in an empty workspace, got %d confirm calls", calls)
	}
}
