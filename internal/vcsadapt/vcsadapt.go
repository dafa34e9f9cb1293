// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vcsadapt wraps github.com/Masterminds/vcs with the URL
// normalization, protocol probing, and retry policy this spec's clone/pull
// capability needs, following the wrapper style of golang-dep's
// vcs_repo.go and its process-running helpers in cmd.go.
package vcsadapt

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/locate"
)

// Method names a download method, matching catalog.Package.DownloadMethod.
type Method string

const (
	Git Method = "git"
	Hg  Method = "hg"
)

// Repo is the capability the cloner and update commands depend on: clone a
// fresh checkout, pull updates, and report whether the working tree has
// unstaged changes.
type Repo interface {
	Method() Method
	Get() error
	Update() error
	IsClean() (bool, error)
	UpdateVersion(version string) error
}

// NormalizeURL applies the two rewrites spec §4.5 calls out: rewriting a
// git:// scheme to https:// when preferHTTPS is set, and dropping a
// trailing slash on a github.com URL (a known ls-remote failure mode).
func NormalizeURL(url string, preferHTTPS bool) string {
	if preferHTTPS && strings.HasPrefix(url, "git://") {
		url = "https://" + strings.TrimPrefix(url, "git://")
	}
	if strings.Contains(url, "github.com") && strings.HasSuffix(url, "/") {
		url = strings.TrimSuffix(url, "/")
	}
	return url
}

// CloneURL normalizes url, probes it against git then hg, and clones with
// whichever protocol responds. targetName is the local directory to clone
// into.
func CloneURL(url, targetName string, preferHTTPS bool) (Repo, error) {
	url = NormalizeURL(url, preferHTTPS)

	if probeGit(url) {
		r, err := vcs.NewGitRepo(url, targetName)
		if err != nil {
			return nil, errors.Wrap(err, "preparing git repo")
		}
		gr := &gitRepo{GitRepo: r}
		if err := gr.Get(); err != nil {
			return nil, errors.Wrapf(err, "cloning %s", url)
		}
		return gr, nil
	}

	if probeHg(url) {
		r, err := vcs.NewHgRepo(url, targetName)
		if err != nil {
			return nil, errors.Wrap(err, "preparing hg repo")
		}
		hr := &hgRepo{HgRepo: r}
		if err := hr.Get(); err != nil {
			return nil, errors.Wrapf(err, "cloning %s", url)
		}
		return hr, nil
	}

	return nil, errors.Errorf("unable to identify url: %s", url)
}

func probeGit(url string) bool {
	return exec.Command("git", "ls-remote", url).Run() == nil
}

func probeHg(url string) bool {
	return exec.Command("hg", "identify", url).Run() == nil
}

// maxPullRetries bounds the retry on a transient git/hg pull failure.
const maxPullRetries = 3

// Update pulls the latest changes for r, retrying transient failures a
// bounded number of times. It refuses to pull over a dirty working tree,
// symmetrized for both git and hg per spec §9's note that the source's hg
// path skips this check asymmetrically — this implementation does not.
func Update(r Repo) error {
	clean, err := r.IsClean()
	if err != nil {
		return errors.Wrap(err, "checking working tree status")
	}
	if !clean {
		return errors.New("working tree has unstaged changes, refusing to update")
	}

	var lastErr error
	for attempt := 0; attempt < maxPullRetries; attempt++ {
		if lastErr = r.Update(); lastErr == nil {
			return nil
		}
		time.Sleep(backoff(attempt))
	}
	return errors.Wrap(lastErr, "pull failed after retries")
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 200 * time.Millisecond
}

// Open wraps an already-checked-out local directory at path, detecting
// whether it's a git or hg working copy (spec §4.5's ".git exists" /
// ".hg exists" test), mirroring context.go's VersionInWorkspace use of
// vcs.NewRepo("", path) against an existing checkout.
func Open(path string) (Repo, error) {
	r, err := vcs.NewRepo("", path)
	if err != nil {
		return nil, errors.Wrapf(err, "detecting vcs at %s", path)
	}

	switch repo := r.(type) {
	case *vcs.GitRepo:
		return &gitRepo{GitRepo: repo}, nil
	case *vcs.HgRepo:
		return &hgRepo{HgRepo: repo}, nil
	default:
		return nil, errors.Errorf("%s is not a git or hg checkout", path)
	}
}

// ConfirmFn is asked before each project update when the workspace's
// install policy is "ask" (spec §4.5).
type ConfirmFn func(project string) (bool, error)

// UpdateEverything walks every project in the workspace, recursing into
// grouping folders as locate.WalkProjects does, and updates each one.
func UpdateEverything(root string, confirm ConfirmFn) error {
	return locate.WalkProjects(root, func(p locate.Project) error {
		if confirm != nil {
			ok, err := confirm(p.Name)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		r, err := Open(p.Path())
		if err != nil {
			return errors.Wrapf(err, "opening %s", p.Path())
		}
		return Update(r)
	})
}

type gitRepo struct {
	*vcs.GitRepo
}

func (r *gitRepo) Method() Method { return Git }

func (r *gitRepo) IsClean() (bool, error) {
	out, err := runFromRepoDir(r.GitRepo, "git", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(strings_TrimSpace(string(out))) == 0, nil
}

type hgRepo struct {
	*vcs.HgRepo
}

func (r *hgRepo) Method() Method { return Hg }

func (r *hgRepo) IsClean() (bool, error) {
	out, err := runFromRepoDir(r.HgRepo, "hg", "status")
	if err != nil {
		return false, err
	}
	return len(strings_TrimSpace(string(out))) == 0, nil
}

func strings_TrimSpace(s string) string { return strings.TrimSpace(s) }

// runFromRepoDir runs cmd from repo's local directory, in the spirit of
// golang-dep's cmd.go helper of the same name, bounded by a fixed timeout
// so a hung VCS status check can't block an update forever.
func runFromRepoDir(repo vcs.Repo, name string, args ...string) ([]byte, error) {
	cmd := repo.CmdFromDir(name, args...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	done := make(chan struct{})
	var out []byte
	var err error
	go func() {
		out, err = cmd.CombinedOutput()
		close(done)
	}()

	select {
	case <-done:
		return out, err
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		return nil, ctx.Err()
	}
}
