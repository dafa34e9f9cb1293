// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cloner implements recursive dependency acquisition: given a
// package reference, clone it and everything its project info declares,
// applying the workspace's placement policy.
package cloner

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/catalog"
	"github.com/planetis-m/nawabs/internal/locate"
	"github.com/planetis-m/nawabs/internal/vcsadapt"
	"github.com/planetis-m/nawabs/internal/workspace"
)

// maxDepth bounds recursion in cloner and assembler alike (spec §4.4, §4.6).
const maxDepth = 10

// ErrRecursionBound is returned once depth exceeds maxDepth.
var ErrRecursionBound = errors.New("unbounded recursion")

// ErrUserAbort is returned when an interactive placement prompt is
// aborted (spec §4.4 step 2's "abort" answer).
var ErrUserAbort = errors.New("aborted")

// ProjectInfo is the per-build project-manifest reader spec §1 treats as an
// external collaborator.
type ProjectInfo struct {
	Backend     string
	Requires    []string
	ForeignDeps []string
}

// InfoReader reads a ProjectInfo for a project already materialized on
// disk.
type InfoReader interface {
	ReadInfo(projectPath string) (ProjectInfo, error)
}

// Prompter is the placement-prompt capability (spec §4.4 step 2); shares
// its shape with rank.Prompter so a single Stdin implementation serves
// both.
type Prompter interface {
	Ask(question string, validate func(string) error) (string, error)
}

// CloneRec acquires ref (a catalog name or a bare URL) into the workspace
// and recurses into its declared requirements, applying cfg's placement
// policy. It returns true if the package's project already existed on
// disk before this call (spec §8's idempotence property).
func CloneRec(cfg *workspace.Config, cat *catalog.Catalog, info InfoReader, prompt Prompter, ref string, depth int) (bool, error) {
	if depth > maxDepth {
		return false, ErrRecursionBound
	}

	pkg, err := resolveRef(cfg, cat, ref)
	if err != nil {
		return false, err
	}

	existing, err := locate.Find(cfg.WS.Root, pkg.Name)
	if err != nil {
		return false, err
	}

	alreadyPresent := existing != nil
	var projPath string

	if alreadyPresent {
		projPath = existing.Path()
	} else {
		branch := ""
		if o, ok := cfg.FindOverride(pkg.Name); ok {
			branch = o.Branch
		}
		projPath, err = acquire(cfg, prompt, pkg, depth, branch)
		if err != nil {
			return false, err
		}
		if projPath == "" {
			return false, ErrUserAbort
		}
	}

	if info == nil {
		return alreadyPresent, nil
	}

	pinfo, err := info.ReadInfo(projPath)
	if err != nil {
		return alreadyPresent, errors.Wrapf(err, "reading project info for %s", pkg.Name)
	}
	cfg.AddForeignDeps(pinfo.ForeignDeps)

	for _, req := range pinfo.Requires {
		if _, err := CloneRec(cfg, cat, info, prompt, req, depth+1); err != nil {
			return alreadyPresent, err
		}
	}

	return alreadyPresent, nil
}

// resolveRef consults cfg's workspace overrides before the catalog, so a
// nawabs.yml pin takes precedence over whatever URL the catalog shard
// records (supplemented feature: workspace override file).
func resolveRef(cfg *workspace.Config, cat *catalog.Catalog, ref string) (catalog.Package, error) {
	if looksLikeURL(ref) {
		return catalog.FromURL(ref), nil
	}

	if o, ok := cfg.FindOverride(ref); ok {
		pkg := catalog.FromURL(o.URL)
		pkg.Name = o.Name
		return pkg, nil
	}

	pkg, ok := cat.Lookup(ref)
	if !ok {
		return catalog.Package{}, errors.Errorf("unresolved package %q", ref)
	}
	return pkg, nil
}

func looksLikeURL(ref string) bool {
	for _, scheme := range []string{"git://", "https://", "http://", "ssh://", "hg://"} {
		if len(ref) >= len(scheme) && ref[:len(scheme)] == scheme {
			return true
		}
	}
	return false
}

// acquire clones pkg according to the placement policy and returns the
// resulting project path, or "" if the user aborted an interactive prompt.
// A non-empty branch (from a workspace override) is checked out after the
// clone completes.
func acquire(cfg *workspace.Config, prompt Prompter, pkg catalog.Package, depth int, branch string) (string, error) {
	target, err := placementTarget(cfg, prompt, pkg, depth)
	if err != nil {
		return "", err
	}
	if target == "" {
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", errors.Wrapf(err, "creating parent of %s", target)
	}

	r, err := vcsadapt.CloneURL(pkg.URL, target, cfg.PreferHTTPS)
	if err != nil {
		return "", errors.Wrapf(err, "cloning %s", pkg.Name)
	}
	if branch != "" {
		if err := r.UpdateVersion(branch); err != nil {
			return "", errors.Wrapf(err, "checking out %s@%s", pkg.Name, branch)
		}
	}
	return target, nil
}

// placementTarget implements spec §4.4 step 2's policy switch, returning
// the absolute directory the package should be cloned into ("" means the
// user chose to abort).
func placementTarget(cfg *workspace.Config, prompt Prompter, pkg catalog.Package, depth int) (string, error) {
	if depth == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "getting working directory")
		}
		return filepath.Join(wd, pkg.Name), nil
	}

	switch {
	case cfg.InstallPolicy == workspace.PolicyNone:
		return "", errors.Errorf("policy violation: %s requires installing a dependency under the none install policy", pkg.Name)

	case cfg.InstallPolicy == workspace.PolicyOnly:
		return "", errors.Errorf("policy violation: %s is a dependency, and only the named package may be cloned", pkg.Name)

	case cfg.InstallPolicy == workspace.PolicyAsk:
		return promptPlacement(cfg, prompt, pkg)

	case cfg.DepsDir != "":
		if err := os.MkdirAll(cfg.DepsDir, 0755); err != nil {
			return "", errors.Wrapf(err, "creating deps dir %s", cfg.DepsDir)
		}
		return filepath.Join(cfg.DepsDir, pkg.Name), nil

	case !cfg.Interactive:
		return filepath.Join(cfg.WS.Root, pkg.Name), nil

	default:
		return promptPlacement(cfg, prompt, pkg)
	}
}

func promptPlacement(cfg *workspace.Config, prompt Prompter, pkg catalog.Package) (string, error) {
	validate := func(ans string) error {
		switch {
		case isWorkspaceAlias(ans), ans == ".", ans == "abort":
			return nil
		case workspace.IsGroupingFolder(ans):
			return nil
		default:
			return errors.New(`enter a workspace alias (w, ws, _, or empty), ".", "abort", or a grouping folder name ending in "_"`)
		}
	}

	ans, err := prompt.Ask("Where should "+pkg.Name+" be placed?", validate)
	if err != nil {
		return "", err
	}

	switch {
	case isWorkspaceAlias(ans):
		return filepath.Join(cfg.WS.Root, pkg.Name), nil
	case ans == ".":
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "getting working directory")
		}
		return filepath.Join(wd, pkg.Name), nil
	case ans == "abort":
		return "", nil
	default:
		groupDir := filepath.Join(cfg.WS.Root, ans)
		if err := os.MkdirAll(groupDir, 0755); err != nil {
			return "", errors.Wrapf(err, "creating grouping folder %s", groupDir)
		}
		return filepath.Join(groupDir, pkg.Name), nil
	}
}

func isWorkspaceAlias(ans string) bool {
	switch ans {
	case "w", "ws", "_", "":
		return true
	default:
		return false
	}
}

