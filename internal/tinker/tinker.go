// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tinker implements the tinkering resolver: the feedback loop that
// grows a compiler's search path in response to missing-file diagnostics,
// acquiring dependencies as it goes until compilation succeeds or the
// iteration cap is exhausted (spec §4.7 — the heart of nawabs).
package tinker

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/catalog"
	"github.com/planetis-m/nawabs/internal/cloner"
	"github.com/planetis-m/nawabs/internal/locate"
	"github.com/planetis-m/nawabs/internal/rank"
	"github.com/planetis-m/nawabs/internal/recipe"
	"github.com/planetis-m/nawabs/internal/workspace"
)

// caseInsensitiveFS follows the OS's usual path-comparison rule: Windows
// and macOS default to case-insensitive filesystems, everything else
// (notably Linux) defaults to case-sensitive.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// MaxIterations bounds the resolver loop (spec §4.7).
const MaxIterations = 300

// SourceExt is the file extension a missing-file diagnostic is resolved
// against when searching a dependency's tree.
const SourceExt = ".nim"

// ActionKind distinguishes the three possible compiler outcomes.
type ActionKind int

const (
	ActionSuccess ActionKind = iota
	ActionFailure
	ActionFileMissing
)

// Action is the compiler's outcome for one invocation (spec §3).
type Action struct {
	Kind    ActionKind
	Message string // set when Kind == ActionFailure
	Path    string // set when Kind == ActionFileMissing; extension stripped
}

// Compiler is the out-of-scope collaborator spec §1 calls "the compiler".
type Compiler interface {
	Invoke(exe string, args []string, path []string) (Action, error)
}

// ErrResolverTimeout is returned once MaxIterations is exceeded.
var ErrResolverTimeout = errors.New("stopped unsuccessfully: resolver timeout")

// ErrResolverStuck is returned when a candidate path is already present in
// the search path yet the file remains unresolved — the loop cannot make
// progress.
var ErrResolverStuck = errors.New("already in --path and yet compilation failed")

// ErrUserAbort is returned when an interactive disambiguation or placement
// prompt is aborted mid-resolution.
var ErrUserAbort = errors.New("aborted")

// orderedPaths is an insertion-ordered, deduplicated set of search-path
// entries (spec §3 invariant: each entry distinct).
type orderedPaths struct {
	list []string
	seen map[string]struct{}
}

func newOrderedPaths() *orderedPaths {
	return &orderedPaths{seen: make(map[string]struct{})}
}

// add reports whether p was newly inserted.
func (o *orderedPaths) add(p string) bool {
	if _, ok := o.seen[p]; ok {
		return false
	}
	o.seen[p] = struct{}{}
	o.list = append(o.list, p)
	return true
}

func (o *orderedPaths) has(p string) bool {
	_, ok := o.seen[p]
	return ok
}

// Tinker runs the resolver loop for proj, invoking compiler via cfg's
// compiler executable, and writes a recipe on success (unless disabled).
func Tinker(cfg *workspace.Config, cat *catalog.Catalog, info cloner.InfoReader, prompt rank.Prompter, compiler Compiler, proj *locate.Project, args []string) error {
	prevWD, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}
	defer os.Chdir(prevWD)

	if err := os.Chdir(proj.Path()); err != nil {
		return errors.Wrapf(err, "entering %s", proj.Path())
	}

	path := newOrderedPaths()
	lastCmdLine := formatCmdLine(cfg.CompilerExe, args, path.list)

	for iter := 1; iter <= MaxIterations; iter++ {
		action, err := compiler.Invoke(cfg.CompilerExe, args, path.list)
		if err != nil {
			return errors.Wrap(err, "invoking compiler")
		}

		switch action.Kind {
		case ActionSuccess:
			return onSuccess(cfg, proj, lastCmdLine, path.list)

		case ActionFailure:
			return errors.Errorf("compile failed: %s\nlast command: %s", action.Message, lastCmdLine)

		case ActionFileMissing:
			depPath, err := resolveMissing(cfg, cat, info, prompt, action.Path, path)
			if err != nil {
				return err
			}
			if !path.add(depPath) {
				return errors.Wrap(ErrResolverStuck, depPath)
			}
			lastCmdLine = formatCmdLine(cfg.CompilerExe, args, path.list)
		}
	}

	return ErrResolverTimeout
}

func formatCmdLine(exe string, args, path []string) string {
	parts := make([]string, 0, 1+len(args)+len(path))
	parts = append(parts, exe)
	parts = append(parts, args...)
	for _, p := range path {
		parts = append(parts, "--path:"+p)
	}
	return strings.Join(parts, " ")
}

func onSuccess(cfg *workspace.Config, proj *locate.Project, cmdLine string, path []string) error {
	if !cfg.RecipesEnabled {
		return nil
	}

	if err := recipe.Write(cfg.WS.RecipesPath, recipe.Recipe{
		ProjectName: proj.Name,
		Command:     cmdLine,
		Path:        path,
	}); err != nil {
		return errors.Wrap(err, "writing recipe")
	}

	lastCmdPath := filepath.Join(cfg.WS.RecipesDir, "last_command.toml")
	return errors.Wrap(recipe.WriteLastCommand(lastCmdPath, cmdLine), "recording last command")
}

// resolveMissing implements spec §4.7 step 4: map a missing-file
// diagnostic to a package, acquire it if needed, and locate the directory
// inside it that should be appended to the search path.
func resolveMissing(cfg *workspace.Config, cat *catalog.Catalog, info cloner.InfoReader, prompt rank.Prompter, missing string, path *orderedPaths) (string, error) {
	terms := splitTerms(missing)
	base := filepath.Base(missing)

	if existing, err := locate.Find(cfg.WS.Root, base); err != nil {
		return "", err
	} else if existing != nil {
		return findSrcPath(existing.Path(), base)
	}

	candidates := rank.Rank(cat.All(), terms)
	pkg, err := rank.Select(candidates, cfg.Interactive, prompt)
	if err != nil {
		return "", err
	}
	if pkg == nil {
		return "", errors.Errorf("unresolved missing file %q", missing)
	}

	proj, err := locate.Find(cfg.WS.Root, pkg.Name)
	if err != nil {
		return "", err
	}
	if proj == nil {
		if _, err := cloner.CloneRec(cfg, cat, info, clonerPrompter{prompt}, pkg.Name, 1); err != nil {
			if errors.Is(err, cloner.ErrUserAbort) {
				return "", ErrUserAbort
			}
			return "", err
		}
		proj, err = locate.Find(cfg.WS.Root, pkg.Name)
		if err != nil {
			return "", err
		}
		if proj == nil {
			return "", errors.Errorf("internal error: %s cloned but not found", pkg.Name)
		}
	}

	return findSrcPath(proj.Path(), base)
}

// clonerPrompter adapts rank.Prompter to cloner.Prompter; the two
// interfaces have the same shape by design (spec §9's shared ask-capability
// note).
type clonerPrompter struct {
	p rank.Prompter
}

func (c clonerPrompter) Ask(question string, validate func(string) error) (string, error) {
	return c.p.Ask(question, validate)
}

// splitTerms splits a missing-file diagnostic (extension already stripped)
// on both path separators into search terms (spec §4.7 step a).
func splitTerms(file string) []string {
	norm := strings.NewReplacer("\\", "/").Replace(file)
	parts := strings.Split(norm, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// findSrcPath walks projectPath recursively collecting every directory
// containing a file named base+SourceExt, then returns the shortest such
// path (ties broken by first-encountered order). Falls back to
// projectPath itself if nothing matches (spec §4.7 step d-e).
func findSrcPath(projectPath, base string) (string, error) {
	want := base + SourceExt
	var matches []string

	err := godirwalk.Walk(projectPath, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if sameBasename(filepath.Base(osPathname), want) {
				matches = append(matches, filepath.Dir(osPathname))
			}
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return "", errors.Wrapf(err, "searching %s", projectPath)
	}

	if len(matches) == 0 {
		return projectPath, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i]) < len(matches[j])
	})
	return matches[0], nil
}

// sameBasename compares file basenames following the OS's path-comparison
// rule: case-sensitive on case-sensitive filesystems (all non-Windows,
// non-Darwin-default here), case-insensitive otherwise.
func sameBasename(a, b string) bool {
	if caseInsensitiveFS {
		return strings.EqualFold(a, b)
	}
	return a == b
}
