// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinker

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planetis-m/nawabs/internal/catalog"
	"github.com/planetis-m/nawabs/internal/cloner"
	"github.com/planetis-m/nawabs/internal/locate"
	"github.com/planetis-m/nawabs/internal/recipe"
	"github.com/planetis-m/nawabs/internal/workspace"
)

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	mustMkdirAll(t, filepath.Dir(path))
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

type noopInfo struct{}

func (noopInfo) ReadInfo(projectPath string) (cloner.ProjectInfo, error) { return cloner.ProjectInfo{}, nil }

type noopPrompt struct{}

func (noopPrompt) Ask(question string, validate func(string) error) (string, error) {
	return "", errors.New("unexpected prompt")
}

// scriptedCompiler returns actions[i] for the i-th call, clamping at the
// last entry once exhausted.
type scriptedCompiler struct {
	actions []Action
	calls   int
}

func (s *scriptedCompiler) Invoke(exe string, args []string, path []string) (Action, error) {
	i := s.calls
	if i >= len(s.actions) {
		i = len(s.actions) - 1
	}
	s.calls++
	return s.actions[i], nil
}

func setupWorkspace(t *testing.T) (*workspace.Config, *catalog.Catalog, *locate.Project) {
	t.Helper()
	root := t.TempDir()
	ws, err := workspace.Init(root)
	if err != nil {
		t.Fatal(err)
	}
	mustMkdirAll(t, filepath.Join(root, "app"))
	mustWriteFile(t, filepath.Join(root, "libA", "src", "mod.nim"), "# stub\n")

	shard := `[{"name":"libA","url":"git://h/libA","method":"git","license":"MIT","description":"d","tags":[]}]`
	mustWriteFile(t, filepath.Join(ws.PackagesDir, "a.json"), shard)

	cat, err := catalog.Load(ws, nil)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &workspace.Config{WS: ws, CompilerExe: "nim", RecipesEnabled: true}
	proj := &locate.Project{Name: "app", Subdir: root}
	return cfg, cat, proj
}

func TestTinkerResolvesMissingFileAndSucceeds(t *testing.T) {
	cfg, cat, proj := setupWorkspace(t)

	compiler := &scriptedCompiler{actions: []Action{
		{Kind: ActionFileMissing, Path: "libA/mod"},
		{Kind: ActionSuccess},
	}}

	err := Tinker(cfg, cat, noopInfo{}, noopPrompt{}, compiler, proj, []string{"c", "--noNimblePath", "app.nim"})
	if err != nil {
		t.Fatalf("Tinker: %v", err)
	}

	rec, err := recipe.Read(cfg.WS.RecipesPath, "app")
	if err != nil {
		t.Fatalf("expected a written recipe, got error: %v", err)
	}
	if len(rec.Path) != 1 || filepath.Base(filepath.Dir(rec.Path[0])) != "libA" {
		t.Fatalf("got recipe path %v", rec.Path)
	}
}

func TestTinkerFailureReportsLastCommand(t *testing.T) {
	cfg, cat, proj := setupWorkspace(t)

	compiler := &scriptedCompiler{actions: []Action{
		{Kind: ActionFailure, Message: "undefined symbol"},
	}}

	err := Tinker(cfg, cat, noopInfo{}, noopPrompt{}, compiler, proj, []string{"c", "app.nim"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "last command: nim c app.nim") {
		t.Fatalf("expected the last attempted command in the error, got %v", err)
	}
}

func TestTinkerStuckWhenPathCannotGrow(t *testing.T) {
	cfg, cat, proj := setupWorkspace(t)

	compiler := &scriptedCompiler{actions: []Action{
		{Kind: ActionFileMissing, Path: "libA/mod"},
		{Kind: ActionFileMissing, Path: "libA/mod"},
	}}

	err := Tinker(cfg, cat, noopInfo{}, noopPrompt{}, compiler, proj, []string{"c", "app.nim"})
	if !errors.Is(err, ErrResolverStuck) {
		t.Fatalf("got %v, want ErrResolverStuck", err)
	}
}

func TestFormatCmdLine(t *testing.T) {
	got := formatCmdLine("nim", []string{"c"}, []string{"/a", "/b"})
	want := "nim c --path:/a --path:/b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSameBasename(t *testing.T) {
	if caseInsensitiveFS {
		if !sameBasename("Mod.nim", "mod.nim") {
			t.Fatal("expected case-insensitive match on this OS")
		}
	} else {
		if sameBasename("Mod.nim", "mod.nim") {
			t.Fatal("expected case-sensitive comparison on this OS")
		}
	}
}
