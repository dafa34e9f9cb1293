// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refresh runs a workspace's catalog-refresh script, the one
// out-of-scope collaborator spec §1 calls "scripted configuration refresh".
package refresh

import (
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/workspace"
)

// ScriptName is the refresh script's conventional location under the
// workspace's recipes directory (spec §6's config/roots.nims).
const ScriptName = "config/roots.nims"

// Shell is the default Refresher: it execs the workspace's refresh script
// with the workspace root as its working directory, the same
// run-from-cwd-then-report-combined-output idiom golang-dep uses for every
// external process it shells out to.
type Shell struct {
	// Exe overrides the interpreter used to run the script. Empty means
	// execute the script directly (it must be marked executable).
	Exe string
}

// Refresh implements catalog.Refresher.
func (s Shell) Refresh(ws *workspace.Workspace) error {
	script := filepath.Join(ws.RecipesDir, ScriptName)

	var cmd *exec.Cmd
	if s.Exe != "" {
		cmd = exec.Command(s.Exe, script)
	} else {
		cmd = exec.Command(script)
	}
	cmd.Dir = ws.Root

	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "refresh script failed: %s", string(out))
	}
	return nil
}
