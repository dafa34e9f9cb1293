// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// shellReplay executes a recipe's captured command line verbatim through
// the host shell, streaming its output to this process's stdout and stderr.
type shellReplay struct{}

func (shellReplay) Run(dir, cmdLine string) error {
	cmd := exec.Command("sh", "-c", cmdLine)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "replaying command: %s", cmdLine)
	}
	return nil
}
